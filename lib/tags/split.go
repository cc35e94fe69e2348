// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package tags

import (
	"strings"
	"unicode"
)

// Set is an ordered sequence of tags with no duplicates. The first
// occurrence of a tag fixes its position.
type Set []string

// Empty reports whether the set holds no tags.
func (s Set) Empty() bool {
	return len(s) == 0
}

// Request is the parsed form of an install command line: the tags to
// dispatch and the arguments passed through verbatim to every target
// that receives at least one tag.
type Request struct {
	Tags Set

	// Extra holds the pass-through arguments as separate argv entries.
	// [Parse] splits the trailing text on whitespace; [ParseArgs] keeps
	// the caller's argv entries intact so quoting survives.
	Extra []string
}

// ExtraString returns the pass-through arguments joined by single
// spaces, matching the textual form the user typed.
func (r Request) ExtraString() string {
	return strings.Join(r.Extra, " ")
}

// Parse splits a free-form install string such as
// "plex, cm-tautulli, sandbox-test -vv" into a [Request].
//
// The space after every comma is removed first, so "a, b" and "a,b" are
// the same input. The tag block runs up to the first whitespace-delimited
// token that begins with "-"; that token and everything after it become
// the extra arguments.
func Parse(input string) Request {
	return ParseArgs(strings.Fields(normalizeCommas(input)))
}

// ParseArgs is the argv form of [Parse]. Each element is one shell word
// as delivered by the operating system. Words before the first word
// beginning with "-" form the tag block; that word and all following
// words are returned unchanged in [Request.Extra].
func ParseArgs(args []string) Request {
	var request Request
	var block []string

	for index, arg := range args {
		if isFlag(arg) {
			request.Extra = append([]string(nil), args[index:]...)
			break
		}
		block = append(block, arg)
	}

	request.Tags = SplitTags(normalizeCommas(strings.Join(block, " ")))
	return request
}

// SplitTags splits a tag block on commas and whitespace, discards empty
// tokens, and removes duplicates while preserving first-occurrence order.
func SplitTags(block string) Set {
	fields := strings.FieldsFunc(block, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	seen := make(map[string]bool, len(fields))
	var set Set
	for _, field := range fields {
		if field == "" || seen[field] {
			continue
		}
		seen[field] = true
		set = append(set, field)
	}
	return set
}

// normalizeCommas deletes the whitespace that follows any comma.
func normalizeCommas(input string) string {
	var builder strings.Builder
	builder.Grow(len(input))

	afterComma := false
	for _, r := range input {
		if afterComma && unicode.IsSpace(r) {
			continue
		}
		afterComma = r == ','
		builder.WriteRune(r)
	}
	return builder.String()
}

// isFlag reports whether a word looks like a command-line flag. A lone
// "-" is not a flag.
func isFlag(word string) bool {
	return len(word) > 1 && word[0] == '-'
}
