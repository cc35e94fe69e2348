// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package tags

import "strings"

// Routing prefixes. They are checked in this order: community first,
// then sandbox, and anything else is a primary tag.
const (
	CommunityPrefix = "cm-"
	SandboxPrefix   = "sandbox-"
)

// Classify returns the target a tag routes to and the tag with its
// routing prefix removed. Primary tags are returned unchanged.
func Classify(tag string) (TargetID, string) {
	if stripped, ok := strings.CutPrefix(tag, CommunityPrefix); ok {
		return Community, stripped
	}
	if stripped, ok := strings.CutPrefix(tag, SandboxPrefix); ok {
		return Sandbox, stripped
	}
	return Primary, tag
}

// Buckets holds the stripped tags destined for each target, in the
// order they appeared in the source set.
type Buckets struct {
	buckets [len(Order)][]string
}

// Route partitions set into per-target buckets. Every tag lands in
// exactly one bucket, except a bare prefix ("cm-", "sandbox-"), which
// names no tag and is dropped.
func Route(set Set) Buckets {
	var buckets Buckets
	for _, tag := range set {
		id, stripped := Classify(tag)
		if stripped == "" {
			continue
		}
		buckets.buckets[id] = append(buckets.buckets[id], stripped)
	}
	return buckets
}

// For returns the stripped tags routed to id. The result is nil when no
// tag routed there.
func (b Buckets) For(id TargetID) []string {
	if id < 0 || int(id) >= len(b.buckets) {
		return nil
	}
	return b.buckets[id]
}

// Empty reports whether no target received any tag.
func (b Buckets) Empty() bool {
	for _, bucket := range b.buckets {
		if len(bucket) > 0 {
			return false
		}
	}
	return true
}
