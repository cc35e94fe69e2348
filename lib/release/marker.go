// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrMalformedMarker is returned when the marker file does not hold a
// single refs/tags/<version> line.
var ErrMalformedMarker = errors.New("malformed release marker")

var markerPattern = regexp.MustCompile(`^refs/tags/(\S+)$`)

// ParseMarker extracts the version from marker content. Surrounding
// whitespace is ignored; anything else must match refs/tags/<version>
// exactly.
func ParseMarker(content string) (string, error) {
	line := strings.TrimSpace(content)
	match := markerPattern.FindStringSubmatch(line)
	if match == nil {
		return "", fmt.Errorf("%w: %q does not match refs/tags/<version>", ErrMalformedMarker, line)
	}
	return match[1], nil
}

// ReadMarker reads and parses the marker file at path.
func ReadMarker(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading release marker: %w", err)
	}
	version, err := ParseMarker(string(data))
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return version, nil
}

// FetchMarked reads the marker at markerPath and fetches that version.
// A malformed marker fails before any download, leaving the installed
// binary untouched.
func FetchMarked(ctx context.Context, markerPath string, opts FetchOptions) (Outcome, error) {
	version, err := ReadMarker(markerPath)
	if err != nil {
		return Outcome{}, err
	}
	opts.Version = version
	return Fetch(ctx, opts)
}
