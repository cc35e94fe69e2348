// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package ansible

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// taskTagsMarker introduces the tag list in "--list-tags" output:
//
//	TASK TAGS: [always, plex, sonarr]
const taskTagsMarker = "TASK TAGS:"

// ErrNoTaskTags is returned when "--list-tags" output has no
// "TASK TAGS:" line, which usually means the playbook failed to parse.
var ErrNoTaskTags = errors.New("no TASK TAGS line in playbook output")

// ListTags enumerates the tags a playbook defines. The "always" tag is
// always skipped; skipTags adds further exclusions (for example
// "sanity_check" for add-on repositories). The run is read-only and
// does not touch the playbook's log.
func (r *Runner) ListTags(ctx context.Context, playbook Playbook, skipTags []string) ([]string, error) {
	skip := append([]string{"always"}, skipTags...)
	command := exec.CommandContext(ctx, r.Binary,
		playbook.Path,
		"--become",
		"--list-tags",
		"--skip-tags="+strings.Join(skip, ","),
	)
	command.Dir = playbook.Dir
	command.Env = append(os.Environ(), r.Env...)

	output, err := command.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("listing tags of %s: %w (output: %s)",
			playbook.Path, err, strings.TrimSpace(lastLines(string(output), 5)))
	}

	tags, err := ParseTaskTags(string(output))
	if err != nil {
		return nil, fmt.Errorf("%w: make sure %s is formatted correctly", err, playbook.Path)
	}
	return tags, nil
}

// ParseTaskTags extracts the tag list from "--list-tags" output. When
// several plays report tags, the first TASK TAGS line wins.
func ParseTaskTags(output string) ([]string, error) {
	for line := range strings.Lines(output) {
		_, list, found := strings.Cut(line, taskTagsMarker)
		if !found {
			continue
		}
		list = strings.NewReplacer("[", "", "]", "").Replace(list)

		var tags []string
		for _, tag := range strings.Split(list, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		return tags, nil
	}
	return nil, ErrNoTaskTags
}

// lastLines returns the final n lines of text.
func lastLines(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
