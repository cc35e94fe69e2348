// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"
)

// SafeDirectories returns the safe.directory entries of the global git
// configuration. Root runs git against repositories owned by the
// Saltbox user, which git refuses unless they are listed.
func SafeDirectories(ctx context.Context) ([]string, error) {
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", "config", "--global", "--get-all", "safe.directory")
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		// Exit status 1 means the key is unset.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, fmt.Errorf("reading safe.directory: %w (stderr: %s)",
			err, strings.TrimSpace(stderr.String()))
	}

	var directories []string
	for line := range strings.Lines(stdout.String()) {
		if line = strings.TrimSpace(line); line != "" {
			directories = append(directories, line)
		}
	}
	return directories, nil
}

// IsSafeDirectory reports whether dir (or the "*" wildcard) is listed in
// safe.directory.
func IsSafeDirectory(ctx context.Context, dir string) (bool, error) {
	directories, err := SafeDirectories(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(directories, dir) || slices.Contains(directories, "*"), nil
}

// AddSafeDirectory lists dir in safe.directory unless it already is.
// It reports whether an entry was added.
func AddSafeDirectory(ctx context.Context, dir string) (bool, error) {
	safe, err := IsSafeDirectory(ctx, dir)
	if err != nil || safe {
		return false, err
	}

	output, err := exec.CommandContext(ctx, "git", "config", "--global", "--add", "safe.directory", dir).CombinedOutput()
	if err != nil {
		return false, fmt.Errorf("adding %s to safe.directory: %w (output: %s)",
			dir, err, strings.TrimSpace(string(output)))
	}
	return true, nil
}
