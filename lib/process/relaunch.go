// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// RelaunchOptions configures [Relaunch].
type RelaunchOptions struct {
	// Binary is the executable to run. It is usually the freshly
	// installed binary, not the running one.
	Binary string

	// Args are passed after the program name.
	Args []string

	// Env is appended to the current environment.
	Env []string

	// Stdin, Stdout and Stderr default to the process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Relaunch runs opts.Binary as a child process with inherited stdio and
// waits for it. It returns the child's exit code; the error is non-nil
// only when the child could not be started.
func Relaunch(ctx context.Context, opts RelaunchOptions) (int, error) {
	command := exec.CommandContext(ctx, opts.Binary, opts.Args...)
	command.Stdin = opts.Stdin
	if command.Stdin == nil {
		command.Stdin = os.Stdin
	}
	command.Stdout = opts.Stdout
	if command.Stdout == nil {
		command.Stdout = os.Stdout
	}
	command.Stderr = opts.Stderr
	if command.Stderr == nil {
		command.Stderr = os.Stderr
	}
	command.Env = append(os.Environ(), opts.Env...)

	err := command.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code, nil
		}
		// Terminated by a signal.
		return 1, nil
	}
	return 0, fmt.Errorf("relaunching %s: %w", opts.Binary, err)
}
