// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package ansible

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/saltyorg/sb/lib/workdir"
)

// DefaultBinary is where the Saltbox bootstrap installs the runner.
const DefaultBinary = "/usr/local/bin/ansible-playbook"

// Playbook describes one playbook the runner can execute.
type Playbook struct {
	// Dir is the repository root. Runs execute with Dir as the working
	// directory so relative role and inventory paths resolve.
	Dir string

	// Path is the playbook file, usually inside Dir.
	Path string

	// LogPath is the log file reset before each run. Empty disables
	// log handling.
	LogPath string
}

// ExitError reports a playbook run that exited non-zero.
type ExitError struct {
	Playbook string
	Code     int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("playbook %s exited with code %d", e.Playbook, e.Code)
}

// ExitCode returns the runner's exit status.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// Runner executes playbooks with the external runner binary.
type Runner struct {
	// Binary is the playbook runner executable.
	Binary string

	// Stdin, Stdout and Stderr are inherited by playbook runs. Nil
	// values fall back to the process's standard streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Env is appended to the process environment for every run.
	Env []string

	Logger *slog.Logger
}

// NewRunner returns a Runner for binary that streams to the process's
// standard streams.
func NewRunner(binary string, logger *slog.Logger) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Runner{
		Binary: binary,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
}

// CommandLine returns the full argv a run of playbook with args would
// use, runner binary first.
func (r *Runner) CommandLine(playbook Playbook, args []string) []string {
	argv := []string{r.Binary, playbook.Path, "--become"}
	return append(argv, args...)
}

// VerbosityArgs returns the runner flag for verbosity level n ("-vv"
// for 2), or nil when n is zero.
func VerbosityArgs(n int) []string {
	if n <= 0 {
		return nil
	}
	return []string{"-" + strings.Repeat("v", n)}
}

// Run resets the playbook's log, changes into its repository root, and
// runs the playbook with "--become" followed by args. Output is streamed,
// not captured. The previous working directory is restored on every
// path.
func (r *Runner) Run(ctx context.Context, playbook Playbook, args []string) error {
	argv := r.CommandLine(playbook, args)
	r.logger().Debug("running playbook",
		"playbook", playbook.Path,
		"command", strings.Join(argv, " "),
	)

	if err := ResetLog(playbook.LogPath); err != nil {
		return err
	}

	return workdir.Run(playbook.Dir, func() error {
		command := exec.CommandContext(ctx, argv[0], argv[1:]...)
		command.Stdin = orReader(r.Stdin, os.Stdin)
		command.Stdout = orWriter(r.Stdout, os.Stdout)
		command.Stderr = orWriter(r.Stderr, os.Stderr)
		command.Env = append(os.Environ(), r.Env...)
		if playbook.LogPath != "" {
			command.Env = append(command.Env, "ANSIBLE_LOG_PATH="+playbook.LogPath)
		}

		err := command.Run()
		if err == nil {
			return nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code <= 0 {
				// Terminated by a signal.
				code = 1
			}
			return &ExitError{Playbook: playbook.Path, Code: code}
		}
		return fmt.Errorf("starting %s: %w", r.Binary, err)
	})
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}

func orReader(reader, fallback io.Reader) io.Reader {
	if reader == nil {
		return fallback
	}
	return reader
}

func orWriter(writer, fallback io.Writer) io.Writer {
	if writer == nil {
		return fallback
	}
	return writer
}
