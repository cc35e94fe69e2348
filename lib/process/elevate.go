// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

// PreservedEnvironment lists the variables sudo keeps across elevation.
var PreservedEnvironment = []string{
	"SB_CONFIG",
	"SB_DEBUG",
	"SB_SKIP_SELF_UPDATE",
	"EDITOR",
}

// Elevator re-executes the current command as root. The zero value is
// not usable; use [DefaultElevator] or fill every field in tests.
type Elevator struct {
	Geteuid    func() int
	LookPath   func(file string) (string, error)
	Executable func() (string, error)
	Exec       func(argv0 string, argv []string, envv []string) error
}

// DefaultElevator uses the real process primitives.
var DefaultElevator = Elevator{
	Geteuid:    unix.Geteuid,
	LookPath:   exec.LookPath,
	Executable: os.Executable,
	Exec:       unix.Exec,
}

// Elevate re-executes args (without the program name) under sudo via
// [DefaultElevator].
func Elevate(args []string) error {
	return DefaultElevator.Elevate(args)
}

// Elevate returns nil immediately when the process already runs as
// root. Otherwise it replaces the process with
// "sudo --preserve-env=... <executable> args...". A returned error
// means the exec itself failed.
func (e Elevator) Elevate(args []string) error {
	if e.Geteuid() == 0 {
		return nil
	}

	sudo, err := e.LookPath("sudo")
	if err != nil {
		return fmt.Errorf("sb must run as root and sudo is unavailable: %w", err)
	}
	executable, err := e.Executable()
	if err != nil {
		return fmt.Errorf("resolving own executable path: %w", err)
	}

	argv := []string{sudo, "--preserve-env=" + strings.Join(PreservedEnvironment, ","), executable}
	argv = append(argv, args...)
	if err := e.Exec(sudo, argv, os.Environ()); err != nil {
		return fmt.Errorf("relaunching with root privileges: %w", err)
	}
	return nil
}
