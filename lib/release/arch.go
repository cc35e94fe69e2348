// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// archNames maps kernel machine names to release artifact suffixes.
var archNames = map[string]string{
	"x86_64":  "amd64",
	"aarch64": "arm64",
}

// ArchFor returns the artifact suffix for a uname machine name.
func ArchFor(machine string) (string, error) {
	arch, ok := archNames[machine]
	if !ok {
		return "", fmt.Errorf("unsupported architecture %q", machine)
	}
	return arch, nil
}

// Machine returns the kernel's machine field (e.g. "x86_64").
func Machine() (string, error) {
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return "", fmt.Errorf("uname: %w", err)
	}
	return unix.ByteSliceToString(uname.Machine[:]), nil
}

// HostArch returns the artifact suffix for the running kernel.
func HostArch() (string, error) {
	machine, err := Machine()
	if err != nil {
		return "", err
	}
	return ArchFor(machine)
}
