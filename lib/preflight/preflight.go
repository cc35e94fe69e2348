// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package preflight

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"

	"github.com/saltyorg/sb/lib/release"
)

// DefaultOSReleasePath is the os-release(5) file read by [Host].
const DefaultOSReleasePath = "/etc/os-release"

// SupportedCodenames are the Ubuntu releases Saltbox installs on.
var SupportedCodenames = []string{"jammy", "noble"}

// DisallowedVirtualization lists systemd-detect-virt identifiers of
// container runtimes Saltbox cannot run inside.
var DisallowedVirtualization = []string{"openvz", "lxc"}

// DesktopPackage marks a desktop install when present.
const DesktopPackage = "ubuntu-desktop"

// Check names, in the order [Host.Checks] reports them.
const (
	CheckOS             = "operating system"
	CheckArchitecture   = "cpu architecture"
	CheckVirtualization = "virtualization"
	CheckDesktop        = "server install"
)

// Check is the outcome of one host precondition.
type Check struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// Error reports an unmet precondition. Its exit code is always 1.
type Error struct {
	Check Check
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Check.Name, e.Check.Message)
}

// ExitCode returns 1.
func (e *Error) ExitCode() int {
	return 1
}

// CommandRunner runs name with args and returns its stdout and exit
// code. err is non-nil only when the command could not be started.
type CommandRunner func(ctx context.Context, name string, args ...string) (stdout string, code int, err error)

// Host inspects the machine. The zero value inspects the running host.
type Host struct {
	// OSReleasePath defaults to [DefaultOSReleasePath].
	OSReleasePath string

	// Machine returns the uname machine field. Defaults to
	// [release.Machine].
	Machine func() (string, error)

	// Run defaults to [RunCommand].
	Run CommandRunner
}

// RunCommand is the default [CommandRunner].
func RunCommand(ctx context.Context, name string, args ...string) (string, int, error) {
	output, err := exec.CommandContext(ctx, name, args...).Output()
	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		return string(output), exitError.ExitCode(), nil
	}
	if err != nil {
		return "", -1, err
	}
	return string(output), 0, nil
}

// Checks runs every precondition and reports each outcome.
func (h Host) Checks(ctx context.Context) []Check {
	return []Check{
		h.checkOS(),
		h.checkArchitecture(),
		h.checkVirtualization(ctx),
		h.checkDesktop(ctx),
	}
}

// Require returns an [*Error] for the first failed precondition.
func (h Host) Require(ctx context.Context) error {
	for _, check := range h.Checks(ctx) {
		if !check.Passed {
			return &Error{Check: check}
		}
	}
	return nil
}

func (h Host) checkOS() Check {
	path := h.OSReleasePath
	if path == "" {
		path = DefaultOSReleasePath
	}
	fields, err := ReadOSRelease(path)
	if err != nil {
		return Check{Name: CheckOS, Message: err.Error(), Hint: "Saltbox requires Ubuntu " + strings.Join(SupportedCodenames, " or ")}
	}

	name := fields["PRETTY_NAME"]
	if name == "" {
		name = strings.TrimSpace(fields["ID"] + " " + fields["VERSION_ID"])
	}
	codename := fields["VERSION_CODENAME"]
	if fields["ID"] != "ubuntu" || !slices.Contains(SupportedCodenames, codename) {
		return Check{
			Name:    CheckOS,
			Message: fmt.Sprintf("unsupported release %s (%s)", name, codename),
			Hint:    "Saltbox requires Ubuntu " + strings.Join(SupportedCodenames, " or "),
		}
	}
	return Check{Name: CheckOS, Passed: true, Message: fmt.Sprintf("%s (%s)", name, codename)}
}

func (h Host) checkArchitecture() Check {
	machine := h.Machine
	if machine == nil {
		machine = release.Machine
	}
	name, err := machine()
	if err != nil {
		return Check{Name: CheckArchitecture, Message: err.Error()}
	}
	if _, err := release.ArchFor(name); err != nil {
		return Check{Name: CheckArchitecture, Message: err.Error(), Hint: "Saltbox supports x86_64 and aarch64"}
	}
	return Check{Name: CheckArchitecture, Passed: true, Message: name}
}

func (h Host) checkVirtualization(ctx context.Context) Check {
	output, _, err := h.run(ctx, "systemd-detect-virt")
	if err != nil {
		return Check{Name: CheckVirtualization, Passed: true, Message: "not detected (systemd-detect-virt unavailable)"}
	}
	// systemd-detect-virt prints "none" and exits 1 on bare metal.
	kind := strings.TrimSpace(output)
	if kind == "" {
		kind = "none"
	}
	if slices.Contains(DisallowedVirtualization, kind) {
		return Check{
			Name:    CheckVirtualization,
			Message: kind + " containers are not supported",
			Hint:    "use a virtual machine or bare metal",
		}
	}
	return Check{Name: CheckVirtualization, Passed: true, Message: kind}
}

func (h Host) checkDesktop(ctx context.Context) Check {
	output, code, err := h.run(ctx, "dpkg-query", "-W", "-f=${Status}", DesktopPackage)
	if err != nil {
		return Check{Name: CheckDesktop, Passed: true, Message: "dpkg-query unavailable, assuming server"}
	}
	if code == 0 && strings.Contains(output, "install ok installed") {
		return Check{
			Name:    CheckDesktop,
			Message: DesktopPackage + " is installed",
			Hint:    "Saltbox requires Ubuntu Server",
		}
	}
	return Check{Name: CheckDesktop, Passed: true, Message: DesktopPackage + " not installed"}
}

func (h Host) run(ctx context.Context, name string, args ...string) (string, int, error) {
	run := h.Run
	if run == nil {
		run = RunCommand
	}
	return run(ctx, name, args...)
}

// ReadOSRelease parses an os-release(5) file into its fields. Values
// may be single-quoted, double-quoted or bare.
func ReadOSRelease(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading os release: %w", err)
	}
	defer file.Close()

	fields := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = unquote(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return fields, nil
}

func unquote(value string) string {
	if unquoted, err := strconv.Unquote(value); err == nil {
		return unquoted
	}
	if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
		return value[1 : len(value)-1]
	}
	return value
}
