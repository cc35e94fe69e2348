// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package apptest builds [app.App] values backed by fakes so command
// tests run without root, git remotes or a playbook runner.
package apptest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/saltyorg/sb/cmd/sb/app"
	"github.com/saltyorg/sb/lib/ansible"
	"github.com/saltyorg/sb/lib/config"
	"github.com/saltyorg/sb/lib/dispatch"
	"github.com/saltyorg/sb/lib/preflight"
	"github.com/saltyorg/sb/lib/tags"
)

// NobleRelease is an os-release file for a supported host.
const NobleRelease = `NAME="Ubuntu"
VERSION_CODENAME=noble
ID=ubuntu
`

// Call is one recorded playbook run.
type Call struct {
	Playbook   ansible.Playbook
	Args       []string
	DispatchID string
}

// Runner records playbook runs. Playbooks whose repository directory
// is listed in ExitCodes fail with that code.
type Runner struct {
	mu        sync.Mutex
	calls     []Call
	ExitCodes map[string]int

	dispatchID string
}

// Run implements [dispatch.PlaybookRunner].
func (r *Runner) Run(_ context.Context, playbook ansible.Playbook, args []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Playbook: playbook, Args: slices.Clone(args), DispatchID: r.dispatchID})
	if code, ok := r.ExitCodes[playbook.Dir]; ok {
		return &ansible.ExitError{Playbook: playbook.Path, Code: code}
	}
	return nil
}

// Calls returns the recorded runs in order.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// TagSource answers tag enumeration from Tags, keyed by repository
// directory, and counts calls.
type TagSource struct {
	mu    sync.Mutex
	Tags  map[string][]string
	Errs  map[string]error
	calls int
}

// ListTags implements [tagcache.Source].
func (s *TagSource) ListTags(_ context.Context, playbook ansible.Playbook, _ []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err := s.Errs[playbook.Dir]; err != nil {
		return nil, err
	}
	return s.Tags[playbook.Dir], nil
}

// Calls returns the number of enumerations.
func (s *TagSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Fixture is an App wired to fakes, with every path under a temporary
// directory.
type Fixture struct {
	App    *app.App
	Config *config.Config
	Runner *Runner
	Tags   *TagSource
	Stdout *bytes.Buffer
	Stderr *bytes.Buffer

	// Commits maps repository directories to their HEAD. Missing
	// entries fail the commit lookup.
	Commits map[string]string

	// SyncChanged and SyncErrs control the fake repository sync per
	// target.
	SyncChanged map[tags.TargetID]bool
	SyncErrs    map[tags.TargetID]error

	// Commands answer the host preflight's external commands, keyed
	// by name. Missing names behave like missing binaries.
	Commands map[string]string

	mu     sync.Mutex
	synced []dispatch.Target
}

// New returns a Fixture whose repositories all exist and whose host
// passes every preflight check.
func New(t *testing.T) *Fixture {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.Paths.Control = filepath.Join(root, "sb")
	cfg.Paths.Binary = filepath.Join(root, "sb", "sb")
	cfg.Paths.Cache = filepath.Join(root, "sb", "cache.json")
	cfg.Paths.Accounts = filepath.Join(root, "accounts.yml")
	cfg.Release.Marker = filepath.Join(root, "sb", "release.txt")
	cfg.Runner.Binary = filepath.Join(root, "ansible-playbook")
	cfg.Targets.Primary.Repository = filepath.Join(root, "saltbox")
	cfg.Targets.Community.Repository = filepath.Join(root, "community")
	cfg.Targets.Sandbox.Repository = filepath.Join(root, "sandbox")

	for _, dir := range []string{cfg.Paths.Control, cfg.Targets.Primary.Repository,
		cfg.Targets.Community.Repository, cfg.Targets.Sandbox.Repository} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(cfg.Runner.Binary, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	osRelease := filepath.Join(root, "os-release")
	if err := os.WriteFile(osRelease, []byte(NobleRelease), 0o644); err != nil {
		t.Fatal(err)
	}

	fixture := &Fixture{
		Config:      cfg,
		Runner:      &Runner{ExitCodes: map[string]int{}},
		Tags:        &TagSource{Tags: map[string][]string{}, Errs: map[string]error{}},
		Stdout:      &bytes.Buffer{},
		Stderr:      &bytes.Buffer{},
		Commits:     map[string]string{},
		SyncChanged: map[tags.TargetID]bool{},
		SyncErrs:    map[tags.TargetID]error{},
		Commands:    map[string]string{},
	}
	fixture.App = &app.App{
		Stdin:      strings.NewReader(""),
		Stdout:     fixture.Stdout,
		Stderr:     fixture.Stderr,
		LoadConfig: func() (*config.Config, error) { return cfg, nil },
		Host: preflight.Host{
			OSReleasePath: osRelease,
			Machine:       func() (string, error) { return "x86_64", nil },
			Run:           fixture.runCommand,
		},
		NewRunner: func(_ *config.Config, dispatchID string, _ *slog.Logger) dispatch.PlaybookRunner {
			fixture.Runner.mu.Lock()
			fixture.Runner.dispatchID = dispatchID
			fixture.Runner.mu.Unlock()
			return fixture.Runner
		},
		Sync:      fixture.sync,
		TagSource: fixture.Tags,
		Commit:    fixture.commit,
	}
	return fixture
}

// Synced returns the targets passed to the fake sync, in order.
func (f *Fixture) Synced() []dispatch.Target {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.synced)
}

// Repository returns the configured directory of target.
func (f *Fixture) Repository(target tags.TargetID) string {
	switch target {
	case tags.Community:
		return f.Config.Targets.Community.Repository
	case tags.Sandbox:
		return f.Config.Targets.Sandbox.Repository
	default:
		return f.Config.Targets.Primary.Repository
	}
}

func (f *Fixture) sync(_ context.Context, target dispatch.Target) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synced = append(f.synced, target)
	if err := f.SyncErrs[target.ID]; err != nil {
		return false, err
	}
	return f.SyncChanged[target.ID], nil
}

func (f *Fixture) commit(_ context.Context, dir string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	commit, ok := f.Commits[dir]
	if !ok {
		return "", fmt.Errorf("%s: not a git repository", dir)
	}
	return commit, nil
}

func (f *Fixture) runCommand(_ context.Context, name string, _ ...string) (string, int, error) {
	output, ok := f.Commands[name]
	if !ok {
		return "", -1, exec.ErrNotFound
	}
	return output, 0, nil
}

// ErrSync is a convenience error for failing fake syncs.
var ErrSync = errors.New("fetch failed")
