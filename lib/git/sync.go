// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
)

// Playbook repositories ship a default runner configuration that is
// copied into place after every sync so local edits never survive.
const (
	DefaultAnsibleConfig = "defaults/ansible.cfg.default"
	AnsibleConfig        = "ansible.cfg"
)

// SyncOptions configures [Repository.Sync].
type SyncOptions struct {
	// Branch is checked out and reset to its upstream.
	Branch string

	// Owner, when set, receives ownership of the whole tree after the
	// sync ("chown -R owner:owner").
	Owner string
}

// SyncResult reports the commits before and after a sync.
type SyncResult struct {
	Before string
	After  string
}

// Changed reports whether the sync moved HEAD.
func (s SyncResult) Changed() bool {
	return s.Before != s.After
}

// syncStep is one git invocation of a sync. Steps before the checkout
// may fail when the current branch has no upstream; the checkout and
// the reset that follows it establish the final state.
type syncStep struct {
	args     []string
	tolerate bool
}

// Sync discards every local change and moves the working tree to the
// upstream state of opts.Branch: fetch, clean, hard reset, checkout,
// clean, hard reset, then a recursive submodule update. When the
// repository ships [DefaultAnsibleConfig] it is copied over
// [AnsibleConfig], and the tree is handed to opts.Owner.
func (r *Repository) Sync(ctx context.Context, opts SyncOptions) (SyncResult, error) {
	if opts.Branch == "" {
		return SyncResult{}, fmt.Errorf("syncing %s: branch is required", r.dir)
	}

	var result SyncResult
	before, err := r.Head(ctx)
	if err != nil {
		return result, err
	}
	result.Before = before

	steps := []syncStep{
		{args: []string{"fetch", "--quiet"}},
		{args: []string{"clean", "--quiet", "-df"}},
		{args: []string{"reset", "--quiet", "--hard", "@{u}"}, tolerate: true},
		{args: []string{"checkout", "--quiet", opts.Branch}},
		{args: []string{"clean", "--quiet", "-df"}},
		{args: []string{"reset", "--quiet", "--hard", "@{u}"}},
		{args: []string{"submodule", "update", "--init", "--recursive", "--quiet"}},
	}
	for _, step := range steps {
		if _, err := r.Run(ctx, step.args...); err != nil && !step.tolerate {
			return result, err
		}
	}

	if err := r.installAnsibleConfig(); err != nil {
		return result, err
	}

	if opts.Owner != "" {
		if err := chownTree(ctx, r.dir, opts.Owner); err != nil {
			return result, err
		}
	}

	after, err := r.Head(ctx)
	if err != nil {
		return result, err
	}
	result.After = after
	return result, nil
}

// installAnsibleConfig copies the shipped default runner configuration
// into place. Repositories without one are left alone.
func (r *Repository) installAnsibleConfig() error {
	source, err := os.Open(filepath.Join(r.dir, DefaultAnsibleConfig))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening default runner config: %w", err)
	}
	defer source.Close()

	destinationPath := filepath.Join(r.dir, AnsibleConfig)
	destination, err := os.OpenFile(destinationPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", destinationPath, err)
	}
	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return fmt.Errorf("writing %s: %w", destinationPath, err)
	}
	return destination.Close()
}

func chownTree(ctx context.Context, dir, owner string) error {
	output, err := exec.CommandContext(ctx, "chown", "-R", owner+":"+owner, dir).CombinedOutput()
	if err != nil {
		return fmt.Errorf("chown -R %s %s: %w (output: %s)", owner, dir, err, output)
	}
	return nil
}
