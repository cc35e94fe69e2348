// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package git provides typed access to the git CLI for the repositories
// sb maintains: the control repository and the three playbook
// repositories. All commands target a specific repository directory via
// the -C flag, which is automatically injected by all Repository
// methods.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Repository represents a git working tree at a specific directory. All
// operations target this directory via "git -C <dir>". There is no
// default directory; callers must always specify which repository they
// mean.
type Repository struct {
	dir string
}

// NewRepository returns a Repository targeting the given directory.
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// Dir returns the repository directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Run executes a git command targeting this repository and returns
// stdout. Stderr is captured separately and included in error messages
// on failure.
func (r *Repository) Run(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	command := r.Command(ctx, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("git %s in %s: %w (stderr: %s)",
			strings.Join(args, " "), r.dir, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Command returns an *exec.Cmd for a git command without running it.
// The -C flag targeting this repository is automatically prepended.
func (r *Repository) Command(ctx context.Context, args ...string) *exec.Cmd {
	fullArgs := append([]string{"-C", r.dir}, args...)
	return exec.CommandContext(ctx, "git", fullArgs...)
}

// Head returns the commit hash HEAD points to.
func (r *Repository) Head(ctx context.Context) (string, error) {
	return r.revParse(ctx, "HEAD")
}

// Upstream returns the commit hash of branch's upstream tracking ref,
// as of the last fetch.
func (r *Repository) Upstream(ctx context.Context, branch string) (string, error) {
	return r.revParse(ctx, branch+"@{upstream}")
}

// CurrentBranch returns the checked-out branch name, or "HEAD" when the
// working tree is detached.
func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	return r.revParse(ctx, "--abbrev-ref", "HEAD")
}

// Fetch updates remote-tracking refs without touching the working tree.
func (r *Repository) Fetch(ctx context.Context) error {
	_, err := r.Run(ctx, "fetch", "--quiet")
	return err
}

func (r *Repository) revParse(ctx context.Context, args ...string) (string, error) {
	output, err := r.Run(ctx, append([]string{"rev-parse"}, args...)...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}
