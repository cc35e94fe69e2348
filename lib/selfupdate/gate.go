// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package selfupdate

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/saltyorg/sb/lib/git"
	"github.com/saltyorg/sb/lib/release"
)

// SkipEnv disables the gate when set to a non-empty value. A relaunched
// child sets it so the gate runs once per invocation.
const SkipEnv = "SB_SKIP_SELF_UPDATE"

// Repository is the control repository. [*git.Repository] satisfies
// it.
type Repository interface {
	Fetch(ctx context.Context) error
	Head(ctx context.Context) (string, error)
	Upstream(ctx context.Context, branch string) (string, error)
	Sync(ctx context.Context, opts git.SyncOptions) (git.SyncResult, error)
}

// RefreshFunc installs the binary the synced repository pins.
type RefreshFunc func(ctx context.Context) (release.Outcome, error)

// Gate is the self-update check.
type Gate struct {
	Repository Repository

	// Branch the control repository follows.
	Branch string

	// Owner receives the synced tree. Empty leaves ownership alone.
	Owner string

	// Refresh runs after a sync. Nil skips the binary refresh.
	Refresh RefreshFunc

	Logger *slog.Logger
}

// Result describes one gate evaluation.
type Result struct {
	// Updated is true when the control repository was stale and has
	// been synced.
	Updated bool `json:"updated"`

	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`

	// BinaryReplaced is true when the running executable's file was
	// replaced and the process must relaunch to pick it up.
	BinaryReplaced bool `json:"binary_replaced"`

	Release *release.Outcome `json:"release,omitempty"`
}

// Check runs one gate pass.
func (g *Gate) Check(ctx context.Context) (Result, error) {
	logger := g.logger()
	if err := g.Repository.Fetch(ctx); err != nil {
		return Result{}, fmt.Errorf("checking for sb updates: %w", err)
	}
	head, err := g.Repository.Head(ctx)
	if err != nil {
		return Result{}, err
	}
	upstream, err := g.Repository.Upstream(ctx, g.Branch)
	if err != nil {
		return Result{}, err
	}
	if head == upstream {
		logger.Debug("sb is up to date", "commit", head)
		return Result{Before: head, After: head}, nil
	}

	logger.Info("sb is out of date, updating", "commit", head, "upstream", upstream)
	synced, err := g.Repository.Sync(ctx, git.SyncOptions{Branch: g.Branch, Owner: g.Owner})
	if err != nil {
		return Result{}, fmt.Errorf("updating sb: %w", err)
	}
	result := Result{Updated: true, Before: synced.Before, After: synced.After}

	if g.Refresh != nil {
		outcome, err := g.Refresh(ctx)
		if err != nil {
			return result, fmt.Errorf("refreshing sb binary: %w", err)
		}
		result.Release = &outcome
		result.BinaryReplaced = outcome.Replaced
	}
	logger.Info("sb updated", "commit", result.After, "binary_replaced", result.BinaryReplaced)
	return result, nil
}

// Run checks, and when an update left the binary unchanged, checks
// once more so the caller proceeds against a settled repository. The
// returned Result merges both passes.
func (g *Gate) Run(ctx context.Context) (Result, error) {
	first, err := g.Check(ctx)
	if err != nil || !first.Updated || first.BinaryReplaced {
		return first, err
	}

	second, err := g.Check(ctx)
	if err != nil {
		return first, err
	}
	merged := first
	merged.After = second.After
	merged.BinaryReplaced = second.BinaryReplaced
	if second.Release != nil {
		merged.Release = second.Release
	}
	return merged, nil
}

func (g *Gate) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
