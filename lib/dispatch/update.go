// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"context"
	"fmt"
	"slices"

	"github.com/saltyorg/sb/lib/tags"
)

// SettingsArgs converges a target's settings without the sanity checks
// and pre-tasks of a full run.
var SettingsArgs = []string{"--tags", "settings", "--skip-tags", "sanity_check,pre-tasks"}

// SyncFunc moves a target's repository to the upstream state of
// target.Branch and reports whether HEAD changed.
type SyncFunc func(ctx context.Context, target Target) (changed bool, err error)

// UpdateOptions configures [Dispatcher.Update].
type UpdateOptions struct {
	// Sync updates a repository before its settings run. Required.
	Sync SyncFunc

	// Only restricts the update to these targets. Nil means all.
	Only []tags.TargetID

	// Branch overrides each selected target's branch. Used to switch a
	// repository to another branch.
	Branch string

	// Extra is appended to the settings arguments (e.g. "-vv").
	Extra []string

	// Changed is called after a successful settings run when the sync
	// moved HEAD, for example to refresh cached tags.
	Changed func(ctx context.Context, target Target)
}

// Update syncs and converges each selected target in fixed order. A
// missing optional repository is skipped with a warning. A failed sync
// skips that target's settings run and is recorded as a failure; later
// targets still run.
func (d *Dispatcher) Update(ctx context.Context, opts UpdateOptions) error {
	if opts.Sync == nil {
		return fmt.Errorf("dispatch: update requires a sync function")
	}

	args := append(slices.Clone(SettingsArgs), opts.Extra...)
	var failures collector
	for _, id := range tags.Order {
		if opts.Only != nil && !slices.Contains(opts.Only, id) {
			continue
		}
		target := d.targets[id]
		if opts.Branch != "" {
			target.Branch = opts.Branch
		}
		logger := d.logger.With("target", id.String(), "branch", target.Branch)

		if target.Optional && !target.Installed() {
			logger.Warn("repository not installed, skipping", "dir", target.Playbook.Dir)
			continue
		}

		logger.Info("updating repository", "dir", target.Playbook.Dir)
		changed, err := opts.Sync(ctx, target)
		if err != nil {
			logger.Error("repository sync failed", "error", err)
			failures.add(id, fmt.Errorf("syncing %s: %w", target.Playbook.Dir, err))
			continue
		}

		if err := d.run(ctx, target, args); err != nil {
			failures.add(id, err)
			continue
		}

		if changed && opts.Changed != nil {
			opts.Changed(ctx, target)
		}
	}
	return failures.err()
}
