// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/saltyorg/sb/lib/ansible"
	"github.com/saltyorg/sb/lib/tags"
)

// Target describes one playbook repository.
type Target struct {
	ID       tags.TargetID
	Playbook ansible.Playbook

	// Branch is the branch Update keeps the repository on.
	Branch string

	// Optional targets may be absent from the host. Update and List
	// skip them; Install fails only if tags route to them.
	Optional bool

	// ListSkipTags are excluded from tag enumeration in addition to
	// "always".
	ListSkipTags []string
}

// Installed reports whether the target's repository exists.
func (t Target) Installed() bool {
	info, err := os.Stat(t.Playbook.Dir)
	return err == nil && info.IsDir()
}

// PlaybookRunner runs one playbook with args. [*ansible.Runner]
// satisfies it.
type PlaybookRunner interface {
	Run(ctx context.Context, playbook ansible.Playbook, args []string) error
}

// Dispatcher runs playbooks across the three targets in fixed order.
type Dispatcher struct {
	id      string
	targets [len(tags.Order)]Target
	runner  PlaybookRunner
	logger  *slog.Logger
}

// New returns a Dispatcher for targets, which must contain each
// [tags.TargetID] exactly once. id identifies this dispatch in every
// log record; it may be empty.
func New(id string, targets []Target, runner PlaybookRunner, logger *slog.Logger) (*Dispatcher, error) {
	if runner == nil {
		return nil, fmt.Errorf("dispatch: runner is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if id != "" {
		logger = logger.With("dispatch_id", id)
	}

	dispatcher := &Dispatcher{id: id, runner: runner, logger: logger}
	var seen [len(tags.Order)]bool
	for _, target := range targets {
		if target.ID < 0 || int(target.ID) >= len(seen) {
			return nil, fmt.Errorf("dispatch: invalid target %s", target.ID)
		}
		if seen[target.ID] {
			return nil, fmt.Errorf("dispatch: target %s configured twice", target.ID)
		}
		seen[target.ID] = true
		dispatcher.targets[target.ID] = target
	}
	for _, required := range tags.Order {
		if !seen[required] {
			return nil, fmt.Errorf("dispatch: target %s is not configured", required)
		}
	}
	return dispatcher, nil
}

// ID returns the dispatch identifier.
func (d *Dispatcher) ID() string {
	return d.id
}

// Target returns the descriptor for id.
func (d *Dispatcher) Target(id tags.TargetID) Target {
	return d.targets[id]
}

// InstallArgs builds the runner arguments for one target's bucket.
func InstallArgs(bucket []string, extra []string) []string {
	args := []string{"--tags", strings.Join(bucket, ",")}
	return append(args, extra...)
}

// Install routes request's tags and runs every target whose bucket is
// non-empty, in fixed order. A request with no tags runs nothing and
// succeeds. Every target runs even when an earlier one fails; the
// failures are returned as an [*Error].
func (d *Dispatcher) Install(ctx context.Context, request tags.Request) error {
	buckets := tags.Route(request.Tags)
	if buckets.Empty() {
		d.logger.Info("no tags to install", "extra", request.ExtraString())
		return nil
	}

	var failures collector
	for _, id := range tags.Order {
		bucket := buckets.For(id)
		if len(bucket) == 0 {
			continue
		}
		target := d.targets[id]

		if target.Optional && !target.Installed() {
			failures.add(id, fmt.Errorf("%s repository is not installed at %s", id, target.Playbook.Dir))
			continue
		}
		if err := d.run(ctx, target, InstallArgs(bucket, request.Extra)); err != nil {
			failures.add(id, err)
		}
	}
	return failures.err()
}

// run executes one target and logs the outcome.
func (d *Dispatcher) run(ctx context.Context, target Target, args []string) error {
	logger := d.logger.With("target", target.ID.String(), "playbook", target.Playbook.Path)
	logger.Info("running target", "args", strings.Join(args, " "))

	if err := d.runner.Run(ctx, target.Playbook, args); err != nil {
		logger.Error("target failed", "error", err)
		return err
	}
	logger.Info("target completed")
	return nil
}
