// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/saltyorg/sb/cmd/sb/cli"
	"github.com/saltyorg/sb/lib/git"
	"github.com/saltyorg/sb/lib/process"
	"github.com/saltyorg/sb/lib/selfupdate"
)

// SelfUpdate runs the self-update gate before a command. When the gate
// replaced the sb binary, the new binary runs the command with args as
// a child process and relaunched is true; code is the child's exit
// code. The gate is skipped when [selfupdate.SkipEnv] is set or the
// configuration disables it.
func (a *App) SelfUpdate(ctx context.Context, logger *slog.Logger, args []string) (relaunched bool, code int, err error) {
	if os.Getenv(selfupdate.SkipEnv) != "" {
		return false, 0, nil
	}
	cfg, err := a.Config()
	if err != nil {
		return false, 0, err
	}
	if !cfg.SelfUpdate {
		return false, 0, nil
	}

	gate, err := a.Gate(logger)
	if err != nil {
		return false, 0, err
	}
	result, err := gate.Run(ctx)
	if err != nil {
		return false, 0, ClassifyError(err)
	}
	if !result.BinaryReplaced {
		return false, 0, nil
	}

	relaunch := a.Relaunch
	if relaunch == nil {
		relaunch = process.Relaunch
	}
	logger.Info("relaunching updated sb", "binary", cfg.Paths.Binary)
	code, err = relaunch(ctx, process.RelaunchOptions{
		Binary: cfg.Paths.Binary,
		Args:   args,
		Env:    []string{selfupdate.SkipEnv + "=1"},
		Stdin:  a.Stdin,
		Stdout: a.Stdout,
		Stderr: a.Stderr,
	})
	if err != nil {
		return false, 0, cli.External("relaunching %s: %w", cfg.Paths.Binary, err)
	}
	return true, code, nil
}

// TrustRepositories lists every installed target repository in git's
// safe.directory. Sync hands the trees to the Saltbox user, after which
// root's git commands refuse them unless listed. Failures are logged
// and do not stop the command.
func (a *App) TrustRepositories(ctx context.Context, logger *slog.Logger) {
	cfg, err := a.Config()
	if err != nil {
		return
	}
	for _, target := range Targets(cfg) {
		if !target.Installed() {
			continue
		}
		dir := target.Playbook.Dir
		added, err := git.AddSafeDirectory(ctx, dir)
		if err != nil {
			logger.Warn("registering safe.directory failed", "target", target.ID.String(), "dir", dir, "error", err)
			continue
		}
		if added {
			logger.Debug("registered safe.directory", "target", target.ID.String(), "dir", dir)
		}
	}
}
