// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/saltyorg/sb/cmd/sb/cli"
	"github.com/saltyorg/sb/lib/ansible"
	"github.com/saltyorg/sb/lib/config"
	"github.com/saltyorg/sb/lib/dispatch"
	"github.com/saltyorg/sb/lib/git"
	"github.com/saltyorg/sb/lib/preflight"
	"github.com/saltyorg/sb/lib/process"
	"github.com/saltyorg/sb/lib/release"
	"github.com/saltyorg/sb/lib/selfupdate"
	"github.com/saltyorg/sb/lib/tagcache"
	"github.com/saltyorg/sb/lib/tags"
	"github.com/saltyorg/sb/lib/tui"
)

// DispatchIDEnv carries the dispatch identifier into playbook
// processes so their logs can be joined with sb's.
const DispatchIDEnv = "SB_DISPATCH_ID"

// InventoryFile is the primary repository's host inventory, relative
// to the repository root.
const InventoryFile = "inventories/host_vars/localhost.yml"

// App is the shared command environment.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// LoadConfig defaults to [config.Load].
	LoadConfig func() (*config.Config, error)

	// Host is inspected by [App.RequireHost].
	Host preflight.Host

	// NewRunner builds the playbook runner for one dispatch. Nil uses
	// [ansible.Runner].
	NewRunner func(cfg *config.Config, dispatchID string, logger *slog.Logger) dispatch.PlaybookRunner

	// Sync moves a target repository to its branch. Nil uses
	// [git.Repository.Sync].
	Sync dispatch.SyncFunc

	// TagSource and Commit back the tag lister. Nil uses the playbook
	// runner and the repository HEAD.
	TagSource tagcache.Source
	Commit    tagcache.CommitFunc

	// ControlRepository and Refresh back the self-update gate. Nil
	// uses the configured control checkout and release download.
	ControlRepository selfupdate.Repository
	Refresh           selfupdate.RefreshFunc

	// Relaunch runs the updated binary after the gate replaced it. Nil
	// uses [process.Relaunch].
	Relaunch func(ctx context.Context, opts process.RelaunchOptions) (int, error)

	config *config.Config
}

// New returns an App on the process's standard streams.
func New() *App {
	return &App{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Config loads and validates the configuration once.
func (a *App) Config() (*config.Config, error) {
	if a.config != nil {
		return a.config, nil
	}
	load := a.LoadConfig
	if load == nil {
		load = config.Load
	}
	cfg, err := load()
	if err != nil {
		return nil, cli.Malformed("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Malformed("invalid configuration: %w", err)
	}
	a.config = cfg
	return cfg, nil
}

// Targets converts the configured repositories into dispatch targets.
func Targets(cfg *config.Config) []dispatch.Target {
	entries := []struct {
		id     tags.TargetID
		target config.TargetConfig
	}{
		{tags.Primary, cfg.Targets.Primary},
		{tags.Community, cfg.Targets.Community},
		{tags.Sandbox, cfg.Targets.Sandbox},
	}
	targets := make([]dispatch.Target, 0, len(entries))
	for _, entry := range entries {
		targets = append(targets, dispatch.Target{
			ID: entry.id,
			Playbook: ansible.Playbook{
				Dir:     entry.target.Repository,
				Path:    entry.target.PlaybookPath(),
				LogPath: entry.target.LogPath(),
			},
			Branch:       entry.target.Branch,
			Optional:     entry.target.Optional,
			ListSkipTags: entry.target.ListSkipTags,
		})
	}
	return targets
}

// Dispatcher builds a dispatcher with a fresh dispatch ID.
func (a *App) Dispatcher(logger *slog.Logger) (*dispatch.Dispatcher, error) {
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	newRunner := a.NewRunner
	if newRunner == nil {
		newRunner = a.playbookRunner
	}
	return dispatch.New(id, Targets(cfg), newRunner(cfg, id, logger.With("dispatch_id", id)), logger)
}

func (a *App) playbookRunner(cfg *config.Config, dispatchID string, logger *slog.Logger) dispatch.PlaybookRunner {
	runner := ansible.NewRunner(cfg.Runner.Binary, logger)
	runner.Stdin = a.Stdin
	runner.Stdout = a.Stdout
	runner.Stderr = a.Stderr
	runner.Env = []string{DispatchIDEnv + "=" + dispatchID}
	return runner
}

// TagLister returns the cached tag lister. An unreadable cache is
// discarded and rebuilt.
func (a *App) TagLister(logger *slog.Logger) (*tagcache.Lister, error) {
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	cache, err := tagcache.Open(cfg.Paths.Cache)
	if err != nil {
		logger.Warn("discarding unreadable tag cache", "path", cfg.Paths.Cache, "error", err)
		cache = tagcache.New(cfg.Paths.Cache)
	}

	source := a.TagSource
	if source == nil {
		runner := ansible.NewRunner(cfg.Runner.Binary, logger)
		runner.Stdin = a.Stdin
		source = runner
	}
	commit := a.Commit
	if commit == nil {
		commit = func(ctx context.Context, dir string) (string, error) {
			return git.NewRepository(dir).Head(ctx)
		}
	}
	return &tagcache.Lister{Cache: cache, Source: source, Commit: commit, Logger: logger}, nil
}

// Owner returns the Saltbox user from accounts.yml, or "" when it
// cannot be determined. Repositories are left with their ownership
// unchanged in that case.
func (a *App) Owner(logger *slog.Logger) string {
	cfg, err := a.Config()
	if err != nil {
		return ""
	}
	accounts, err := config.LoadAccounts(cfg.Paths.Accounts)
	if err != nil {
		logger.Warn("repository ownership will not be updated", "error", err)
		return ""
	}
	return accounts.User.Name
}

// SyncFunc returns the repository sync used by update and branch.
func (a *App) SyncFunc(logger *slog.Logger) dispatch.SyncFunc {
	if a.Sync != nil {
		return a.Sync
	}
	owner := a.Owner(logger)
	return func(ctx context.Context, target dispatch.Target) (bool, error) {
		result, err := git.NewRepository(target.Playbook.Dir).Sync(ctx, git.SyncOptions{
			Branch: target.Branch,
			Owner:  owner,
		})
		if err != nil {
			return false, err
		}
		logger.Info("repository synced",
			"target", target.ID.String(),
			"branch", target.Branch,
			"commit", result.After,
			"changed", result.Changed(),
		)
		return result.Changed(), nil
	}
}

// Gate returns the self-update gate for the control repository.
func (a *App) Gate(logger *slog.Logger) (*selfupdate.Gate, error) {
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	gate := &selfupdate.Gate{
		Repository: a.ControlRepository,
		Branch:     cfg.Paths.ControlBranch,
		Owner:      a.Owner(logger),
		Refresh:    a.Refresh,
		Logger:     logger,
	}
	if gate.Repository == nil {
		gate.Repository = git.NewRepository(cfg.Paths.Control)
	}
	if gate.Refresh == nil {
		gate.Refresh = func(ctx context.Context) (release.Outcome, error) {
			arch, err := release.HostArch()
			if err != nil {
				return release.Outcome{}, err
			}
			return release.FetchMarked(ctx, cfg.Release.Marker, release.FetchOptions{
				URLTemplate: cfg.Release.URLTemplate,
				Arch:        arch,
				Binary:      cfg.Paths.Binary,
				Logger:      logger,
			})
		}
	}
	return gate, nil
}

// InventoryPath returns the primary repository's host inventory.
func (a *App) InventoryPath() (string, error) {
	cfg, err := a.Config()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg.Targets.Primary.Repository, InventoryFile), nil
}

// RequireHost fails when the host does not meet Saltbox's
// preconditions. The failure is rendered as a banner on Stderr and
// returned as an exit code.
func (a *App) RequireHost(ctx context.Context) error {
	err := a.Host.Require(ctx)
	var preflightError *preflight.Error
	if !errors.As(err, &preflightError) {
		return err
	}
	check := preflightError.Check
	lines := []string{check.Message}
	if check.Hint != "" {
		lines = append(lines, check.Hint)
	}
	renderer := tui.NewRenderer(a.Stderr)
	fmt.Fprintln(a.Stderr, tui.Banner(renderer, tui.DefaultTheme, "Unsupported host: "+check.Name, lines))
	return &cli.ExitError{Code: preflightError.ExitCode()}
}

// ClassifyError maps library errors onto command error categories.
// Errors that already carry a category or an exit code pass through.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	var toolError *cli.ToolError
	var coder interface{ ExitCode() int }
	if errors.As(err, &toolError) || errors.As(err, &coder) {
		return err
	}
	switch {
	case errors.Is(err, release.ErrMalformedMarker),
		errors.Is(err, release.ErrNotBinary),
		errors.Is(err, ansible.ErrNoTaskTags):
		return &cli.ToolError{Category: cli.CategoryMalformed, Err: err}
	case errors.Is(err, os.ErrNotExist):
		return &cli.ToolError{Category: cli.CategoryNotFound, Err: err}
	default:
		return &cli.ToolError{Category: cli.CategoryExternal, Err: err}
	}
}
