// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/saltyorg/sb/cmd/sb/app"
	"github.com/saltyorg/sb/cmd/sb/cli"
	"github.com/saltyorg/sb/cmd/sb/cli/doctor"
	"github.com/saltyorg/sb/lib/config"
	"github.com/saltyorg/sb/lib/git"
	"github.com/saltyorg/sb/lib/release"
)

type doctorParams struct {
	cli.JSONOutput
	Fix    bool `flag:"fix" desc:"repair fixable problems"`
	DryRun bool `flag:"dry-run" desc:"show what --fix would repair without changing anything"`
}

// Command returns the "doctor" command.
func Command(application *app.App) *cli.Command {
	var params doctorParams

	command := &cli.Command{
		Name:    "doctor",
		Summary: "Check the host and the sb installation",
		Description: `Check that the host meets Saltbox's requirements and that sb and its
repositories are installed and usable.

Host checks cover the Ubuntu release, CPU architecture, virtualization
and desktop packages. Installation checks cover the control repository,
the release marker, the playbook runner and each playbook repository.

With --fix, problems that can be repaired automatically are fixed and
the checks run again. Repairs to git's global configuration need root.`,
		Usage: "sb doctor [flags]",
		Examples: []cli.Example{
			{
				Description: "Check the host",
				Command:     "sb doctor",
			},
			{
				Description: "Repair what can be repaired",
				Command:     "sudo sb doctor --fix",
			},
			{
				Description: "Machine-readable output",
				Command:     "sb doctor --json",
			},
		},
		Params: func() any { return &params },
	}
	command.Run = func(ctx context.Context, args []string, logger *slog.Logger) error {
		if len(args) > 0 {
			return cli.Validation("unexpected argument: %s", args[0])
		}
		if params.Fix && params.DryRun {
			return cli.Validation("--fix and --dry-run are mutually exclusive")
		}

		ctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		cfg, err := application.Config()
		if err != nil {
			return err
		}

		results := Check(ctx, application, cfg)
		var outcome doctor.Outcome
		if params.Fix || params.DryRun {
			failing := make(map[string]bool)
			for _, result := range results {
				if result.Status == doctor.StatusFail {
					failing[result.Name] = true
				}
			}
			outcome = doctor.ExecuteFixes(ctx, results, params.DryRun)
			if outcome.FixedCount > 0 {
				logger.Info("re-running checks after repairs", "fixed", outcome.FixedCount)
				results = Check(ctx, application, cfg)
				doctor.MarkRepaired(results, failing)
			}
		}

		if done, err := params.EmitJSON(command.Out(), doctor.BuildJSON(results, params.DryRun, outcome)); done {
			if err != nil {
				return err
			}
			if doctor.Failed(results) {
				return &cli.ExitError{Code: 1}
			}
			return nil
		}
		return doctor.PrintChecklist(command.Out(), results, params.Fix, params.DryRun, outcome)
	}
	return command
}

// Check runs every check in display order.
func Check(ctx context.Context, application *app.App, cfg *config.Config) []doctor.Result {
	var results []doctor.Result
	for _, check := range application.Host.Checks(ctx) {
		if check.Passed {
			results = append(results, doctor.Pass(check.Name, check.Message))
		} else {
			results = append(results, doctor.FailWithHint(check.Name, check.Message, check.Hint))
		}
	}

	results = append(results, checkControl(ctx, cfg)...)
	results = append(results, checkRunner(cfg))
	for _, target := range app.Targets(cfg) {
		name := target.ID.String() + " repository"
		switch {
		case target.Installed():
			results = append(results, doctor.Pass(name, target.Playbook.Dir))
			results = append(results, checkSafeDirectory(ctx, target.ID.String(), target.Playbook.Dir))
		case target.Optional:
			results = append(results, doctor.Skip(name, "not installed at "+target.Playbook.Dir))
		default:
			results = append(results, doctor.Fail(name, "missing at "+target.Playbook.Dir))
		}
	}
	return results
}

func checkControl(ctx context.Context, cfg *config.Config) []doctor.Result {
	if info, err := os.Stat(cfg.Paths.Control); err != nil || !info.IsDir() {
		return []doctor.Result{
			doctor.Fail("control repository", "missing at "+cfg.Paths.Control),
			doctor.Skip("release marker", "control repository missing"),
		}
	}

	results := []doctor.Result{
		doctor.Pass("control repository", cfg.Paths.Control),
		checkSafeDirectory(ctx, "control", cfg.Paths.Control),
	}
	version, err := release.ReadMarker(cfg.Release.Marker)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		results = append(results, doctor.Warn("release marker", "missing at "+cfg.Release.Marker))
	case errors.Is(err, release.ErrMalformedMarker):
		results = append(results, doctor.FailWithHint("release marker", err.Error(),
			"run 'sb self-update' to restore the control repository"))
	case err != nil:
		results = append(results, doctor.Fail("release marker", err.Error()))
	default:
		results = append(results, doctor.Pass("release marker", version))
	}
	return results
}

func checkRunner(cfg *config.Config) doctor.Result {
	info, err := os.Stat(cfg.Runner.Binary)
	if err != nil {
		return doctor.FailWithHint("playbook runner", fmt.Sprintf("%s not found", cfg.Runner.Binary),
			"reinstall Saltbox's Ansible environment")
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return doctor.Fail("playbook runner", cfg.Runner.Binary+" is not executable")
	}
	return doctor.Pass("playbook runner", cfg.Runner.Binary)
}

func checkSafeDirectory(ctx context.Context, label, dir string) doctor.Result {
	name := label + " safe.directory"
	safe, err := git.IsSafeDirectory(ctx, dir)
	if err != nil {
		return doctor.Warn(name, err.Error())
	}
	if safe {
		return doctor.Pass(name, "listed")
	}
	return doctor.FailElevated(name, dir+" is not listed in git's safe.directory",
		"git config --global --add safe.directory "+dir,
		func(ctx context.Context) error {
			_, err := git.AddSafeDirectory(ctx, dir)
			return err
		})
}
