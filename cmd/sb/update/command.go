// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package update

import (
	"context"
	"log/slog"

	"github.com/saltyorg/sb/cmd/sb/app"
	"github.com/saltyorg/sb/cmd/sb/cli"
	"github.com/saltyorg/sb/lib/ansible"
	"github.com/saltyorg/sb/lib/dispatch"
)

type updateParams struct {
	Verbosity cli.Count `flag:"verbosity,v" desc:"playbook verbosity, repeat for more (-vvv)"`
}

// Command returns the "update" command.
func Command(application *app.App) *cli.Command {
	var params updateParams

	return &cli.Command{
		Name:    "update",
		Summary: "Update the playbook repositories",
		Description: `Update Saltbox, Community and Sandbox, in that order.

Each repository is reset to the upstream state of its configured branch,
then its settings are applied with:

  --tags settings --skip-tags sanity_check,pre-tasks

-v is passed to the playbook runner, once per occurrence.

Repositories that are not installed are skipped. A failing repository
does not stop the ones after it. When a repository's commit changed,
its cached tag list is rebuilt.`,
		Usage: "sb update [flags]",
		Examples: []cli.Example{
			{
				Description: "Update every repository",
				Command:     "sb update",
			},
			{
				Description: "Update with verbose playbook output",
				Command:     "sb update -vv",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return Run(ctx, application, logger, dispatch.UpdateOptions{
				Extra: ansible.VerbosityArgs(int(params.Verbosity)),
			})
		},
	}
}

// Run checks the host, then syncs and converges the targets selected
// by opts. opts.Sync and opts.Changed are filled in from application.
func Run(ctx context.Context, application *app.App, logger *slog.Logger, opts dispatch.UpdateOptions) error {
	if err := application.RequireHost(ctx); err != nil {
		return err
	}
	dispatcher, err := application.Dispatcher(logger)
	if err != nil {
		return err
	}
	lister, err := application.TagLister(logger)
	if err != nil {
		return err
	}

	opts.Sync = application.SyncFunc(logger)
	opts.Changed = func(ctx context.Context, target dispatch.Target) {
		if err := lister.Refresh(ctx, target.Playbook, target.ListSkipTags); err != nil {
			logger.Warn("refreshing cached tags failed", "target", target.ID.String(), "error", err)
		}
	}
	return app.ClassifyError(dispatcher.Update(ctx, opts))
}
