// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package install

import (
	"context"
	"log/slog"

	"github.com/saltyorg/sb/cmd/sb/app"
	"github.com/saltyorg/sb/cmd/sb/cli"
	"github.com/saltyorg/sb/lib/tags"
)

// Command returns the "install" command.
func Command(application *app.App) *cli.Command {
	return &cli.Command{
		Name:    "install",
		Summary: "Install roles by tag",
		Description: `Run the playbooks for the given tags.

Tags are separated by commas or spaces. A "cm-" prefix sends the tag to
the Community repository and "sandbox-" to the Sandbox repository; all
other tags go to Saltbox. The prefix is removed before the tag reaches
the playbook. Playbooks run one at a time in the order Saltbox,
Community, Sandbox, and only for repositories that received a tag.

Everything from the first argument starting with "-" onward is passed
to every playbook unchanged. A failing playbook does not stop the ones
after it; sb exits with the first failing playbook's exit code.`,
		Usage:   "sb install <tags>[ <playbook flags>]",
		RawArgs: true,
		Examples: []cli.Example{
			{
				Description: "Install two Saltbox roles",
				Command:     "sb install plex,sonarr",
			},
			{
				Description: "Install across all three repositories",
				Command:     "sb install plex,cm-tautulli,sandbox-test",
			},
			{
				Description: "Pass extra variables to the playbooks",
				Command:     "sb install radarr -e 'radarr_instances=[\"radarr4k\"]'",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return cli.Validation("install requires at least one tag").
					WithHint("Run 'sb list' to see the available tags.")
			}
			request := tags.ParseArgs(args)

			if err := application.RequireHost(ctx); err != nil {
				return err
			}
			dispatcher, err := application.Dispatcher(logger)
			if err != nil {
				return err
			}
			logger.Debug("install requested",
				"tags", []string(request.Tags),
				"extra", request.ExtraString(),
			)
			return app.ClassifyError(dispatcher.Install(ctx, request))
		},
	}
}
