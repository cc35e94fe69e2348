// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package selfupdate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saltyorg/sb/cmd/sb/app"
	"github.com/saltyorg/sb/cmd/sb/cli"
)

type selfUpdateParams struct {
	cli.JSONOutput
}

// Command returns the "self-update" command.
func Command(application *app.App) *cli.Command {
	var params selfUpdateParams

	command := &cli.Command{
		Name:    "self-update",
		Summary: "Update sb itself",
		Description: `Sync the sb control repository with its upstream branch and, when it
changed, download the sb release it pins.

This check also runs automatically before every command unless
SB_SKIP_SELF_UPDATE is set or self_update is disabled in the
configuration.`,
		Usage: "sb self-update [flags]",
		Params: func() any { return &params },
	}
	command.Run = func(ctx context.Context, args []string, logger *slog.Logger) error {
		if len(args) > 0 {
			return cli.Validation("unexpected argument: %s", args[0])
		}
		gate, err := application.Gate(logger)
		if err != nil {
			return err
		}
		result, err := gate.Run(ctx)
		if err != nil {
			return app.ClassifyError(err)
		}

		if done, err := params.EmitJSON(command.Out(), result); done {
			return err
		}
		out := command.Out()
		if !result.Updated {
			fmt.Fprintln(out, "sb is up to date")
			return nil
		}
		fmt.Fprintf(out, "control repository updated %s -> %s\n", short(result.Before), short(result.After))
		if result.Release != nil {
			if result.BinaryReplaced {
				fmt.Fprintf(out, "installed %s (%s)\n", result.Release.URL, short(result.Release.Digest))
			} else {
				fmt.Fprintln(out, "installed binary already matches the release")
			}
		}
		return nil
	}
	return command
}

func short(value string) string {
	if len(value) > 12 {
		return value[:12]
	}
	return value
}
