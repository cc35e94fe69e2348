// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package list

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/saltyorg/sb/cmd/sb/app"
	"github.com/saltyorg/sb/cmd/sb/cli"
	"github.com/saltyorg/sb/lib/dispatch"
	"github.com/saltyorg/sb/lib/tags"
	"github.com/saltyorg/sb/lib/tui"
)

type listParams struct {
	cli.JSONOutput
}

// Command returns the "list" command.
func Command(application *app.App) *cli.Command {
	var params listParams

	command := &cli.Command{
		Name:    "list",
		Summary: "List available tags",
		Description: `List the tags accepted by each installed playbook repository.

Tags are read from the playbooks and cached per repository commit, so
repeated listings are fast until the repository changes. Community and
Sandbox headings show the prefix to prepend when installing.`,
		Usage: "sb list [flags]",
		Examples: []cli.Example{
			{
				Description: "Show every available tag",
				Command:     "sb list",
			},
			{
				Description: "Machine-readable output",
				Command:     "sb list --json",
			},
		},
		Params: func() any { return &params },
	}
	command.Run = func(ctx context.Context, args []string, logger *slog.Logger) error {
		if len(args) > 0 {
			return cli.Validation("unexpected argument: %s", args[0])
		}
		dispatcher, err := application.Dispatcher(logger)
		if err != nil {
			return err
		}
		lister, err := application.TagLister(logger)
		if err != nil {
			return err
		}

		listings := dispatcher.List(ctx, lister)
		if done, err := params.EmitJSON(command.Out(), listings); done {
			if err != nil {
				return err
			}
			return listingError(listings)
		}

		Print(command.Out(), listings)
		return listingError(listings)
	}
	return command
}

// Heading returns the section heading for a target's listing.
func Heading(listing dispatch.Listing) string {
	var heading string
	switch listing.Target {
	case tags.Community:
		heading = "Community tags (prepend " + listing.Prefix + "):"
	case tags.Sandbox:
		heading = "Sandbox tags (prepend " + listing.Prefix + "):"
	default:
		heading = "Saltbox tags:"
	}
	return heading
}

// Print writes listings as headed, column-aligned sections.
func Print(w io.Writer, listings []dispatch.Listing) {
	renderer := tui.NewRenderer(w)
	theme := tui.DefaultTheme
	width := tui.Width(w)

	for i, listing := range listings {
		if i > 0 {
			fmt.Fprintln(w)
		}
		heading := tui.Heading(renderer, theme, Heading(listing))
		if listing.Cached {
			heading += " " + tui.Faint(renderer, theme, "(cached)")
		}
		fmt.Fprintln(w, heading)
		fmt.Fprintln(w)

		if listing.Err != nil {
			fmt.Fprintf(w, "  could not list tags: %v\n", listing.Err)
			continue
		}
		fmt.Fprint(w, tui.Columns(listing.Tags, width))
	}
}

// listingError reports the targets whose enumeration failed.
func listingError(listings []dispatch.Listing) error {
	var failed []string
	var first error
	for _, listing := range listings {
		if listing.Err != nil {
			failed = append(failed, listing.Target.String())
			if first == nil {
				first = listing.Err
			}
		}
	}
	if first == nil {
		return nil
	}
	return app.ClassifyError(fmt.Errorf("listing tags for %s: %w", strings.Join(failed, ", "), first))
}
