// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete sb command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saltyorg/sb/cmd/sb/app"
	branchcmd "github.com/saltyorg/sb/cmd/sb/branch"
	"github.com/saltyorg/sb/cmd/sb/cli"
	doctorcmd "github.com/saltyorg/sb/cmd/sb/doctor"
	installcmd "github.com/saltyorg/sb/cmd/sb/install"
	inventorycmd "github.com/saltyorg/sb/cmd/sb/inventory"
	listcmd "github.com/saltyorg/sb/cmd/sb/list"
	selfupdatecmd "github.com/saltyorg/sb/cmd/sb/selfupdate"
	updatecmd "github.com/saltyorg/sb/cmd/sb/update"
	"github.com/saltyorg/sb/lib/version"
)

// Root builds the sb command tree around application. Output goes to
// the application's streams.
func Root(application *app.App) *cli.Command {
	root := &cli.Command{
		Name: "sb",
		Description: `sb: the Saltbox control CLI.

Install and update Saltbox, Community and Sandbox roles. Tags prefixed
with "cm-" go to Community and tags prefixed with "sandbox-" go to
Sandbox; all others go to Saltbox.`,
		Stdout: application.Stdout,
		Stderr: application.Stderr,
		Subcommands: []*cli.Command{
			listcmd.Command(application),
			installcmd.Command(application),
			updatecmd.Command(application),
			branchcmd.Command(application),
			branchcmd.SandboxCommand(application),
			inventorycmd.Command(application),
			doctorcmd.Command(application),
			selfupdatecmd.Command(application),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "List the available tags",
				Command:     "sb list",
			},
			{
				Description: "Install roles from Saltbox and Community",
				Command:     "sb install plex,cm-tautulli",
			},
			{
				Description: "Update every repository",
				Command:     "sb update",
			},
			{
				Description: "Check the host",
				Command:     "sb doctor",
			},
		},
	}
	return root
}

func versionCommand() *cli.Command {
	command := &cli.Command{
		Name:    "version",
		Summary: "Print version information",
	}
	command.Run = func(_ context.Context, args []string, logger *slog.Logger) error {
		out := command.Out()
		fmt.Fprintf(out, "sb %s\n", version.Full())
		hash, path, err := version.ComputeSelfHash()
		if err != nil {
			logger.Debug("cannot hash running binary", "error", err)
			return nil
		}
		fmt.Fprintf(out, "  Binary: %s (blake3 %s)\n", path, hash)
		return nil
	}
	return command
}

// SkipsGate reports whether the command named by args runs without
// the self-update gate. Help, version and self-update (which runs the
// gate itself) skip it.
func SkipsGate(args []string) bool {
	if SkipsElevation(args) {
		return true
	}
	return args[0] == "self-update"
}

// SkipsElevation reports whether the command named by args runs
// without root.
func SkipsElevation(args []string) bool {
	if len(args) == 0 {
		return true
	}
	switch args[0] {
	case "-h", "--help", "help", "version":
		return true
	}
	return len(args) > 1 && (args[1] == "-h" || args[1] == "--help" || args[1] == "help")
}
