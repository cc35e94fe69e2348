// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package branch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/saltyorg/sb/cmd/sb/app"
	"github.com/saltyorg/sb/cmd/sb/cli"
	"github.com/saltyorg/sb/cmd/sb/update"
	"github.com/saltyorg/sb/lib/ansible"
	"github.com/saltyorg/sb/lib/dispatch"
	"github.com/saltyorg/sb/lib/tags"
)

type branchParams struct {
	Verbosity cli.Count `flag:"verbosity,v" desc:"playbook verbosity, repeat for more (-vvv)"`
}

// Command returns the "branch" command for the Saltbox repository.
func Command(application *app.App) *cli.Command {
	return newCommand(application, "branch", tags.Primary, "Saltbox")
}

// SandboxCommand returns the "sandbox-branch" command.
func SandboxCommand(application *app.App) *cli.Command {
	return newCommand(application, "sandbox-branch", tags.Sandbox, "Sandbox")
}

func newCommand(application *app.App, name string, target tags.TargetID, title string) *cli.Command {
	var params branchParams

	return &cli.Command{
		Name:    name,
		Summary: fmt.Sprintf("Switch the %s repository to another branch", title),
		Description: fmt.Sprintf(`Switch the %s repository to <branch>.

The branch is fetched, the repository is reset to its upstream state
and untracked files are removed. The repository's settings are then
applied the same way "sb update" does.`, title),
		Usage: fmt.Sprintf("sb %s <branch> [flags]", name),
		Examples: []cli.Example{
			{
				Description: fmt.Sprintf("Move %s to the develop branch", title),
				Command:     fmt.Sprintf("sb %s develop", name),
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			branch, err := ParseBranch(args)
			if err != nil {
				return err
			}
			logger = logger.With("branch", branch)
			return update.Run(ctx, application, logger, dispatch.UpdateOptions{
				Only:   []tags.TargetID{target},
				Branch: branch,
				Extra:  ansible.VerbosityArgs(int(params.Verbosity)),
			})
		},
	}
}

// ParseBranch validates the single branch argument.
func ParseBranch(args []string) (string, error) {
	if len(args) == 0 {
		return "", cli.Validation("branch name required")
	}
	if len(args) > 1 {
		return "", cli.Validation("unexpected argument: %s", args[1])
	}
	branch := args[0]
	if branch == "" || strings.HasPrefix(branch, "-") || strings.ContainsAny(branch, " \t\n~^:?*[\\") {
		return "", cli.Validation("invalid branch name %q", branch)
	}
	return branch, nil
}
