// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/saltyorg/sb/cmd/sb/app"
	"github.com/saltyorg/sb/cmd/sb/cli"
	"github.com/saltyorg/sb/lib/tui"
)

// ApprovedEditors may be selected through $EDITOR.
var ApprovedEditors = []string{"nano", "vim", "vi", "emacs", "gedit", "code"}

// DefaultEditor is used when $EDITOR is unset or not approved.
const DefaultEditor = "nano"

type inventoryParams struct {
	Print bool `flag:"print" desc:"write the inventory to stdout instead of opening an editor"`
}

// Command returns the "inventory" command.
func Command(application *app.App) *cli.Command {
	var params inventoryParams

	command := &cli.Command{
		Name:    "inventory",
		Summary: "Edit the Saltbox host inventory",
		Description: `Open the Saltbox host inventory (` + app.InventoryFile + `) in an
editor. $EDITOR is used when it names one of: nano, vim, vi, emacs,
gedit, code. Any other value falls back to nano.`,
		Usage: "sb inventory [flags]",
		Examples: []cli.Example{
			{
				Description: "Edit the inventory",
				Command:     "sb inventory",
			},
			{
				Description: "Show the inventory with syntax highlighting",
				Command:     "sb inventory --print",
			},
		},
		Params: func() any { return &params },
	}
	command.Run = func(ctx context.Context, args []string, logger *slog.Logger) error {
		if len(args) > 0 {
			return cli.Validation("unexpected argument: %s", args[0])
		}
		path, err := application.InventoryPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return cli.NotFound("inventory file %s does not exist", path).
				WithHint("Check that the Saltbox repository is installed.")
		} else if err != nil {
			return cli.Internal("checking inventory file: %w", err)
		}

		if params.Print {
			return Print(command.Out(), path)
		}

		editor := Editor(os.Getenv("EDITOR"))
		logger.Debug("opening inventory", "path", path, "editor", editor)
		editorCommand := exec.CommandContext(ctx, editor, path)
		editorCommand.Stdin = application.Stdin
		editorCommand.Stdout = command.Out()
		editorCommand.Stderr = command.ErrOut()
		if err := editorCommand.Run(); err != nil {
			return cli.External("running %s: %w", editor, err)
		}
		return nil
	}
	return command
}

// Editor returns the editor to launch for the $EDITOR value. Approved
// editors are matched by base name so full paths are accepted.
func Editor(value string) string {
	if value != "" && slices.Contains(ApprovedEditors, filepath.Base(value)) {
		return value
	}
	return DefaultEditor
}

// Print writes the inventory at path to w, highlighted as YAML when w
// is a terminal.
func Print(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return cli.Internal("reading inventory: %w", err)
	}
	if !tui.IsTerminal(w) {
		_, err := w.Write(data)
		return err
	}

	var buffer bytes.Buffer
	if err := quick.Highlight(&buffer, string(data), "yaml", "terminal256", "monokai"); err != nil {
		_, err := w.Write(data)
		return err
	}
	_, err = buffer.WriteTo(w)
	return err
}
