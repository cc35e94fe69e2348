// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command represents a CLI command or subcommand.
type Command struct {
	// Name is the command name as typed by the user (e.g., "install").
	Name string

	// Summary is a one-line description shown in the parent's help listing.
	Summary string

	// Description is a detailed multi-line description shown in the command's
	// own help output.
	Description string

	// Usage is the usage string (e.g., "sb install <tags> [flags]").
	// If empty, it is synthesized from the command path and subcommands.
	Usage string

	// Examples are shown in the help output after the description.
	Examples []Example

	// Flags returns a configured *pflag.FlagSet for this command. Called
	// lazily on first use. Takes precedence over Params.
	Flags func() *pflag.FlagSet

	// Params returns a pointer to the command's parameter struct. Its
	// tagged fields are bound as flags (see [BindFlags]).
	Params func() any

	// RawArgs passes every argument after the command name to Run
	// unparsed. A leading help flag still prints help.
	RawArgs bool

	// Subcommands are nested commands dispatched by the first positional arg.
	Subcommands []*Command

	// Run executes the command with the remaining args (after flag parsing).
	// Exactly one of Run or Subcommands should be set. If both are set,
	// Run is used when no subcommand matches.
	Run func(ctx context.Context, args []string, logger *slog.Logger) error

	// Stdout and Stderr default to the parent's, then to the process
	// streams. Help goes to Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// parent is set during dispatch to build the full command path for help.
	parent *Command
}

// Example is a usage example shown in help output.
type Example struct {
	// Description explains what the example does.
	Description string
	// Command is the literal command line.
	Command string
}

// Out returns the writer for command output.
func (c *Command) Out() io.Writer {
	for command := c; command != nil; command = command.parent {
		if command.Stdout != nil {
			return command.Stdout
		}
	}
	return os.Stdout
}

// ErrOut returns the writer for help, logs and diagnostics.
func (c *Command) ErrOut() io.Writer {
	for command := c; command != nil; command = command.parent {
		if command.Stderr != nil {
			return command.Stderr
		}
	}
	return os.Stderr
}

// Execute parses args and dispatches to the appropriate subcommand or Run
// function. This is the main entry point for the command tree.
func (c *Command) Execute(ctx context.Context, args []string) error {
	// Check for help flags before anything else.
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.ErrOut())
		return nil
	}

	// If we have subcommands, try to dispatch.
	if len(c.Subcommands) > 0 && len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		name := args[0]
		for _, sub := range c.Subcommands {
			if sub.Name == name {
				sub.parent = c
				return sub.Execute(ctx, args[1:])
			}
		}

		if c.Run == nil {
			// Unknown subcommand: usage, then the closest match.
			c.PrintHelp(c.ErrOut())
			fmt.Fprintln(c.ErrOut())
			suggestion := suggestCommand(name, c.Subcommands)
			if suggestion != "" {
				return Validation("unknown command %q (did you mean %q?)", name, suggestion)
			}
			return Validation("unknown command %q", name)
		}
	}

	// If we have subcommands but no args (and no Run), show help.
	if len(c.Subcommands) > 0 && c.Run == nil {
		c.PrintHelp(c.ErrOut())
		if len(args) == 0 {
			return Validation("command required")
		}
		return Validation("command required (got flag %q)", args[0])
	}

	var verbose bool
	if !c.RawArgs {
		if flagSet := c.flagSet(); flagSet != nil {
			if flagSet.Lookup("verbose") == nil {
				flagSet.BoolVar(&verbose, "verbose", false, "enable debug logging")
			}

			// Suppress pflag's default error output and usage dump. We
			// format our own error messages with suggestions.
			flagSet.SetOutput(io.Discard)

			if err := flagSet.Parse(args); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown shorthand") {
					// Build a fresh flag set for suggestion lookup (the
					// failed parse may have consumed state).
					suggestion := suggestFlag(args, c.flagSet())
					if suggestion != "" {
						return Validation("%s (did you mean %s?)\n\nRun '%s --help' for usage.",
							errMsg, suggestion, c.fullName())
					}
				}
				return Validation("%s\n\nRun '%s --help' for usage.", errMsg, c.fullName())
			}
			args = flagSet.Args()
		}
	}

	if c.Run != nil {
		logger := NewCommandLogger(c.ErrOut(), LogLevel(verbose)).With("command", c.fullName())
		return c.Run(ctx, args, logger)
	}

	// No Run, no subcommands matched: show help.
	c.PrintHelp(c.ErrOut())
	return fmt.Errorf("no action defined for %q", c.fullName())
}

// flagSet builds the command's flag set from Flags or Params. Returns
// nil when the command declares neither.
func (c *Command) flagSet() *pflag.FlagSet {
	switch {
	case c.Flags != nil:
		return c.Flags()
	case c.Params != nil:
		return FlagsFromParams(c.Name, c.Params())
	default:
		return nil
	}
}

// PrintHelp writes structured help output to w.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()

	// Description or summary.
	if c.Description != "" {
		fmt.Fprintf(w, "%s\n\n", c.Description)
	} else if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	// Usage line.
	if c.Usage != "" {
		fmt.Fprintf(w, "Usage:\n  %s\n", c.Usage)
	} else if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "Usage:\n  %s <command> [flags]\n", name)
	} else {
		fmt.Fprintf(w, "Usage:\n  %s [flags]\n", name)
	}

	// Subcommands.
	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(tw, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		tw.Flush()
	}

	// Flags.
	if !c.RawArgs {
		if flagSet := c.flagSet(); flagSet != nil {
			var flagHelp strings.Builder
			flagSet.SetOutput(&flagHelp)
			flagSet.PrintDefaults()
			if flagHelp.Len() > 0 {
				fmt.Fprintf(w, "\nFlags:\n%s", flagHelp.String())
			}
		}
	}

	// Examples.
	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\nExamples:\n")
		for _, example := range c.Examples {
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
			if example.Description != "" {
				fmt.Fprintln(w)
			}
		}
	}

	// Footer: help hint for subcommands.
	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", name)
	}
}

// fullName returns the complete command path (e.g., "sb install").
func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

// isHelpFlag returns true for common help flag variants.
func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
