// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/saltyorg/sb/cmd/sb/app"
	"github.com/saltyorg/sb/cmd/sb/cli"
	"github.com/saltyorg/sb/cmd/sb/commands"
	"github.com/saltyorg/sb/lib/process"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		// Commands that print their own output (like doctor) return an
		// ExitError with the desired exit code. Don't print a redundant
		// "error:" line for those.
		var exitError *cli.ExitError
		if errors.As(err, &exitError) {
			os.Exit(exitError.Code)
		}
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) && coder.ExitCode() > 0 {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(coder.ExitCode())
		}
		process.Fatal(err)
	}
}

func run(args []string) error {
	elevated := !commands.SkipsElevation(args)
	if elevated {
		if err := process.Elevate(args); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New()
	if !commands.SkipsGate(args) {
		logger := cli.NewCommandLogger(application.Stderr, cli.LogLevel(false)).With("command", "sb self-update")
		relaunched, code, err := application.SelfUpdate(ctx, logger, args)
		if err != nil {
			return err
		}
		if relaunched {
			if code != 0 {
				return &cli.ExitError{Code: code}
			}
			return nil
		}
	}
	if elevated {
		logger := cli.NewCommandLogger(application.Stderr, cli.LogLevel(false))
		application.TrustRepositories(ctx, logger)
	}
	return commands.Root(application).Execute(ctx, args)
}
