// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/saltyorg/sb/cmd/sb/app/apptest"
	"github.com/saltyorg/sb/cmd/sb/cli"
)

func TestRoot_Dispatch(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantErr    string
		wantStderr string
	}{
		{name: "no command", args: nil, wantErr: "command required", wantStderr: "Usage:"},
		{name: "unknown command", args: []string{"lsit"}, wantErr: `did you mean "list"`, wantStderr: "Usage:"},
		{name: "help", args: []string{"--help"}, wantStderr: "install"},
		{name: "help word", args: []string{"help"}, wantStderr: "sandbox-branch"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fixture := apptest.New(t)
			err := Root(fixture.App).Execute(context.Background(), test.args)

			if test.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else {
				var toolError *cli.ToolError
				if !errors.As(err, &toolError) || toolError.Category != cli.CategoryValidation {
					t.Fatalf("error = %v, want validation error", err)
				}
				if !strings.Contains(err.Error(), test.wantErr) {
					t.Errorf("error %q does not contain %q", err, test.wantErr)
				}
			}
			if !strings.Contains(fixture.Stderr.String(), test.wantStderr) {
				t.Errorf("stderr missing %q:\n%s", test.wantStderr, fixture.Stderr.String())
			}
			if fixture.Stdout.Len() != 0 {
				t.Errorf("usage should not go to stdout:\n%s", fixture.Stdout.String())
			}
		})
	}
}

func TestRoot_Version(t *testing.T) {
	fixture := apptest.New(t)
	if err := Root(fixture.App).Execute(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("version: %v", err)
	}
	output := fixture.Stdout.String()
	if !strings.HasPrefix(output, "sb ") || !strings.Contains(output, "Go: ") {
		t.Errorf("unexpected version output:\n%s", output)
	}
}

func TestRoot_InstallReachesDispatcher(t *testing.T) {
	fixture := apptest.New(t)
	err := Root(fixture.App).Execute(context.Background(), []string{"install", "plex,cm-tautulli"})
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if calls := fixture.Runner.Calls(); len(calls) != 2 {
		t.Errorf("ran %d playbooks, want 2", len(calls))
	}
}

func TestSkips(t *testing.T) {
	tests := []struct {
		args          []string
		skipElevation bool
		skipGate      bool
	}{
		{nil, true, true},
		{[]string{"-h"}, true, true},
		{[]string{"help"}, true, true},
		{[]string{"version"}, true, true},
		{[]string{"install", "--help"}, true, true},
		{[]string{"install", "plex", "-h"}, false, false},
		{[]string{"self-update"}, false, true},
		{[]string{"update"}, false, false},
		{[]string{"list", "--json"}, false, false},
	}
	for _, test := range tests {
		if got := SkipsElevation(test.args); got != test.skipElevation {
			t.Errorf("SkipsElevation(%q) = %v, want %v", test.args, got, test.skipElevation)
		}
		if got := SkipsGate(test.args); got != test.skipGate {
			t.Errorf("SkipsGate(%q) = %v, want %v", test.args, got, test.skipGate)
		}
	}
}
