// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"testing"

	"github.com/saltyorg/sb/cmd/sb/cli"
)

func TestConstructors(t *testing.T) {
	noop := func(context.Context) error { return nil }
	tests := []struct {
		name     string
		result   Result
		status   Status
		hasFix   bool
		elevated bool
	}{
		{"Pass", Pass("check", "ok"), StatusPass, false, false},
		{"Fail", Fail("check", "broken"), StatusFail, false, false},
		{"FailWithHint", FailWithHint("check", "broken", "do this"), StatusFail, false, false},
		{"FailWithFix", FailWithFix("check", "broken", "fix it", noop), StatusFail, true, false},
		{"FailElevated", FailElevated("check", "needs root", "run as root", noop), StatusFail, true, true},
		{"Warn", Warn("check", "heads up"), StatusWarn, false, false},
		{"Skip", Skip("check", "prerequisite failed"), StatusSkip, false, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.result.Status != test.status {
				t.Errorf("status = %q, want %q", test.result.Status, test.status)
			}
			if test.result.HasFix() != test.hasFix {
				t.Errorf("HasFix() = %v, want %v", test.result.HasFix(), test.hasFix)
			}
			if test.result.Elevated != test.elevated {
				t.Errorf("Elevated = %v, want %v", test.result.Elevated, test.elevated)
			}
		})
	}
}

func TestExecuteFixesDryRun(t *testing.T) {
	fixCalled := false
	results := []Result{
		FailWithFix("check", "broken", "fix it", func(ctx context.Context) error {
			fixCalled = true
			return nil
		}),
	}

	outcome := ExecuteFixes(context.Background(), results, true)

	if fixCalled {
		t.Error("ExecuteFixes(dryRun=true) should not call fix actions")
	}
	if outcome.FixedCount != 0 {
		t.Errorf("fixed count = %d, want 0", outcome.FixedCount)
	}
	if results[0].Status != StatusFail {
		t.Errorf("dry run should not change status, got %q", results[0].Status)
	}
}

func TestExecuteFixesSuccess(t *testing.T) {
	results := []Result{
		Pass("ok check", "fine"),
		FailWithFix("broken check", "broken", "fix it", func(ctx context.Context) error {
			return nil
		}),
		Fail("unfixable", "no fix available"),
	}

	outcome := ExecuteFixes(context.Background(), results, false)

	if outcome.FixedCount != 1 {
		t.Errorf("fixed count = %d, want 1", outcome.FixedCount)
	}
	if results[1].Status != StatusFixed {
		t.Errorf("fixed result status = %q", results[1].Status)
	}
	if results[0].Status != StatusPass || results[2].Status != StatusFail {
		t.Errorf("untouched results changed: %q, %q", results[0].Status, results[2].Status)
	}
}

func TestExecuteFixesPermissionDenied(t *testing.T) {
	results := []Result{
		FailWithFix("check", "broken", "fix it", func(ctx context.Context) error {
			return fmt.Errorf("writing config: %w", syscall.EACCES)
		}),
	}

	outcome := ExecuteFixes(context.Background(), results, false)

	if !outcome.PermissionDenied {
		t.Error("EACCES should set PermissionDenied")
	}
	if results[0].Status != StatusFail {
		t.Errorf("permission denied fix should remain failed, got %q", results[0].Status)
	}
}

func TestExecuteFixesFixError(t *testing.T) {
	results := []Result{
		FailWithFix("check", "broken", "fix it", func(ctx context.Context) error {
			return errors.New("fix exploded")
		}),
	}

	ExecuteFixes(context.Background(), results, false)

	if results[0].Message != "broken (fix failed: fix exploded)" {
		t.Errorf("failed fix should append error, got %q", results[0].Message)
	}
}

func TestExecuteFixesElevatedSkippedWhenNotRoot(t *testing.T) {
	if IsRoot() {
		t.Skip("running as root")
	}
	called := false
	results := []Result{
		FailElevated("root check", "needs root", "register directory", func(ctx context.Context) error {
			called = true
			return nil
		}),
	}
	outcome := ExecuteFixes(context.Background(), results, false)
	if called {
		t.Error("elevated fix ran without root")
	}
	if outcome.ElevatedSkipped != 1 {
		t.Errorf("ElevatedSkipped = %d, want 1", outcome.ElevatedSkipped)
	}
}

func TestBuildJSON(t *testing.T) {
	results := []Result{
		Pass("check1", "ok"),
		Fail("check2", "broken"),
	}
	output := BuildJSON(results, true, Outcome{PermissionDenied: true, ElevatedSkipped: 2})

	if output.OK {
		t.Error("BuildJSON() should be not OK when a check fails")
	}
	if !output.DryRun || !output.PermissionDenied || output.ElevatedSkipped != 2 {
		t.Errorf("BuildJSON() = %+v", output)
	}
	if !BuildJSON([]Result{Pass("a", "ok"), Warn("b", "meh")}, false, Outcome{}).OK {
		t.Error("warnings should not make the output not OK")
	}
}

func TestMarkRepaired(t *testing.T) {
	results := []Result{
		Pass("repaired check", "now passing"),
		Pass("always passed", "fine"),
		Fail("still broken", "bad"),
	}
	MarkRepaired(results, map[string]bool{"repaired check": true, "still broken": true})

	if results[0].Status != StatusFixed {
		t.Errorf("repaired check should be marked fixed, got %q", results[0].Status)
	}
	if results[1].Status != StatusPass {
		t.Errorf("always-passed check should remain pass, got %q", results[1].Status)
	}
	if results[2].Status != StatusFail {
		t.Errorf("still-broken check should remain fail, got %q", results[2].Status)
	}
}

func TestPrintChecklist(t *testing.T) {
	var buffer bytes.Buffer
	results := []Result{
		Pass("operating system", "Ubuntu 24.04 LTS (noble)"),
		FailWithFix("git safe.directory /srv/git/saltbox", "not registered", "git config --global --add safe.directory /srv/git/saltbox",
			func(context.Context) error { return nil }),
	}

	err := PrintChecklist(&buffer, results, false, false, Outcome{})
	var exitError *cli.ExitError
	if !errors.As(err, &exitError) || exitError.Code != 1 {
		t.Fatalf("PrintChecklist error = %v, want exit 1", err)
	}
	output := buffer.String()
	for _, want := range []string{"[PASS ]  operating system", "[FAIL ]", "Run with --fix to repair 1 issue(s)."} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	buffer.Reset()
	if err := PrintChecklist(&buffer, []Result{Pass("a", "ok"), {Name: "b", Status: StatusFixed, Message: "ok"}}, true, false, Outcome{FixedCount: 1}); err != nil {
		t.Fatalf("PrintChecklist: %v", err)
	}
	if !strings.Contains(buffer.String(), "1 issue(s) repaired.") {
		t.Errorf("output = %q", buffer.String())
	}
}

func TestPrintChecklist_ElevatedSkipped(t *testing.T) {
	var buffer bytes.Buffer
	results := []Result{
		FailElevated("ownership", "wrong owner", "chown the repository", func(context.Context) error { return nil }),
	}
	PrintChecklist(&buffer, results, true, false, Outcome{ElevatedSkipped: 1})
	if !strings.Contains(buffer.String(), "sudo sb doctor --fix") {
		t.Errorf("output = %q", buffer.String())
	}
}
