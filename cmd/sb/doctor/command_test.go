// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/saltyorg/sb/cmd/sb/app/apptest"
	"github.com/saltyorg/sb/cmd/sb/cli"
	"github.com/saltyorg/sb/cmd/sb/cli/doctor"
	"github.com/saltyorg/sb/lib/tags"
	"github.com/saltyorg/sb/lib/testutil"
)

// isolateGit points git's global configuration at a fresh file.
func isolateGit(t *testing.T) {
	t.Helper()
	testutil.RequireGit(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(home, ".gitconfig"))
}

func trustAll(t *testing.T) {
	t.Helper()
	testutil.Git(t, t.TempDir(), "config", "--global", "--add", "safe.directory", "*")
}

func healthyFixture(t *testing.T) *apptest.Fixture {
	t.Helper()
	isolateGit(t)
	trustAll(t)
	fixture := apptest.New(t)
	if err := os.WriteFile(fixture.Config.Release.Marker, []byte("refs/tags/1.4.2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return fixture
}

func runDoctor(t *testing.T, fixture *apptest.Fixture, args ...string) error {
	t.Helper()
	command := Command(fixture.App)
	command.Stdout = fixture.Stdout
	command.Stderr = fixture.Stderr
	return command.Execute(context.Background(), args)
}

func resultsByName(results []doctor.Result) map[string]doctor.Result {
	byName := make(map[string]doctor.Result, len(results))
	for _, result := range results {
		byName[result.Name] = result
	}
	return byName
}

func TestCheck_Healthy(t *testing.T) {
	fixture := healthyFixture(t)
	cfg, err := fixture.App.Config()
	if err != nil {
		t.Fatal(err)
	}

	results := Check(context.Background(), fixture.App, cfg)
	for _, result := range results {
		if result.Status != doctor.StatusPass {
			t.Errorf("%s: %s (%s)", result.Name, result.Status, result.Message)
		}
	}
	byName := resultsByName(results)
	if byName["release marker"].Message != "1.4.2" {
		t.Errorf("release marker message = %q", byName["release marker"].Message)
	}
	for _, name := range []string{"operating system", "cpu architecture", "primary repository", "sandbox safe.directory"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("missing check %q", name)
		}
	}
}

func TestCheck_Problems(t *testing.T) {
	isolateGit(t)
	fixture := apptest.New(t)
	if err := os.WriteFile(fixture.Config.Release.Marker, []byte("v1.2.3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(fixture.Repository(tags.Community)); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(fixture.Repository(tags.Sandbox)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(fixture.Config.Runner.Binary, 0o644); err != nil {
		t.Fatal(err)
	}
	fixture.Commands["dpkg-query"] = "install ok installed"
	cfg, err := fixture.App.Config()
	if err != nil {
		t.Fatal(err)
	}

	byName := resultsByName(Check(context.Background(), fixture.App, cfg))
	tests := []struct {
		name   string
		status doctor.Status
	}{
		{"server install", doctor.StatusFail},
		{"release marker", doctor.StatusFail},
		{"playbook runner", doctor.StatusFail},
		{"community repository", doctor.StatusSkip},
		{"sandbox repository", doctor.StatusFail},
		{"primary safe.directory", doctor.StatusFail},
	}
	for _, test := range tests {
		result, ok := byName[test.name]
		if !ok {
			t.Errorf("missing check %q", test.name)
			continue
		}
		if result.Status != test.status {
			t.Errorf("%s: status %s, want %s (%s)", test.name, result.Status, test.status, result.Message)
		}
	}

	safeDirectory := byName["primary safe.directory"]
	if !safeDirectory.Elevated || !safeDirectory.HasFix() {
		t.Error("safe.directory failure should carry an elevated fix")
	}
	if !strings.Contains(safeDirectory.FixHint, "safe.directory "+fixture.Repository(tags.Primary)) {
		t.Errorf("fix hint = %q", safeDirectory.FixHint)
	}
}

func TestDoctor_Checklist(t *testing.T) {
	fixture := healthyFixture(t)
	if err := runDoctor(t, fixture); err != nil {
		t.Fatalf("doctor: %v", err)
	}
	output := fixture.Stdout.String()
	if !strings.Contains(output, "[PASS ]  operating system") {
		t.Errorf("unexpected checklist:\n%s", output)
	}
	if strings.Contains(output, "FAIL") {
		t.Errorf("healthy host reported failures:\n%s", output)
	}
}

func TestDoctor_JSONFailureExitCode(t *testing.T) {
	fixture := healthyFixture(t)
	if err := os.RemoveAll(fixture.Repository(tags.Primary)); err != nil {
		t.Fatal(err)
	}

	err := runDoctor(t, fixture, "--json")
	var exitError *cli.ExitError
	if !errors.As(err, &exitError) || exitError.Code != 1 {
		t.Fatalf("error = %v, want exit code 1", err)
	}
	var output doctor.JSONOutput
	if err := json.Unmarshal(fixture.Stdout.Bytes(), &output); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, fixture.Stdout.String())
	}
	if output.OK {
		t.Error("ok should be false")
	}
	if resultsByName(output.Checks)["primary repository"].Status != doctor.StatusFail {
		t.Error("primary repository should fail")
	}
}

func TestDoctor_FixAndDryRunExclusive(t *testing.T) {
	fixture := apptest.New(t)
	err := runDoctor(t, fixture, "--fix", "--dry-run")
	var toolError *cli.ToolError
	if !errors.As(err, &toolError) || toolError.Category != cli.CategoryValidation {
		t.Fatalf("error = %v, want validation error", err)
	}
}

func TestDoctor_DryRunChangesNothing(t *testing.T) {
	isolateGit(t)
	fixture := apptest.New(t)

	if err := runDoctor(t, fixture, "--dry-run"); err == nil {
		t.Fatal("doctor should fail while safe.directory is unset")
	}
	if !strings.Contains(fixture.Stdout.String(), "would fix: git config --global --add safe.directory") {
		t.Errorf("dry run should describe the fix:\n%s", fixture.Stdout.String())
	}
	config, err := os.ReadFile(os.Getenv("GIT_CONFIG_GLOBAL"))
	if err == nil && strings.Contains(string(config), "safe") {
		t.Errorf("dry run modified git configuration:\n%s", config)
	}
}
