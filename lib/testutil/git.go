// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// gitIdentity keeps commits independent of the host's git config.
var gitIdentity = []string{
	"GIT_AUTHOR_NAME=Test",
	"GIT_AUTHOR_EMAIL=test@test.local",
	"GIT_COMMITTER_NAME=Test",
	"GIT_COMMITTER_EMAIL=test@test.local",
	"GIT_CONFIG_NOSYSTEM=1",
}

// RequireGit skips the test when git is not installed.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git not available: %v", err)
	}
}

// Git runs git with args in dir and returns trimmed stdout.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	command := exec.Command("git", append([]string{"-C", dir}, args...)...)
	command.Env = append(os.Environ(), gitIdentity...)
	output, err := command.Output()
	if err != nil {
		stderr := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		t.Fatalf("git %s in %s: %v\n%s", strings.Join(args, " "), dir, err, stderr)
	}
	return strings.TrimSpace(string(output))
}

// GitRepository creates a bare origin with one commit on master and a
// clone tracking it. Both live under t.TempDir().
func GitRepository(t *testing.T) (origin, clone string) {
	t.Helper()
	RequireGit(t)

	root := t.TempDir()
	origin = filepath.Join(root, "origin.git")
	Git(t, root, "init", "--quiet", "--bare", "--initial-branch=master", origin)

	seed := filepath.Join(root, "seed")
	Git(t, root, "clone", "--quiet", origin, seed)
	Git(t, seed, "checkout", "--quiet", "-B", "master")
	commitFile(t, seed, "README", "initial\n")
	Git(t, seed, "push", "--quiet", "origin", "master")

	clone = filepath.Join(root, "clone")
	Git(t, root, "clone", "--quiet", "--branch", "master", origin, clone)
	return origin, clone
}

// GitPushCommit commits name with content to branch on origin through
// a scratch clone and returns the new commit hash. The branch is created
// when it does not exist.
func GitPushCommit(t *testing.T, origin, branch, name, content string) string {
	t.Helper()

	scratch := filepath.Join(t.TempDir(), "scratch")
	Git(t, filepath.Dir(scratch), "clone", "--quiet", origin, scratch)
	Git(t, scratch, "checkout", "--quiet", "-B", branch)
	hash := commitFile(t, scratch, name, content)
	Git(t, scratch, "push", "--quiet", "origin", branch)
	return hash
}

func commitFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	Git(t, dir, "add", name)
	Git(t, dir, "commit", "--quiet", "-m", "update "+name)
	return Git(t, dir, "rev-parse", "HEAD")
}
