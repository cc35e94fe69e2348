// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Executable writes body as a /bin/sh script named name in a fresh
// temporary directory and returns its path.
//
//	runner := testutil.Executable(t, "ansible-playbook", `echo "$@" >> "$RECORD"`)
func Executable(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("writing executable %s: %v", path, err)
	}
	return path
}
