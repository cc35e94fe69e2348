// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for sb packages.
//
// [RequireGit] skips a test when the git binary is unavailable. The
// repository fixtures build a bare "origin" and a clone tracking it, so
// tests can drive fetch, reset and upstream comparisons against a real
// git without touching the network:
//
//	origin, clone := testutil.GitRepository(t)
//	testutil.GitPushCommit(t, origin, "roles.yml", "new\n")
//
// [Executable] writes a small shell script for tests that need a fake
// external command.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no sb-internal dependencies.
package testutil
