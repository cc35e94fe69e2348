// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the sb binary.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- release tag, matching the release marker
//
// These default to "unknown" / "0.0.0-dev" when not injected, which
// occurs during development builds and test runs.
//
// Formatting functions produce human-readable version strings:
//
//   - [Info] -- "0.0.0-dev (abc1234, 2026-02-10T...)" for "sb version"
//   - [Full] -- Info plus Go version and GOOS/GOARCH
//   - [Short] -- just the version number
//
// [ComputeSelfHash] returns the BLAKE3 digest of the running binary,
// which "sb version" prints so operators can compare it with a release
// artifact.
package version
