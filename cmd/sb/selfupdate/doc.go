// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package selfupdate implements "sb self-update", which runs the
// control repository check on demand and reports what changed.
package selfupdate
