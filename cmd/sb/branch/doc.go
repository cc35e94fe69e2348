// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package branch implements "sb branch" and "sb sandbox-branch", which
// move the Saltbox or Sandbox repository to another branch.
package branch
