// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package preflight checks that the host is one Saltbox supports:
// an Ubuntu LTS release, an architecture with a published sb binary,
// no container-style virtualization, and a server (not desktop)
// install.
//
// [Host.Checks] reports every check for the doctor command.
// [Host.Require] fails on the first unmet precondition; commands that
// change the host call it before doing anything else. Nothing is
// retried.
package preflight
