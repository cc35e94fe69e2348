// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package update implements "sb update": sync every playbook
// repository and re-apply its settings. [Run] is shared with the
// branch commands.
package update
