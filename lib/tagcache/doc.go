// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package tagcache remembers each playbook repository's tag list keyed
// by its HEAD commit, so "sb list" only runs the slow playbook tag
// enumeration when a repository actually changed.
//
// The cache is one JSON object mapping repository paths to
// {"commit": ..., "tags": [...]}. It is read tolerantly with
// [github.com/tidwall/jsonc], so a hand-edited file with comments or
// trailing commas still loads, and written atomically (temporary file,
// fsync, rename). A missing or unreadable cache behaves as empty.
package tagcache
