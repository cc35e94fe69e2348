// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package install implements "sb install", which routes tags to the
// Saltbox, Community and Sandbox playbooks by prefix and runs each
// playbook that received at least one tag.
package install
