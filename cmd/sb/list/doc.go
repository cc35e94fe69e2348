// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package list implements "sb list", which prints the tags each
// playbook accepts.
package list
