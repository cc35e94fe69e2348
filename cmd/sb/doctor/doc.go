// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor implements "sb doctor", which checks the host and the
// sb installation and repairs what it can.
package doctor
