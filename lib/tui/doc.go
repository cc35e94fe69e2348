// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui renders sb's terminal output: the colour theme, fatal
// precondition banners, section headings and column layout for tag
// listings.
//
// Styling goes through a lipgloss renderer bound to the destination
// writer. When that writer is not a terminal the renderer is forced to
// the ASCII profile, so piped output carries no escape sequences.
package tui
