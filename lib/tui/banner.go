// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Banner renders a bordered block with a bold title line followed by
// lines. Used for fatal conditions the operator has to act on.
func Banner(renderer *lipgloss.Renderer, theme Theme, title string, lines []string) string {
	titleStyle := renderer.NewStyle().Bold(true).Foreground(theme.StatusFail)
	body := titleStyle.Render(title)
	if len(lines) > 0 {
		body += "\n\n" + strings.Join(lines, "\n")
	}
	return renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(0, 2).
		Render(body)
}
