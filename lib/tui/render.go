// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultWidth is used when the output width cannot be measured.
const DefaultWidth = 80

// IsTerminal reports whether writer is a terminal.
func IsTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// Width returns writer's terminal width, or DefaultWidth when writer is
// not a terminal.
func Width(writer io.Writer) int {
	file, ok := writer.(*os.File)
	if !ok {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

// NewRenderer returns a lipgloss renderer for writer. Non-terminal
// writers get the ASCII profile.
//
// SetColorProfile is required alongside termenv.WithProfile:
// lipgloss.Renderer.ColorProfile() re-detects from the environment
// unless an explicit profile is set.
func NewRenderer(writer io.Writer) *lipgloss.Renderer {
	if IsTerminal(writer) {
		return lipgloss.NewRenderer(writer)
	}
	renderer := lipgloss.NewRenderer(writer, termenv.WithProfile(termenv.Ascii))
	renderer.SetColorProfile(termenv.Ascii)
	return renderer
}

// Heading renders a section heading.
func Heading(renderer *lipgloss.Renderer, theme Theme, text string) string {
	return renderer.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render(text)
}

// Faint renders secondary text.
func Faint(renderer *lipgloss.Renderer, theme Theme, text string) string {
	return renderer.NewStyle().Foreground(theme.FaintText).Render(text)
}
