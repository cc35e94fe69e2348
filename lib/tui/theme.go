// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for sb's terminal output. All colors
// use lipgloss ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Checklist status colors.
	StatusPass  lipgloss.Color
	StatusFail  lipgloss.Color
	StatusWarn  lipgloss.Color
	StatusSkip  lipgloss.Color
	StatusFixed lipgloss.Color
}

// StatusColor returns the color for a checklist status string
// (pass, fail, warn, skip, fixed). Unknown values get FaintText.
func (theme Theme) StatusColor(status string) lipgloss.Color {
	switch status {
	case "pass":
		return theme.StatusPass
	case "fail":
		return theme.StatusFail
	case "warn":
		return theme.StatusWarn
	case "skip":
		return theme.StatusSkip
	case "fixed":
		return theme.StatusFixed
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	HeaderForeground: lipgloss.Color("75"),
	BorderColor:      lipgloss.Color("196"),
	HelpText:         lipgloss.Color("241"),

	StatusPass:  lipgloss.Color("114"), // green
	StatusFail:  lipgloss.Color("196"), // red
	StatusWarn:  lipgloss.Color("220"), // amber
	StatusSkip:  lipgloss.Color("245"), // gray
	StatusFixed: lipgloss.Color("141"), // light purple
}
