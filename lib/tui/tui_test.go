// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"bytes"
	"strings"
	"testing"
)

func TestColumns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []string
		width int
		want  string
	}{
		{
			name:  "empty",
			items: nil,
			width: 80,
			want:  "",
		},
		{
			name:  "single row",
			items: []string{"a", "bb", "c"},
			width: 80,
			want:  "a   bb  c\n",
		},
		{
			name:  "column major",
			items: []string{"plex", "sonarr", "radarr", "emby", "lidarr"},
			width: 24,
			want:  "plex    radarr  lidarr\n" + "sonarr  emby\n",
		},
		{
			name:  "narrow terminal",
			items: []string{"plex", "sonarr"},
			width: 3,
			want:  "plex\nsonarr\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Columns(test.items, test.width)
			if got != test.want {
				t.Errorf("Columns(%v, %d) =\n%q\nwant\n%q", test.items, test.width, got, test.want)
			}
		})
	}
}

func TestColumns_StyledItems(t *testing.T) {
	t.Parallel()

	// Escape sequences take no cells.
	styled := "\x1b[1mab\x1b[0m"
	got := Columns([]string{styled, "cd", "ef"}, 80)
	want := styled + "  cd  ef\n"
	if got != want {
		t.Errorf("Columns = %q, want %q", got, want)
	}
}

func TestNewRenderer_NotTerminal(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	renderer := NewRenderer(&buffer)
	heading := Heading(renderer, DefaultTheme, "Saltbox tags")
	if heading != "Saltbox tags" {
		t.Errorf("Heading on a non-terminal = %q, want plain text", heading)
	}

	banner := Banner(renderer, DefaultTheme, "Unsupported OS", []string{"Saltbox requires Ubuntu."})
	if strings.Contains(banner, "\x1b[") {
		t.Errorf("banner contains escape sequences: %q", banner)
	}
	for _, want := range []string{"Unsupported OS", "Saltbox requires Ubuntu.", "╭", "╯"} {
		if !strings.Contains(banner, want) {
			t.Errorf("banner missing %q:\n%s", want, banner)
		}
	}
}

func TestWidth_NotTerminal(t *testing.T) {
	t.Parallel()

	if got := Width(&bytes.Buffer{}); got != DefaultWidth {
		t.Errorf("Width = %d, want %d", got, DefaultWidth)
	}
}

func TestStatusColor(t *testing.T) {
	t.Parallel()

	theme := DefaultTheme
	if theme.StatusColor("fail") != theme.StatusFail {
		t.Error("fail should map to StatusFail")
	}
	if theme.StatusColor("bogus") != theme.FaintText {
		t.Error("unknown status should map to FaintText")
	}
}
