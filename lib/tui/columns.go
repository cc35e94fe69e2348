// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ColumnGap separates adjacent columns.
const ColumnGap = 2

// Columns lays items out in column-major order to fit width cells,
// the way column(1) does. Widths are measured in terminal cells so
// styled or wide-character items align. Lines carry no trailing
// padding. An empty list renders as the empty string.
func Columns(items []string, width int) string {
	if len(items) == 0 {
		return ""
	}

	cellWidth := 0
	for _, item := range items {
		cellWidth = max(cellWidth, ansi.StringWidth(item))
	}
	columns := max(1, (width+ColumnGap)/(cellWidth+ColumnGap))
	rows := (len(items) + columns - 1) / columns
	// Recompute so no trailing column is empty.
	columns = (len(items) + rows - 1) / rows

	var builder strings.Builder
	for row := range rows {
		var line strings.Builder
		for column := range columns {
			index := column*rows + row
			if index >= len(items) {
				break
			}
			item := items[index]
			line.WriteString(item)
			if column < columns-1 && index+rows < len(items) {
				padding := cellWidth - ansi.StringWidth(item) + ColumnGap
				line.WriteString(strings.Repeat(" ", padding))
			}
		}
		builder.WriteString(line.String())
		builder.WriteByte('\n')
	}
	return builder.String()
}
