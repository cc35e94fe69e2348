// Copyright 2026 The Saltbox Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"fmt"
	"io"
	"strings"

	"github.com/saltyorg/sb/cmd/sb/cli"
	"github.com/saltyorg/sb/lib/tui"
)

// PrintChecklist prints check results to w as a human-readable
// checklist. Elevated fixes that were skipped are grouped at the
// bottom with the command to re-run. Returns an [*cli.ExitError] with
// code 1 when any check failed.
func PrintChecklist(w io.Writer, results []Result, fixMode, dryRun bool, outcome Outcome) error {
	renderer := tui.NewRenderer(w)
	theme := tui.DefaultTheme

	anyFailed := false
	fixableCount := 0
	fixedCount := 0
	var elevatedHints []string

	for _, result := range results {
		status := strings.ToUpper(string(result.Status))
		label := renderer.NewStyle().Foreground(theme.StatusColor(string(result.Status))).Render(status)
		padding := strings.Repeat(" ", max(0, 5-len(status)))
		fmt.Fprintf(w, "[%s%s]  %-40s  %s\n", label, padding, result.Name, result.Message)

		switch result.Status {
		case StatusFail:
			anyFailed = true
			if result.FixHint == "" {
				continue
			}
			if result.fix == nil {
				fmt.Fprintf(w, "         %-40s  %s\n", "", result.FixHint)
				continue
			}
			fixableCount++
			if dryRun {
				elevationNote := ""
				if result.Elevated {
					elevationNote = " (requires sudo)"
				}
				fmt.Fprintf(w, "         %-40s  would fix: %s%s\n", "", result.FixHint, elevationNote)
			}
			if result.Elevated {
				elevatedHints = append(elevatedHints, result.FixHint)
			}
		case StatusFixed:
			fixedCount++
		}
	}

	fmt.Fprintln(w)

	if anyFailed {
		if dryRun && fixableCount > 0 {
			fmt.Fprintf(w, "%d issue(s) would be repaired. Run without --dry-run to apply.\n", fixableCount)
		} else if !fixMode && fixableCount > 0 {
			fmt.Fprintf(w, "Run with --fix to repair %d issue(s).\n", fixableCount)
		} else {
			fmt.Fprintln(w, "Some checks failed.")
		}
		if outcome.PermissionDenied {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Some fixes failed due to insufficient permissions.")
		}
		if outcome.ElevatedSkipped > 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "%d fix(es) require root privileges:\n", outcome.ElevatedSkipped)
			for _, hint := range elevatedHints {
				fmt.Fprintf(w, "  - %s\n", hint)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Re-run with sudo to apply these fixes:")
			fmt.Fprintln(w, "  sudo sb doctor --fix")
		}
		return &cli.ExitError{Code: 1}
	}

	if fixedCount > 0 {
		fmt.Fprintf(w, "%d issue(s) repaired.\n", fixedCount)
		return nil
	}

	fmt.Fprintln(w, "All checks passed.")
	return nil
}
