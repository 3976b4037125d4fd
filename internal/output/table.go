// Package output renders terminal tables for proxmox-mcp.
//
// Tables use ASCII characters with ANSI color codes; colors are suppressed
// when stdout is not a TTY or NO_COLOR is set.
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/vhark/ProxmoxMCP/internal/history"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// RenderRunTable renders recorded rotation runs, newest first.
func RenderRunTable(runs []history.RunSummary) string {
	if len(runs) == 0 {
		return "No rotation runs recorded.\n"
	}

	color := IsColorEnabled()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-38s %-16s %-8s %8s %8s %8s %8s\n",
		"Run", "Started", "Mode", "Created", "Deleted", "Skipped", "Errors"))
	sb.WriteString(strings.Repeat("─", 100))
	sb.WriteString("\n")

	for _, run := range runs {
		mode := "live"
		if run.DryRun {
			mode = "dry-run"
		}

		errors := fmt.Sprintf("%8d", run.Errors)
		if color {
			if run.Errors > 0 {
				errors = colorRed + errors + colorReset
			} else {
				errors = colorGreen + errors + colorReset
			}
		}

		sb.WriteString(fmt.Sprintf("%-38s %-16s %-8s %8d %8d %8d %s\n",
			run.ID,
			humanize.Time(run.StartedAt),
			mode,
			run.Created,
			run.Deleted,
			run.Skipped,
			errors))
	}

	return sb.String()
}
