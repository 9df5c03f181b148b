package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-pim-sync/models"
)

var (
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	helpStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// renderSummary formats a sync result for the terminal.
func renderSummary(res models.SyncResult, mode models.SyncMode) string {
	var b strings.Builder

	status := successStyle.Render("sync complete")
	if !res.Success {
		status = errorStyle.Render("sync failed")
	}
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(mode.String()), status)
	if res.ErrorMessage != "" {
		fmt.Fprintf(&b, "%s\n", errorStyle.Render(res.ErrorMessage))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%-8s %8s %8s %8s %10s %10s %7s\n", "", "created", "updated", "deleted", "unchanged", "conflicts", "errors")
	b.WriteString(statsRow("device", res.DeviceStats))
	b.WriteString(statsRow("pc", res.PCStats))

	if len(res.Warnings) > 0 {
		fmt.Fprintf(&b, "\n%s\n", titleStyle.Render(fmt.Sprintf("%d warning(s)", len(res.Warnings))))
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "  %s\n", w.String())
		}
	}

	if !res.StartTime.IsZero() && !res.EndTime.IsZero() {
		fmt.Fprintf(&b, "\n%s", helpStyle.Render("took "+res.EndTime.Sub(res.StartTime).Round(1e6).String()))
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func statsRow(label string, s models.SyncStats) string {
	return fmt.Sprintf("%-8s %8d %8d %8d %10d %10d %7d\n", label, s.Created, s.Updated, s.Deleted, s.Unchanged, s.Conflicts, s.Errors)
}

func printSummary(w io.Writer, res models.SyncResult, mode models.SyncMode) {
	fmt.Fprintln(w, renderSummary(res, mode))
}
