package workflow

import (
	"fmt"
	"strings"

	"github.com/openpress/manuscripta/internal/journal/storage"
)

// renderStatusTable draws the manuscript status table:
//
//	----------------------------------------------------
//
//	Last Change: 2024-03-05
//
//	----------------------------------------------------
//	| Manuscript #### |                         Status |
//	----------------------------------------------------
//	| Manuscript   12 |                      submitted |
//	----------------------------------------------------
//
// An empty report renders the given placeholder message instead.
func renderStatusTable(report storage.StatusReport, emptyMessage string) string {
	if len(report.Rows) == 0 {
		return emptyMessage
	}

	header := fmt.Sprintf("| Manuscript #### | %30s |", "Status")
	delim := strings.Repeat("-", len(header))

	var b strings.Builder
	b.WriteString(delim + "\n")
	b.WriteString("\nLast Change: " + report.LastChange.Format("2006-01-02") + "\n\n")
	b.WriteString(delim + "\n")
	b.WriteString(header + "\n")
	b.WriteString(delim + "\n")
	for _, row := range report.Rows {
		fmt.Fprintf(&b, "| Manuscript %4d | %30s |\n%s\n", row.Number, string(row.Status), delim)
	}
	return b.String()
}

// renderCountTable draws the per-status manuscript counts for the admin
// status report.
func renderCountTable(counts []storage.StatusCount) string {
	if len(counts) == 0 {
		return "No manuscripts."
	}

	header := fmt.Sprintf("| Count | %30s |", "Status")
	delim := strings.Repeat("-", len(header))

	var b strings.Builder
	b.WriteString(delim + "\n")
	b.WriteString(header + "\n")
	b.WriteString(delim + "\n")
	for _, count := range counts {
		fmt.Fprintf(&b, "| %5d | %30s |\n%s\n", count.Count, string(count.Status), delim)
	}
	return b.String()
}
