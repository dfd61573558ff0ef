package exporter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"numsummary/pkg/contracts/domain"
)

// textLabelWidth aligns the statistic values of a column block
const textLabelWidth = 11

// writeTextReport renders the human-readable report: a title block with the
// source and row count, then one block per summarized column.
func writeTextReport(w io.Writer, summary *domain.SummaryTable, precision int, marker string) error {
	bw := bufio.NewWriter(w)

	title := "Numeric Summary Report"
	fmt.Fprintf(bw, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	fmt.Fprintf(bw, "Source: %s\n", summary.Source)
	fmt.Fprintf(bw, "Rows: %d\n", summary.Rows)
	fmt.Fprintf(bw, "Numeric columns: %d\n", len(summary.Summaries))

	for _, row := range summary.Summaries {
		fmt.Fprintf(bw, "\n%s\n%s\n", row.Column, strings.Repeat("-", len([]rune(row.Column))))
		writeStat(bw, "mean", formatFixed(row.Mean, precision, marker))
		writeStat(bw, "sd", formatFixed(row.SD, precision, marker))
		writeStat(bw, "min", formatFixed(row.Min, precision, marker))
		writeStat(bw, "max", formatFixed(row.Max, precision, marker))
		writeStat(bw, "n_missing", formatInt(row.NMissing))
	}

	return bw.Flush()
}

func writeStat(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-*s %s\n", textLabelWidth, label+":", value)
}
