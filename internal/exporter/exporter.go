package exporter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"numsummary/internal/config"
	apperrors "numsummary/internal/errors"
	"numsummary/internal/infrastructure"
	"numsummary/pkg/contracts/domain"
)

// CSVHeaders is the header row of the summary CSV
var CSVHeaders = []string{"column", "mean", "sd", "min", "max", "n_missing"}

// Exporter writes a SummaryTable as CSV, plain text and optionally .xlsx.
// It never creates directories.
type Exporter struct {
	logger    *slog.Logger
	csv       *CSVWriter
	precision int
	marker    string
	bom       bool
}

// NewExporter creates an exporter. An out-of-range precision or an empty
// marker falls back to the default.
func NewExporter(logger *slog.Logger, cfg config.ExporterConfig) *Exporter {
	logger = infrastructure.WithComponent(logger, "exporter")

	marker := cfg.MissingMarker
	if marker == "" {
		marker = config.DefaultMissingMarker
	}
	precision := cfg.Precision
	if precision < 0 || precision > config.MaxPrecision {
		precision = config.DefaultPrecision
	}

	return &Exporter{
		logger:    logger,
		csv:       NewCSVWriter(logger),
		precision: precision,
		marker:    marker,
		bom:       cfg.BOM,
	}
}

// Export writes the CSV summary to csvPath and the text report to textPath,
// replacing existing files. Failures are EXPORT-typed.
func (e *Exporter) Export(ctx context.Context, summary *domain.SummaryTable, csvPath, textPath string) error {
	if err := e.WriteCSV(ctx, summary, csvPath); err != nil {
		return err
	}
	return e.WriteText(ctx, summary, textPath)
}

// WriteCSV writes the machine-readable summary
func (e *Exporter) WriteCSV(ctx context.Context, summary *domain.SummaryTable, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if summary == nil {
		return errNilSummary()
	}

	err := e.csv.WriteCSV(path, WriteOptions{
		Headers:   CSVHeaders,
		Records:   CSVRecords(summary),
		BOMPrefix: e.bom,
	})
	if err != nil {
		return apperrors.NewExportError(fmt.Sprintf("cannot write %s", path), err)
	}

	e.logger.InfoContext(ctx, "summary CSV written",
		slog.String("path", path),
		slog.Int("rows", len(summary.Summaries)))
	return nil
}

// WriteText writes the human-readable report
func (e *Exporter) WriteText(ctx context.Context, summary *domain.SummaryTable, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if summary == nil {
		return errNilSummary()
	}

	var buf bytes.Buffer
	if err := writeTextReport(&buf, summary, e.precision, e.marker); err != nil {
		return apperrors.NewExportError("cannot render text report", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return apperrors.NewExportError(fmt.Sprintf("cannot write %s", path), err)
	}

	e.logger.InfoContext(ctx, "text summary written",
		slog.String("path", path),
		slog.Int("bytes", buf.Len()))
	return nil
}

// WriteWorkbook writes the summary rows to the Summary sheet of an .xlsx
// file at path
func (e *Exporter) WriteWorkbook(ctx context.Context, summary *domain.SummaryTable, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if summary == nil {
		return errNilSummary()
	}
	if err := writeWorkbook(summary, path); err != nil {
		return apperrors.NewExportError(fmt.Sprintf("cannot write %s", path), err)
	}

	e.logger.InfoContext(ctx, "summary workbook written", slog.String("path", path))
	return nil
}

func errNilSummary() error {
	return apperrors.NewExportError("nothing to export", fmt.Errorf("summary is nil"))
}

// CSVRecords renders the summary rows in CSV column order
func CSVRecords(summary *domain.SummaryTable) [][]string {
	records := make([][]string, 0, len(summary.Summaries))
	for _, row := range summary.Summaries {
		records = append(records, []string{
			row.Column,
			formatFloat(row.Mean),
			formatFloat(row.SD),
			formatFloat(row.Min),
			formatFloat(row.Max),
			formatInt(row.NMissing),
		})
	}
	return records
}
