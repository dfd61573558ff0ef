package dataprocessing

import (
	"context"
	"errors"
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	apperrors "numsummary/internal/errors"
	"numsummary/internal/infrastructure"
	"numsummary/pkg/contracts/domain"
)

var (
	// ErrEmptyInput is returned for a table without columns
	ErrEmptyInput = errors.New("input table has no columns")
	// ErrNoNumericColumns is returned when no column classifies as numeric
	ErrNoNumericColumns = errors.New("no numeric columns to summarize")
)

// Summarizer computes per-column descriptive statistics of a Table
type Summarizer struct {
	logger *slog.Logger
}

// ColumnClassification records the kind inferred for one column
type ColumnClassification struct {
	Column string
	Kind   domain.ColumnKind
}

// NewSummarizer creates a summarizer
func NewSummarizer(logger *slog.Logger) *Summarizer {
	return &Summarizer{logger: infrastructure.WithComponent(logger, "summarizer")}
}

// Classify returns the inferred kind of every column in source order
func (s *Summarizer) Classify(table *domain.Table) []ColumnClassification {
	result := make([]ColumnClassification, 0, table.NumColumns())
	for _, col := range table.Columns {
		result = append(result, ColumnClassification{Column: col.Name, Kind: ClassifyColumn(col)})
	}
	return result
}

// Summarize returns one SummaryRow per numeric column, in source order.
// Errors are COMPUTATION-typed and wrap ErrEmptyInput or ErrNoNumericColumns.
func (s *Summarizer) Summarize(ctx context.Context, table *domain.Table) (*domain.SummaryTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if table.NumColumns() == 0 {
		return nil, apperrors.NewComputationError("cannot summarize table", ErrEmptyInput)
	}

	summary := &domain.SummaryTable{
		Source:    table.Source,
		Rows:      table.NumRows(),
		Summaries: make([]domain.SummaryRow, 0, table.NumColumns()),
	}

	skipped := 0
	for _, col := range table.Columns {
		if ClassifyColumn(col) != domain.ColumnKindNumeric {
			skipped++
			s.logger.DebugContext(ctx, "skipping non-numeric column",
				slog.String("column", col.Name))
			continue
		}
		summary.Summaries = append(summary.Summaries, SummarizeColumn(col))
	}

	if len(summary.Summaries) == 0 {
		return nil, apperrors.NewComputationError("cannot summarize table", ErrNoNumericColumns).
			WithContext("columns", table.NumColumns())
	}

	s.logger.InfoContext(ctx, "numeric summary computed",
		slog.Int("numeric_columns", len(summary.Summaries)),
		slog.Int("skipped_columns", skipped),
		slog.Int("rows", summary.Rows))

	return summary, nil
}

// SummarizeColumn computes the statistics of a numeric column. SD is the
// sample standard deviation and needs at least two values.
func SummarizeColumn(col domain.Column) domain.SummaryRow {
	values := numericValues(col)
	row := domain.SummaryRow{
		Column:   col.Name,
		NMissing: col.MissingCount(),
	}

	if len(values) == 0 {
		return row
	}

	// Infinite cells make the mean infinite and the SD NaN
	mean, sd := stat.MeanStdDev(values, nil)
	row.Mean = domain.Computed(mean)
	if len(values) > 1 {
		row.SD = domain.Computed(sd)
	}
	row.Min = domain.Computed(floats.Min(values))
	row.Max = domain.Computed(floats.Max(values))
	return row
}
