package domain

import "math"

// OptionalFloat is a float64 that may be missing
type OptionalFloat struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Some wraps a present value
func Some(v float64) OptionalFloat {
	return OptionalFloat{Value: v, Valid: true}
}

// None is the missing value
func None() OptionalFloat {
	return OptionalFloat{}
}

// Computed wraps the result of a statistic. NaN has no numeric meaning in
// a report and becomes the missing value.
func Computed(v float64) OptionalFloat {
	if math.IsNaN(v) {
		return None()
	}
	return Some(v)
}

// IsMissing reports whether o renders as a missing value
func (o OptionalFloat) IsMissing() bool {
	return !o.Valid || math.IsNaN(o.Value)
}

// SummaryRow holds the descriptive statistics of one numeric column.
// Mean, Min and Max are missing when every cell is missing; SD is missing
// when fewer than two values are present.
type SummaryRow struct {
	Column   string        `json:"column" validate:"required"`
	Mean     OptionalFloat `json:"mean"`
	SD       OptionalFloat `json:"sd"`
	Min      OptionalFloat `json:"min"`
	Max      OptionalFloat `json:"max"`
	NMissing int           `json:"n_missing" validate:"gte=0"`
}

// SummaryTable is the per-column summary of a Table, in source column order
type SummaryTable struct {
	Source    string       `json:"source"`
	Rows      int          `json:"rows" validate:"gte=0"`
	Summaries []SummaryRow `json:"summaries" validate:"dive"`
}

// Columns returns the summarized column names in order
func (s *SummaryTable) Columns() []string {
	names := make([]string, 0, len(s.Summaries))
	for _, row := range s.Summaries {
		names = append(names, row.Column)
	}
	return names
}
