package dataprocessing

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"numsummary/pkg/contracts/domain"
)

// ParseNumeric parses a trimmed decimal number. Hexadecimal literals and
// digit separators are not numbers in a data file. Literals beyond the
// float64 range parse as signed infinity, the same as "inf".
func ParseNumeric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.ContainsAny(s, "_xX") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(v) {
		// Only the NA tokens spell a missing value
		return 0, false
	}
	return v, true
}

// ClassifyColumn decides a column's kind from its non-missing cells. A
// column is numeric when every non-missing cell parses as a number, so a
// column with no values at all is numeric.
func ClassifyColumn(col domain.Column) domain.ColumnKind {
	for _, cell := range col.Cells {
		if cell.Missing {
			continue
		}
		if _, ok := ParseNumeric(cell.Raw); !ok {
			return domain.ColumnKindText
		}
	}
	return domain.ColumnKindNumeric
}

// numericValues returns the parsed non-missing values of a numeric column
// in row order
func numericValues(col domain.Column) []float64 {
	values := make([]float64, 0, len(col.Cells))
	for _, cell := range col.Cells {
		if cell.Missing {
			continue
		}
		if v, ok := ParseNumeric(cell.Raw); ok {
			values = append(values, v)
		}
	}
	return values
}
