package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "numsummary/internal/errors"
	"numsummary/pkg/contracts/domain"
)

// SummaryValidator checks a computed summary before it is exported
type SummaryValidator struct {
	validate *validator.Validate
}

// NewSummaryValidator creates a summary validator
func NewSummaryValidator() *SummaryValidator {
	return &SummaryValidator{validate: validator.New()}
}

// Validate checks the struct tags of the summary rows and that no column
// reports more missing cells than the table has rows. Failures are
// VALIDATION errors.
func (v *SummaryValidator) Validate(summary *domain.SummaryTable) error {
	if summary == nil {
		return apperrors.NewAppValidationError("summary is nil")
	}
	if err := v.validate.Struct(summary); err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeValidation, "invalid summary", err)
	}

	seen := make(map[string]struct{}, len(summary.Summaries))
	for _, row := range summary.Summaries {
		if row.NMissing > summary.Rows {
			return apperrors.NewAppValidationError(fmt.Sprintf("column %q has %d missing cells in %d rows", row.Column, row.NMissing, summary.Rows))
		}
		if _, dup := seen[row.Column]; dup {
			return apperrors.NewAppValidationError(fmt.Sprintf("column %q is summarized twice", row.Column))
		}
		seen[row.Column] = struct{}{}
		if row.SD.Valid && row.SD.Value < 0 {
			return apperrors.NewAppValidationError(fmt.Sprintf("column %q has a negative standard deviation", row.Column))
		}
		if row.Min.Valid && row.Max.Valid && row.Min.Value > row.Max.Value {
			return apperrors.NewAppValidationError(fmt.Sprintf("column %q has min above max", row.Column))
		}
	}
	return nil
}
