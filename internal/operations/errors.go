package operations

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of pipeline error
type ErrorType string

const (
	ErrorTypeInvalidState ErrorType = "invalid_state"
)

// OperationError is an error raised by the pipeline machinery itself
type OperationError struct {
	Type    ErrorType              `json:"type"`
	Step    string                 `json:"step,omitempty"`
	Message string                 `json:"message"`
	Cause   error                  `json:"cause,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e == nil {
		return "unknown operation error"
	}
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Step, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewInvalidTransitionError reports a state change the machine does not allow
func NewInvalidTransitionError(from, to PipelineStateValue, detail string) *OperationError {
	return &OperationError{
		Type:    ErrorTypeInvalidState,
		Step:    string(to),
		Message: fmt.Sprintf("cannot move from %s to %s: %s", from, to, detail),
		Context: map[string]interface{}{
			"from": string(from),
			"to":   string(to),
		},
	}
}

// IsInvalidTransition reports whether err is an invalid state change
func IsInvalidTransition(err error) bool {
	var opErr *OperationError
	return errors.As(err, &opErr) && opErr.Type == ErrorTypeInvalidState
}
