package operations

import (
	"sync"
	"time"
)

// PipelineStateValue is a state of a pipeline run
type PipelineStateValue string

const (
	StateStart           PipelineStateValue = "start"
	StateArgsValidated   PipelineStateValue = "args_validated"
	StateFileExists      PipelineStateValue = "file_exists"
	StateTableLoaded     PipelineStateValue = "table_loaded"
	StateSummaryComputed PipelineStateValue = "summary_computed"
	StateOutputDirReady  PipelineStateValue = "output_dir_ready"
	StateFilesExported   PipelineStateValue = "files_exported"
	StateDone            PipelineStateValue = "done"
	StateFailed          PipelineStateValue = "failed"
)

// FailureReason says why a run ended in StateFailed
type FailureReason string

const (
	ReasonWrongArgCount        FailureReason = "wrong_argument_count"
	ReasonMissingFile          FailureReason = "missing_file"
	ReasonParseFailure         FailureReason = "parse_failure"
	ReasonSummarizationFailure FailureReason = "summarization_failure"
	ReasonExportFailure        FailureReason = "export_failure"
)

// successor is the only state each non-terminal state may advance to
var successor = map[PipelineStateValue]PipelineStateValue{
	StateStart:           StateArgsValidated,
	StateArgsValidated:   StateFileExists,
	StateFileExists:      StateTableLoaded,
	StateTableLoaded:     StateSummaryComputed,
	StateSummaryComputed: StateOutputDirReady,
	StateOutputDirReady:  StateFilesExported,
	StateFilesExported:   StateDone,
}

// Next returns the state that follows s, or false when s is terminal
func Next(s PipelineStateValue) (PipelineStateValue, bool) {
	next, ok := successor[s]
	return next, ok
}

// Transition records one state change
type Transition struct {
	From PipelineStateValue `json:"from"`
	To   PipelineStateValue `json:"to"`
	At   time.Time          `json:"at"`
}

// PipelineState tracks a single run through the linear state machine
type PipelineState struct {
	mu sync.RWMutex

	RunID     string             `json:"run_id"`
	Current   PipelineStateValue `json:"state"`
	Reason    FailureReason      `json:"reason,omitempty"`
	StartTime time.Time          `json:"start_time"`
	EndTime   *time.Time         `json:"end_time,omitempty"`
	History   []Transition       `json:"history"`

	// Error if the run failed
	Error error `json:"-"`
}

// NewPipelineState creates a run in StateStart
func NewPipelineState(runID string) *PipelineState {
	return &PipelineState{
		RunID:     runID,
		Current:   StateStart,
		StartTime: time.Now(),
	}
}

// Advance moves the run to the given state. Only the direct successor of
// the current state is accepted.
func (s *PipelineState) Advance(to PipelineStateValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := successor[s.Current]
	if !ok {
		return NewInvalidTransitionError(s.Current, to, "run has already ended")
	}
	if next != to {
		return NewInvalidTransitionError(s.Current, to, "expected "+string(next))
	}

	s.record(to)
	if to == StateDone {
		now := time.Now()
		s.EndTime = &now
	}
	return nil
}

// Fail ends the run in StateFailed
func (s *PipelineState) Fail(reason FailureReason, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isTerminal() {
		return NewInvalidTransitionError(s.Current, StateFailed, "run has already ended")
	}

	s.record(StateFailed)
	s.Reason = reason
	s.Error = err
	now := time.Now()
	s.EndTime = &now
	return nil
}

// State returns the current state
func (s *PipelineState) State() PipelineStateValue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Current
}

// FailReason returns why the run failed, or "" if it has not
func (s *PipelineState) FailReason() FailureReason {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Reason
}

// IsTerminal reports whether the run has ended
func (s *PipelineState) IsTerminal() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isTerminal()
}

// ExitCode is 0 for a finished run and 1 otherwise
func (s *PipelineState) ExitCode() int {
	if s.State() == StateDone {
		return 0
	}
	return 1
}

// Duration returns how long the run took, or has taken so far
func (s *PipelineState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}

// Transitions returns a copy of the state history
func (s *PipelineState) Transitions() []Transition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make([]Transition, len(s.History))
	copy(history, s.History)
	return history
}

func (s *PipelineState) isTerminal() bool {
	return s.Current == StateDone || s.Current == StateFailed
}

func (s *PipelineState) record(to PipelineStateValue) {
	s.History = append(s.History, Transition{From: s.Current, To: to, At: time.Now()})
	s.Current = to
}
