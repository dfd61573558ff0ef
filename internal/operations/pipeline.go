package operations

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"numsummary/internal/infrastructure"
)

// StepFunc performs the work that leads to the next state
type StepFunc func(ctx context.Context) error

// Pipeline drives one run through the state machine. Every step is traced
// and a failing step ends the run with its failure reason.
type Pipeline struct {
	state   *PipelineState
	tracer  *PipelineTracer
	logger  *slog.Logger
	runSpan trace.Span
}

// NewPipeline creates a pipeline for the given run
func NewPipeline(runID string, tracer *PipelineTracer, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		state:  NewPipelineState(runID),
		tracer: tracer,
		logger: infrastructure.WithComponent(logger, "pipeline"),
	}
}

// Begin opens the run span. The returned context carries it.
func (p *Pipeline) Begin(ctx context.Context, input string) context.Context {
	ctx, p.runSpan = p.tracer.TraceRun(ctx, p.state.RunID, input)
	attrs := []any{slog.String("input", input)}
	if otelTraceID := infrastructure.TraceIDFromContext(ctx); otelTraceID != "" {
		attrs = append(attrs, slog.String("otel_trace_id", otelTraceID))
	}
	p.logger.InfoContext(ctx, "pipeline started", attrs...)
	return ctx
}

// Step runs fn and advances to target when it succeeds. When fn fails the
// run moves to StateFailed with reason and fn's error is returned as is.
func (p *Pipeline) Step(ctx context.Context, target PipelineStateValue, reason FailureReason, fn StepFunc) error {
	stageCtx, span := p.tracer.TraceStage(ctx, p.state.RunID, target)
	start := time.Now()

	err := fn(stageCtx)
	if err == nil {
		err = p.state.Advance(target)
	} else if failErr := p.state.Fail(reason, err); failErr != nil {
		p.logger.ErrorContext(ctx, "cannot record failure", slog.String("error", failErr.Error()))
	}

	p.tracer.RecordStageCompletion(stageCtx, span, target, time.Since(start), err)

	if err != nil {
		p.logger.ErrorContext(ctx, "pipeline step failed",
			slog.String("stage", string(target)),
			slog.String("reason", string(reason)),
			slog.String("error", err.Error()))
		return err
	}

	p.logger.DebugContext(ctx, "pipeline step completed", slog.String("stage", string(target)))
	return nil
}

// Complete moves a run whose files are exported to StateDone
func (p *Pipeline) Complete(ctx context.Context) error {
	if err := p.state.Advance(StateDone); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "pipeline completed",
		slog.Duration("duration", p.state.Duration()))
	return nil
}

// End closes the run span with the final state. It is safe to call once
// after Begin, whatever the outcome.
func (p *Pipeline) End(ctx context.Context) {
	if p.runSpan == nil {
		return
	}
	p.tracer.RecordRunCompletion(ctx, p.runSpan, p.state)
	p.runSpan = nil
}

// State returns the run state
func (p *Pipeline) State() *PipelineState {
	return p.state
}

// Tracer returns the tracer used for the run
func (p *Pipeline) Tracer() *PipelineTracer {
	return p.tracer
}
