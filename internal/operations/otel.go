package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"numsummary/internal/infrastructure"
)

const (
	TracerName = "numsummary.pipeline"
)

// PipelineTracer provides OpenTelemetry instrumentation for pipeline runs
type PipelineTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewPipelineTracer creates a tracer on the run's providers
func NewPipelineTracer(providers *infrastructure.OTelProviders) (*PipelineTracer, error) {
	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	return &PipelineTracer{
		tracer:  providers.Tracer,
		metrics: metrics,
	}, nil
}

// TraceRun creates the root span of a run
func (pt *PipelineTracer) TraceRun(ctx context.Context, runID, input string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.run_id", runID),
			attribute.String("pipeline.input", input),
		),
	)
}

// TraceStage creates a span for the step that leads to stage
func (pt *PipelineTracer) TraceStage(ctx context.Context, runID string, stage PipelineStateValue) (context.Context, trace.Span) {
	ctx, span := pt.tracer.Start(ctx, fmt.Sprintf("pipeline.stage.%s", stage),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.run_id", runID),
			attribute.String("pipeline.stage", string(stage)),
		),
	)
	return ctx, span
}

// RecordStageCompletion ends a stage span and records its outcome
func (pt *PipelineTracer) RecordStageCompletion(ctx context.Context, span trace.Span, stage PipelineStateValue, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failed"
		infrastructure.RecordError(ctx, err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(attribute.Float64("pipeline.stage.duration_seconds", duration.Seconds()))

	attrs := metric.WithAttributes(
		attribute.String("stage", string(stage)),
		attribute.String("status", status),
	)
	pt.metrics.StageExecutions.Add(ctx, 1, attrs)
	pt.metrics.StageDuration.Record(ctx, duration.Seconds(), attrs)

	span.End()
}

// RecordRunCompletion ends the root span with the final state of the run
func (pt *PipelineTracer) RecordRunCompletion(ctx context.Context, span trace.Span, state *PipelineState) {
	final := state.State()
	attrs := []attribute.KeyValue{attribute.String("status", string(final))}
	if reason := state.FailReason(); reason != "" {
		attrs = append(attrs, attribute.String("reason", string(reason)))
	}

	span.SetAttributes(
		attribute.String("pipeline.status", string(final)),
		attribute.Float64("pipeline.duration_seconds", state.Duration().Seconds()),
	)
	pt.metrics.RunsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	infrastructure.AddSpanEvent(ctx, "pipeline.completed", map[string]interface{}{
		"run_id":   state.RunID,
		"status":   string(final),
		"reason":   string(state.FailReason()),
		"duration": state.Duration().Seconds(),
	})

	if final == StateDone {
		span.SetStatus(codes.Ok, "pipeline completed")
	} else {
		span.SetStatus(codes.Error, fmt.Sprintf("pipeline failed: %s", state.FailReason()))
	}
	span.End()
}

// RecordTableLoaded counts the rows read from the input
func (pt *PipelineTracer) RecordTableLoaded(ctx context.Context, rows, columns int) {
	pt.metrics.RowsLoaded.Add(ctx, int64(rows))
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("table.rows", rows),
		attribute.Int("table.columns", columns),
	)
}

// RecordColumnsClassified counts columns by inferred kind
func (pt *PipelineTracer) RecordColumnsClassified(ctx context.Context, kind string, n int) {
	if n == 0 {
		return
	}
	pt.metrics.ColumnsClassified.Add(ctx, int64(n), metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordColumnsSummarized counts summarized numeric columns
func (pt *PipelineTracer) RecordColumnsSummarized(ctx context.Context, n int) {
	pt.metrics.ColumnsSummarized.Add(ctx, int64(n))
}

// RecordFileExported counts a written report file
func (pt *PipelineTracer) RecordFileExported(ctx context.Context, format, path string) {
	pt.metrics.FilesExported.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
	infrastructure.AddSpanEvent(ctx, "file.exported", map[string]interface{}{
		"format": format,
		"path":   path,
	})
}
