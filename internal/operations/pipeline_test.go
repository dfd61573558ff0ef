package operations

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"numsummary/internal/config"
	"numsummary/internal/infrastructure"
	"numsummary/internal/shared/testutil"
)

func newNoopTracer(t *testing.T) *PipelineTracer {
	t.Helper()
	providers, err := infrastructure.InitializeOTel(config.TelemetryConfig{ServiceName: "test"}, nil)
	require.NoError(t, err)
	tracer, err := NewPipelineTracer(providers)
	require.NoError(t, err)
	return tracer
}

func noop(context.Context) error { return nil }

func TestPipeline_Success(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	p := NewPipeline("run-ok", newNoopTracer(t), logger)

	ctx := p.Begin(context.Background(), "in.csv")
	for _, stage := range happyPath[:len(happyPath)-1] {
		require.NoError(t, p.Step(ctx, stage, ReasonExportFailure, noop))
	}
	require.NoError(t, p.Complete(ctx))
	p.End(ctx)
	p.End(ctx)

	assert.Equal(t, StateDone, p.State().State())
	assert.Equal(t, 0, p.State().ExitCode())
	testutil.AssertLogContains(t, logs, slog.LevelInfo, "pipeline completed")
	testutil.AssertNoErrors(t, logs)
}

func TestPipeline_StepFailure(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	p := NewPipeline("run-fail", newNoopTracer(t), logger)
	ctx := p.Begin(context.Background(), "in.csv")
	defer p.End(ctx)

	require.NoError(t, p.Step(ctx, StateArgsValidated, ReasonWrongArgCount, noop))

	cause := errors.New("gone")
	err := p.Step(ctx, StateFileExists, ReasonMissingFile, func(context.Context) error { return cause })
	assert.Same(t, cause, err)

	assert.Equal(t, StateFailed, p.State().State())
	assert.Equal(t, ReasonMissingFile, p.State().FailReason())
	assert.Equal(t, 1, p.State().ExitCode())
	testutil.AssertLogAttr(t, logs, "reason", "missing_file")

	// Nothing runs after a failure
	ran := false
	err = p.Step(ctx, StateTableLoaded, ReasonParseFailure, func(context.Context) error {
		ran = true
		return nil
	})
	assert.True(t, ran)
	assert.True(t, IsInvalidTransition(err))
	assert.Equal(t, ReasonMissingFile, p.State().FailReason())
}

func TestPipeline_OutOfOrderStep(t *testing.T) {
	p := NewPipeline("run-order", newNoopTracer(t), nil)
	ctx := p.Begin(context.Background(), "in.csv")
	defer p.End(ctx)

	err := p.Step(ctx, StateTableLoaded, ReasonParseFailure, noop)
	assert.True(t, IsInvalidTransition(err))
	assert.Equal(t, StateStart, p.State().State())
	assert.Error(t, p.Complete(ctx))
}

func TestPipeline_Telemetry(t *testing.T) {
	dir := t.TempDir()
	cfg := config.TelemetryConfig{
		ServiceName: "numsummary-test",
		TraceFile:   filepath.Join(dir, "trace.json"),
		MetricsFile: filepath.Join(dir, "metrics.prom"),
	}
	providers, err := infrastructure.InitializeOTel(cfg, nil)
	require.NoError(t, err)
	tracer, err := NewPipelineTracer(providers)
	require.NoError(t, err)

	p := NewPipeline("run-otel", tracer, nil)
	ctx := p.Begin(context.Background(), "in.csv")
	require.NoError(t, p.Step(ctx, StateArgsValidated, ReasonWrongArgCount, noop))
	require.NoError(t, p.Step(ctx, StateFileExists, ReasonMissingFile, noop))
	require.NoError(t, p.Step(ctx, StateTableLoaded, ReasonParseFailure, func(ctx context.Context) error {
		p.Tracer().RecordTableLoaded(ctx, 3, 2)
		p.Tracer().RecordColumnsClassified(ctx, "numeric", 2)
		p.Tracer().RecordColumnsClassified(ctx, "text", 0)
		return nil
	}))
	err = p.Step(ctx, StateSummaryComputed, ReasonSummarizationFailure, func(ctx context.Context) error {
		return errors.New("boom")
	})
	require.Error(t, err)
	p.End(ctx)

	require.NoError(t, providers.Shutdown(context.Background()))

	traceData, err := os.ReadFile(cfg.TraceFile)
	require.NoError(t, err)
	assert.Contains(t, string(traceData), "pipeline.run")
	assert.Contains(t, string(traceData), "pipeline.stage.table_loaded")
	assert.Contains(t, string(traceData), "pipeline.completed")
	assert.Contains(t, string(traceData), "boom")

	metricsData, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	metrics := string(metricsData)
	assert.Contains(t, metrics, "numsummary_runs")
	assert.Contains(t, metrics, "summarization_failure")
	assert.Contains(t, metrics, "numsummary_rows_loaded")
	assert.Contains(t, metrics, "numsummary_stage_duration")
}
