package infrastructure

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"numsummary/internal/config"
	"numsummary/internal/shared/testutil"
)

func TestInitializeOTel_Disabled(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	providers, err := InitializeOTel(config.TelemetryConfig{ServiceName: "numsummary"}, logger)
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.Registry)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)

	// No-op instruments must still be usable
	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RowsLoaded.Add(context.Background(), 3)

	_, span := providers.Tracer.Start(context.Background(), "noop")
	span.End()

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := config.TelemetryConfig{
		ServiceName: "numsummary-test",
		TraceFile:   filepath.Join(dir, "telemetry", "trace.json"),
		MetricsFile: filepath.Join(dir, "telemetry", "metrics.prom"),
	}

	logger, _ := testutil.NewTestLogger(t)
	providers, err := InitializeOTel(cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)
	require.NotNil(t, providers.MeterProvider)
	require.NotNil(t, providers.Registry)

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx, span := providers.Tracer.Start(context.Background(), "pipeline.load")
	metrics.RowsLoaded.Add(ctx, 5)
	metrics.FilesExported.Add(ctx, 1, metric.WithAttributes(attribute.String("format", "csv")))
	AddSpanEvent(ctx, "table.loaded", map[string]interface{}{"rows": 5, "source": "in.csv"})
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))

	traceData, err := os.ReadFile(cfg.TraceFile)
	require.NoError(t, err)
	assert.Contains(t, string(traceData), "pipeline.load")
	assert.Contains(t, string(traceData), "table.loaded")

	metricsData, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metricsData), "numsummary_rows_loaded")
	assert.Contains(t, string(metricsData), "numsummary_files_exported")
}

func TestInitializeOTel_TraceFileError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := InitializeOTel(config.TelemetryConfig{
		ServiceName: "numsummary",
		TraceFile:   filepath.Join(blocker, "trace.json"),
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize tracing")
}

func TestSpanHelpers_NotRecording(t *testing.T) {
	ctx := context.Background()

	// Must not panic without an active span
	AddSpanEvent(ctx, "ignored", map[string]interface{}{"k": "v"})
	RecordError(ctx, errors.New("ignored"))
	assert.Equal(t, "", TraceIDFromContext(ctx))
}
