package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabledInstallsNoop(t *testing.T) {
	t.Setenv("TODO_SCAN_OTEL_ENABLED", "")
	require.NoError(t, Init(context.Background(), "todo-scan", "test"))
	assert.False(t, Enabled())

	inst := NewScanInstruments()
	ctx, span, start := inst.StartBuild(context.Background(), "working tree")
	assert.False(t, span.SpanContext().IsValid(), "no-op spans carry no context")
	inst.EndBuild(ctx, span, start, "working tree", 2, 1, 0, nil)
	Shutdown(context.Background())
}

func TestInitEnabledWithoutExporters(t *testing.T) {
	t.Setenv("TODO_SCAN_OTEL_ENABLED", "true")
	t.Setenv("TODO_SCAN_OTEL_STDOUT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")
	require.NoError(t, Init(context.Background(), "todo-scan", "test"))
	defer func() {
		Shutdown(context.Background())
		t.Setenv("TODO_SCAN_OTEL_ENABLED", "")
		_ = Init(context.Background(), "todo-scan", "test")
	}()

	inst := NewScanInstruments()
	ctx, span, start := inst.StartBuild(context.Background(), "HEAD")
	assert.True(t, span.SpanContext().IsValid())
	inst.EndBuild(ctx, span, start, "HEAD", 3, 4, 1, errors.New("boom"))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
