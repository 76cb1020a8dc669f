package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const scanScopeName = "github.com/todoscan/todo-scan/internal/snapshot"

// ScanInstruments records spans and counters for snapshot builds. With
// telemetry disabled the global no-op providers make every call free.
type ScanInstruments struct {
	tracer  trace.Tracer
	files   metric.Int64Counter
	items   metric.Int64Counter
	skipped metric.Int64Counter
	dur     metric.Float64Histogram
}

// NewScanInstruments creates the instruments from the global providers.
func NewScanInstruments() *ScanInstruments {
	m := Meter(scanScopeName)
	files, _ := m.Int64Counter("todo_scan.files_scanned",
		metric.WithDescription("Files scanned for tagged comments"),
	)
	items, _ := m.Int64Counter("todo_scan.items_found",
		metric.WithDescription("Tagged comments found"),
	)
	skipped, _ := m.Int64Counter("todo_scan.files_skipped",
		metric.WithDescription("Files skipped because they could not be read"),
	)
	dur, _ := m.Float64Histogram("todo_scan.snapshot.duration",
		metric.WithDescription("Snapshot build duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	return &ScanInstruments{
		tracer:  Tracer(scanScopeName),
		files:   files,
		items:   items,
		skipped: skipped,
		dur:     dur,
	}
}

// StartBuild opens a snapshot.build span for the named source.
func (s *ScanInstruments) StartBuild(ctx context.Context, source string) (context.Context, trace.Span, time.Time) {
	ctx, span := s.tracer.Start(ctx, "snapshot.build",
		trace.WithAttributes(attribute.String("todo_scan.source", source)),
	)
	return ctx, span, time.Now()
}

// EndBuild records the build outcome and ends span.
func (s *ScanInstruments) EndBuild(ctx context.Context, span trace.Span, start time.Time, source string, files, items, skipped int, err error) {
	attrs := metric.WithAttributes(attribute.String("todo_scan.source", source))
	s.files.Add(ctx, int64(files), attrs)
	s.items.Add(ctx, int64(items), attrs)
	s.skipped.Add(ctx, int64(skipped), attrs)
	s.dur.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)

	span.SetAttributes(
		attribute.Int("todo_scan.files", files),
		attribute.Int("todo_scan.items", items),
		attribute.Int("todo_scan.skipped", skipped),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
