package utils

import (
	"context"

	"github.com/sirupsen/logrus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogSpanExporter writes finished spans to the logger at debug level
type LogSpanExporter struct {
	logger *logrus.Logger
}

// ExportSpans logs each span with its attributes
func (e *LogSpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		fields := logrus.Fields{
			"span":        span.Name(),
			"trace_id":    span.SpanContext().TraceID().String(),
			"duration_ms": span.EndTime().Sub(span.StartTime()).Milliseconds(),
			"status":      span.Status().Code.String(),
		}
		for _, attr := range span.Attributes() {
			fields[string(attr.Key)] = attr.Value.Emit()
		}
		e.logger.WithFields(fields).Debug("Span finished")
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter
func (e *LogSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

// NewTracerProvider creates a tracer provider exporting to the logger.
// Spans are only sampled when debug logging is enabled.
func NewTracerProvider(logger *logrus.Logger) *sdktrace.TracerProvider {
	sampler := sdktrace.NeverSample()
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		sampler = sdktrace.AlwaysSample()
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sampler),
		sdktrace.WithSyncer(&LogSpanExporter{logger: logger}),
	)
}
