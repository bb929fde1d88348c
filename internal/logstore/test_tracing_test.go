package logstore

import "go.opentelemetry.io/otel/trace/noop"

var (
	testTracer  = noop.NewTracerProvider().Tracer("test/internal/logstore")
	testMetrics = noopMetrics{}
)
