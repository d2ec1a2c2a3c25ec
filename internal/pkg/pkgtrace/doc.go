// Package pkgtrace wires OpenTelemetry tracing for the upload pipeline.
//
// Tracing is off unless an OTLP/HTTP endpoint is configured; until then the
// global no-op provider makes Start cheap and side-effect free.
package pkgtrace
