// Package telemetry provides OpenTelemetry initialization and helpers
// for tracing, logs and metrics across the Dishcraft binaries.
//
// Traces and logs are exported over OTLP HTTP when an endpoint is
// configured. Metrics are always served in Prometheus format and are
// pushed over OTLP as well when an endpoint is set.
package telemetry
