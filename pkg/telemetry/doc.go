// Package telemetry provides Prometheus metrics and OpenTelemetry spans for
// hydration and rendering.
//
// Metrics are opt-in: a nil *Metrics records nothing, so callers never
// need to check before recording.
//
//	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	rt := hydrate.New(hydrate.Options{Metrics: m})
//
// Metrics collected:
//   - hydrate_passes_total: Counter of hydration passes by outcome
//   - hydrate_renders_total: Counter of fresh renders by outcome
//   - hydrate_pass_duration_seconds: Histogram of pass duration by operation
//   - hydrate_parts_bound_total: Counter of parts bound by kind
//   - hydrate_markers_scanned_total: Counter of marker comments scanned
//   - hydrate_live_roots: Gauge of containers holding a live root
//
// The outcome label is "ok" or the error code of the failure.
//
// Spans use the global OpenTelemetry tracer provider. Configure it before
// hydrating if traces should be exported.
package telemetry
