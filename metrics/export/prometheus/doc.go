// Package prometheus provides Prometheus collectors for deemo session metrics.
//
// [NewPrometheusExporter] accepts a [deemo.Engine] and exposes an [http.Handler]
// that renders all session counters and histograms in Prometheus text exposition
// format. Counter names are prefixed deemo_*_total; the single histogram is
// deemo_profile_fetch_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
