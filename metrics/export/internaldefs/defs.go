package internaldefs

import (
	deemo "github.com/deemo-app/deemo-go"
)

// CounterDef defines a public type used by deemo APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   deemo.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by deemo APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   deemo.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session engine.
var CounterDefs = []CounterDef{
	{ID: deemo.MetricLoginSuccess, Name: "deemo_login_success_total", Help: "Successful login attempts."},
	{ID: deemo.MetricLoginFailure, Name: "deemo_login_failure_total", Help: "Failed login attempts."},
	{ID: deemo.MetricSignupSuccess, Name: "deemo_signup_success_total", Help: "Successful signup requests."},
	{ID: deemo.MetricSignupFailure, Name: "deemo_signup_failure_total", Help: "Failed signup requests."},
	{ID: deemo.MetricProfileFetchSuccess, Name: "deemo_profile_fetch_success_total", Help: "Successful profile fetches."},
	{ID: deemo.MetricProfileFetchFailure, Name: "deemo_profile_fetch_failure_total", Help: "Failed profile fetches."},
	{ID: deemo.MetricNotAuthenticated, Name: "deemo_not_authenticated_total", Help: "Authenticated operations attempted with no stored token."},
	{ID: deemo.MetricLogout, Name: "deemo_logout_total", Help: "Logout operations."},
	{ID: deemo.MetricStaleResponseDiscarded, Name: "deemo_stale_response_discarded_total", Help: "Late responses discarded by the generation guard."},
	{ID: deemo.MetricTokenPersistFailure, Name: "deemo_token_persist_failure_total", Help: "Credential slot writes that failed after a successful login."},
}

// HistogramDefs is an exported constant or variable used by the session engine.
var HistogramDefs = []HistogramDef{
	{ID: deemo.MetricProfileFetchLatency, Name: "deemo_profile_fetch_latency_seconds", Help: "Profile fetch latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
