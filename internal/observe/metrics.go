// Package observe provides application-wide observability for jim:
// OpenTelemetry metrics with a Prometheus exporter bridge, and HTTP
// middleware that records request latency.
//
// A package-level default [Metrics] instance is not provided; construct one
// with [NewMetrics] and pass it where it is needed. Tests should use a
// private [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope for all jim metrics.
const meterName = "github.com/xhyrom/jim"

// latencyBuckets defines histogram boundaries (seconds) sized for
// voice-assistant request latencies.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// Metrics holds all metric instruments for the core. All fields are safe for
// concurrent use.
type Metrics struct {
	// AskDuration tracks end-to-end /v0/ask processing latency.
	AskDuration metric.Float64Histogram

	// IntentMatches counts answered /v0/ask requests. The server records it
	// with attribute.String("intent", ...) only; no match-kind attribute is
	// recorded.
	IntentMatches metric.Int64Counter

	// LLMFallbacks is registered for LLM fallback invocations; no code path
	// increments it.
	LLMFallbacks metric.Int64Counter

	// HandlerErrors is registered for skill handler failures; no code path
	// increments it.
	HandlerErrors metric.Int64Counter

	// HTTPRequestDuration tracks HTTP request processing time. Use with
	// attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// NewMetrics creates a fully initialised [Metrics] using the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	met := &Metrics{}
	var err error

	if met.AskDuration, err = m.Float64Histogram("jim.ask.duration",
		metric.WithDescription("End-to-end latency of one /v0/ask request."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.IntentMatches, err = m.Int64Counter("jim.intent.matches",
		metric.WithDescription("Matcher outcomes by intent and match kind."),
	); err != nil {
		return nil, err
	}
	if met.LLMFallbacks, err = m.Int64Counter("jim.llm.fallbacks",
		metric.WithDescription("LLM fallback invocations by status."),
	); err != nil {
		return nil, err
	}
	if met.HandlerErrors, err = m.Int64Counter("jim.handler.errors",
		metric.WithDescription("Skill handler failures by intent."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("jim.http.request.duration",
		metric.WithDescription("HTTP request processing time."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}
