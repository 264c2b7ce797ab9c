// Package metrics exposes Prometheus instrumentation for the brief
// pipeline: request latency, per-provider SERP outcomes, and scrape
// success/failure counts.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalyzeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "contentbrief",
		Name:      "analyze_duration_seconds",
		Help:      "Duration of a full /analyze pipeline run.",
		Buckets:   prometheus.DefBuckets,
	})

	SerpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contentbrief",
		Name:      "serp_requests_total",
		Help:      "SERP provider requests by provider and outcome.",
	}, []string{"provider", "outcome"})

	ScrapeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contentbrief",
		Name:      "scrape_requests_total",
		Help:      "Per-URL scrape attempts by outcome.",
	}, []string{"outcome"})

	CausalLLMCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contentbrief",
		Name:      "causal_llm_calls_total",
		Help:      "Causal-extractor LLM calls by backend and outcome.",
	}, []string{"backend", "outcome"})

	ComplianceBatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "contentbrief",
		Name:      "compliance_batches_total",
		Help:      "Compliance-counter batch calls served.",
	})
)

// RecordAnalyzeDuration records a completed /analyze call.
func RecordAnalyzeDuration(d time.Duration) {
	AnalyzeDuration.Observe(d.Seconds())
}

// RecordSerpOutcome increments the SERP request counter for provider and
// outcome ("ok", "empty", "error").
func RecordSerpOutcome(provider, outcome string) {
	SerpRequests.WithLabelValues(provider, outcome).Inc()
}

// RecordScrapeOutcome increments the scrape counter for outcome ("ok",
// "skipped", "error", "too_short").
func RecordScrapeOutcome(outcome string) {
	ScrapeRequests.WithLabelValues(outcome).Inc()
}

// RecordCausalLLMCall increments the causal-LLM counter for backend and
// outcome ("ok", "error", "empty").
func RecordCausalLLMCall(backend, outcome string) {
	CausalLLMCalls.WithLabelValues(backend, outcome).Inc()
}

// RecordComplianceBatch increments the compliance batch counter.
func RecordComplianceBatch() {
	ComplianceBatches.Inc()
}
