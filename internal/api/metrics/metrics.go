// Package metrics defines all custom Prometheus metrics for the content
// API. It is the single source of truth for metric names, labels, and
// help strings; metrics register with the default registry at init time
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "contentapi"

// ── Generation metrics ────────────────────────────────────────────────────────

// JobsCreatedTotal counts generation jobs persisted in processing state.
var JobsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_created_total",
		Help:      "Total number of generation jobs created.",
	},
)

// JobsTerminalTotal counts jobs reaching a terminal state.
// Label:
//   - status: "completed" or "failed"
var JobsTerminalTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_terminal_total",
		Help:      "Total number of generation jobs reaching a terminal state.",
	},
	[]string{"status"},
)

// GenerationDuration measures the end-to-end duration of one generation
// request, covering both upstream calls and the final persistence write.
// Label:
//   - status: "completed" or "failed"
var GenerationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generation_duration_seconds",
		Help:      "Duration of the generation workflow from job creation to terminal write.",
		Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 20, 30, 60},
	},
	[]string{"status"},
)

// UpstreamErrorsTotal counts failures talking to the AI providers.
// Label:
//   - provider: "text", "image", or "parse" (unparseable text response)
var UpstreamErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Total number of upstream provider failures, by provider.",
	},
	[]string{"provider"},
)

// ── Publishing metrics ────────────────────────────────────────────────────────

// PublishResultsTotal counts per-platform publish outcomes.
// Labels:
//   - platform: the publishing channel (e.g. "twitter")
//   - result: "success" or "failure"
var PublishResultsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "publish_results_total",
		Help:      "Total number of per-platform publish attempts, by outcome.",
	},
	[]string{"platform", "result"},
)
