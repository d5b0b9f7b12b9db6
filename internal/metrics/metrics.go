// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "soa_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "soa_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	PipelineRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "soa_pipeline_runs_total",
		Help: "Pipeline runs by pipeline and outcome (ok, no_data, invalid_input, error).",
	}, []string{"pipeline", "outcome"})

	PipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "soa_pipeline_duration_seconds",
		Help:    "Wall time of one pipeline run.",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"pipeline"})

	DocumentsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "soa_documents_generated_total",
		Help: "Statement or notice files written, by pipeline.",
	}, []string{"pipeline"})

	WorkdirsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "soa_workdirs_swept_total",
		Help: "Stale working directories removed by the janitor.",
	})
)

// Outcome labels for PipelineRunsTotal
const (
	OutcomeOK      = "ok"
	OutcomeNoData  = "no_data"
	OutcomeInvalid = "invalid_input"
	OutcomeError   = "error"
)
