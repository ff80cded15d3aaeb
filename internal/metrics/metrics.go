// Package metrics exposes the Prometheus metrics an Orchestrator run updates:
// pipeline throughput, per-node latency, and active-node gauges.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineRunsTotal counts ExecutePipeline invocations by outcome
	// ("success" or "error").
	PipelineRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epochflow_pipeline_runs_total",
		Help: "Total number of pipeline executions, labeled by outcome.",
	}, []string{"outcome"})

	// PipelineDuration observes wall-clock time for a full ExecutePipeline
	// call, from InitializeBaseData through BuildFinalOutput.
	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "epochflow_pipeline_duration_seconds",
		Help:    "Duration of a complete pipeline execution.",
		Buckets: prometheus.DefBuckets,
	})

	// NodeDuration observes wall-clock time for a single transform node's
	// dispatch (ApplyDefaultTransform or ApplyCrossSectionTransform),
	// labeled by transform id.
	NodeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "epochflow_node_duration_seconds",
		Help:    "Duration of a single transform node's dispatch.",
		Buckets: prometheus.DefBuckets,
	}, []string{"transform_id"})

	// ActiveNodes gauges how many transform nodes are currently running
	// inside the graph scheduler.
	ActiveNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "epochflow_active_nodes",
		Help: "Number of transform nodes currently executing.",
	})

	// PipelineErrors counts aggregated per-asset errors logged during a
	// pipeline run, labeled by transform id.
	PipelineErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epochflow_pipeline_errors_total",
		Help: "Total number of per-asset transform errors logged during pipeline execution.",
	}, []string{"transform_id"})

	// AssetCount gauges the number of assets registered for the most recent
	// pipeline run.
	AssetCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "epochflow_asset_count",
		Help: "Number of assets registered in the most recent pipeline run.",
	})
)
