package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landlordwatch_records_processed_total",
			Help: "Records upserted into the canonical store per dataset",
		},
		[]string{"dataset"},
	)

	recordsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landlordwatch_records_skipped_total",
			Help: "Source records skipped during transform, by reason",
		},
		[]string{"dataset", "reason"},
	)

	stageDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "landlordwatch_stage_duration_seconds",
			Help:    "Duration of pipeline stages",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"stage"},
	)

	stageRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "landlordwatch_stage_runs_total",
			Help: "Pipeline stage runs by outcome",
		},
		[]string{"stage", "status"},
	)
)
