package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// StagingRecordsConsumed counts raw records landed in staging per source.
	StagingRecordsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_staging_records_consumed_total",
			Help: "Raw records consumed from ingestion and landed in staging",
		},
		[]string{"source", "result"}, // result: inserted, duplicate, invalid
	)

	// RowsMerged counts fact rows upserted per entity type.
	RowsMerged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_rows_merged_total",
			Help: "Canonical fact rows upserted by the merge engine",
		},
		[]string{"entity"},
	)

	// RowsDropped counts staging rows excluded from the canonical output.
	RowsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_rows_dropped_total",
			Help: "Staging rows dropped before merge, by reason",
		},
		[]string{"entity", "reason"},
	)

	// RunDuration measures pipeline run durations in seconds.
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_run_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"job", "status"}, // status: success, failed
	)

	// AttributionRecordsWritten counts attribution rows upserted per model.
	AttributionRecordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_attribution_records_total",
			Help: "Attribution records upserted, by model",
		},
		[]string{"model"},
	)

	// ReconciliationDrift exposes the latest percentage drift per check.
	ReconciliationDrift = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipeline_reconciliation_drift_percent",
			Help: "Latest staging vs fact percentage drift per reconciliation check",
		},
		[]string{"check"},
	)

	// WatermarkTimestamp exposes the stored watermark per fact table.
	WatermarkTimestamp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipeline_watermark_timestamp_seconds",
			Help: "Stored high watermark per fact table (unix timestamp)",
		},
		[]string{"fact_table"},
	)
)
