// Package metrics exposes Prometheus instrumentation for Comet
// connectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesFetched counts result pages fetched per connector.
	PagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comet_pages_fetched_total",
			Help: "Total number of result pages fetched from the source.",
		},
		[]string{"connector"},
	)

	// RowsExtracted counts rows emitted downstream per connector.
	RowsExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comet_rows_extracted_total",
			Help: "Total number of rows extracted from the source.",
		},
		[]string{"connector"},
	)

	// PartitionSkips counts partitions abandoned after repeated read
	// degradation.
	PartitionSkips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comet_partition_skips_total",
			Help: "Total number of partitions skipped due to repeated read failures.",
		},
		[]string{"connector"},
	)

	// ReadRetries counts degraded-read retry attempts.
	ReadRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comet_read_retries_total",
			Help: "Total number of retries after degraded reads.",
		},
		[]string{"connector"},
	)

	// ExtractionDuration observes full-table extraction durations.
	ExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "comet_extraction_duration_seconds",
			Help:    "Duration of full table extractions.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 14),
		},
		[]string{"connector", "table"},
	)
)
