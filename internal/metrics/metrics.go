// Package metrics exposes Prometheus collectors for the ingestion pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ListingPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spimex_listing_pages_total",
			Help: "Listing pages fetched by the crawler",
		},
		[]string{"status"}, // ok, error
	)

	ReportDownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spimex_report_downloads_total",
			Help: "Report file downloads by outcome",
		},
		[]string{"outcome"}, // written, skipped, failed
	)

	RowsNormalizedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "spimex_rows_normalized_total",
			Help: "Rows produced by the normalizer",
		},
	)

	RowsLoadedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spimex_rows_loaded_total",
			Help: "Rows classified by the loader",
		},
		[]string{"kind"}, // inserted, touched
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spimex_ingestion_runs_total",
			Help: "Pipeline runs by outcome",
		},
		[]string{"outcome"}, // up_to_date, no_links, ingested, failed
	)

	RunDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spimex_ingestion_run_duration_seconds",
			Help:    "Duration of one pipeline run",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12), // 0.5s to ~17min
		},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spimex_api_cache_lookups_total",
			Help: "Query API cache lookups",
		},
		[]string{"result"}, // hit, miss
	)
)
