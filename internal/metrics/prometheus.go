package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ratings generator

var (
	// Download metrics
	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubelo_downloads_total",
			Help: "Total number of season file downloads",
		},
		[]string{"league", "status"},
	)

	DownloadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clubelo_download_duration_seconds",
			Help:    "Duration of season file downloads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"league"},
	)

	// Ingestion metrics
	RowsProcessed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clubelo_rows_processed",
			Help: "Number of rows turned into matches in the last run",
		},
	)

	RowsSkipped = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "clubelo_rows_skipped",
			Help: "Number of rows skipped in the last run",
		},
		[]string{"reason"},
	)

	UndatedMatches = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clubelo_undated_matches",
			Help: "Number of matches kept without a parseable date in the last run",
		},
	)

	UnmappedNames = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clubelo_unmapped_names",
			Help: "Number of distinct source names that did not resolve to a club",
		},
	)

	FilesFailed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clubelo_source_files_failed",
			Help: "Number of source files that could not be read in the last run",
		},
	)

	// Rating metrics
	ClubsRated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clubelo_clubs_rated",
			Help: "Number of clubs in the last snapshot",
		},
	)

	MatchesRated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clubelo_matches_rated",
			Help: "Number of matches in the last snapshot",
		},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubelo_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clubelo_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clubelo_db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clubelo_db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clubelo_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clubelo_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clubelo_cache_operation_duration_seconds",
			Help:    "Duration of cache operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// Pipeline metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubelo_runs_total",
			Help: "Total number of rating runs",
		},
		[]string{"trigger", "status"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clubelo_run_duration_seconds",
			Help:    "Duration of rating runs in seconds",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"trigger"},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clubelo_last_successful_run_timestamp",
			Help: "Timestamp of last successful rating run",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubelo_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clubelo_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordDownload records a season file download
func RecordDownload(league, status string, duration float64) {
	DownloadsTotal.WithLabelValues(league, status).Inc()
	DownloadDuration.WithLabelValues(league).Observe(duration)
}

// RecordIngestion updates the ingestion gauges of the last run
func RecordIngestion(processed, undated, failedFiles int, skipped map[string]int) {
	RowsProcessed.Set(float64(processed))
	UndatedMatches.Set(float64(undated))
	FilesFailed.Set(float64(failedFiles))
	RowsSkipped.Reset()
	for reason, n := range skipped {
		RowsSkipped.WithLabelValues(reason).Set(float64(n))
	}
}

// RecordSnapshot updates the snapshot size gauges
func RecordSnapshot(clubs, matches, unmapped int) {
	ClubsRated.Set(float64(clubs))
	MatchesRated.Set(float64(matches))
	UnmappedNames.Set(float64(unmapped))
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordCacheOperation records a cache operation duration
func RecordCacheOperation(operation string, duration float64) {
	CacheOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordRun records a rating run
func RecordRun(trigger, status string, duration float64) {
	RunsTotal.WithLabelValues(trigger, status).Inc()
	RunDuration.WithLabelValues(trigger).Observe(duration)

	if status == "success" {
		LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(active, idle int32) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
