package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultPartial = "partial"
)

var (
	ImportRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetvault_import_runs_total",
		Help: "Total import runs by result",
	}, []string{"result"})
	RecordsImported = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetvault_records_imported_total",
		Help: "Records upserted by imports, per category",
	}, []string{"category"})
	ImportSkippedLines = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tweetvault_import_skipped_lines_total",
		Help: "Unparsable JSONL lines skipped during imports",
	})
	ImportDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tweetvault_import_duration_seconds",
		Help:    "Import duration seconds",
		Buckets: prometheus.DefBuckets,
	})

	MediaFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetvault_media_fetch_total",
		Help: "Media fetches by result",
	}, []string{"result"})
	MediaFetchRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tweetvault_media_fetch_retries_total",
		Help: "Total media fetch retry attempts",
	})
	ArchiveRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetvault_archive_runs_total",
		Help: "Archive runs by result",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		ImportRuns, RecordsImported, ImportSkippedLines, ImportDuration,
		MediaFetches, MediaFetchRetries, ArchiveRuns,
	)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveImportDuration records a run duration
func ObserveImportDuration(start time.Time) {
	ImportDuration.Observe(time.Since(start).Seconds())
}

// IncMediaFetch counts one media fetch outcome.
func IncMediaFetch(ok bool) {
	if ok {
		MediaFetches.WithLabelValues(ResultSuccess).Inc()
		return
	}
	MediaFetches.WithLabelValues(ResultFailure).Inc()
}
