package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "visiflow_ingest_"

var (
	registerOnce sync.Once

	recordsTotal    *prometheus.CounterVec
	recordFailures  *prometheus.CounterVec
	batchLatency    prometheus.Histogram
	archiveFailures prometheus.Counter
)

// Init registers ingestion metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		recordsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "records_total",
				Help: "Processed records by result",
			},
			[]string{"result"},
		)
		recordFailures = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "record_failures_total",
				Help: "Rejected records by failing step",
			},
			[]string{"step"},
		)
		batchLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "batch_latency_seconds",
				Help:    "Batch processing latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)
		archiveFailures = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "archive_failures_total",
				Help: "Records that could not be written to the lake sink",
			},
		)

		prometheus.MustRegister(recordsTotal, recordFailures, batchLatency, archiveFailures)
	})
}

// IncRecord counts one processed record by result.
func IncRecord(result string) {
	if recordsTotal != nil {
		recordsTotal.WithLabelValues(result).Inc()
	}
}

// IncFailure counts one rejection by failing step.
func IncFailure(step string) {
	if recordFailures != nil {
		recordFailures.WithLabelValues(step).Inc()
	}
}

// ObserveBatch records one batch's processing latency.
func ObserveBatch(d time.Duration) {
	if batchLatency != nil {
		batchLatency.Observe(d.Seconds())
	}
}

// IncArchiveFailure counts one failed lake write.
func IncArchiveFailure() {
	if archiveFailures != nil {
		archiveFailures.Inc()
	}
}

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
