// Package metrics provides Prometheus metrics for observability.
// Metrics are organized by domain: HTTP requests, snapshot refresh cycles,
// and the snapshot currently being served.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "knowledge_hub"
)

var (
	// HTTP metrics - track request volume and latency
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Fetch metrics - track snapshot refresh cycles against the sheet
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "total",
			Help:      "Total number of sheet fetch cycles by result",
		},
		[]string{"result"},
	)

	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Sheet fetch cycle duration in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	RowsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "rows_rejected_total",
			Help:      "Total number of raw rows rejected during normalization by reason",
		},
		[]string{"reason"},
	)

	// Snapshot metrics - describe the snapshot currently being served
	SnapshotQuestions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "questions",
			Help:      "Number of questions in the snapshot currently served",
		},
	)

	SnapshotStale = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "stale",
			Help:      "1 when the served snapshot was restored from the cache, 0 otherwise",
		},
	)

	SnapshotFetchSeq = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "fetch_seq",
			Help:      "Fetch sequence number of the snapshot currently served",
		},
	)
)

// Fetch cycle results.
const (
	FetchResultSuccess    = "success"
	FetchResultFailure    = "failure"
	FetchResultSuperseded = "superseded"
)

// ObserveFetch records a completed fetch cycle.
func ObserveFetch(result string, duration time.Duration) {
	FetchesTotal.WithLabelValues(result).Inc()
	FetchDuration.Observe(duration.Seconds())
}

// ObserveSnapshot records the snapshot that just became current.
func ObserveSnapshot(questions int, fetchSeq uint64, stale bool) {
	SnapshotQuestions.Set(float64(questions))
	SnapshotFetchSeq.Set(float64(fetchSeq))
	if stale {
		SnapshotStale.Set(1)
	} else {
		SnapshotStale.Set(0)
	}
}

// Timer is a helper for measuring operation duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer starting now
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time since the timer was created
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(time.Since(t.start).Seconds())
}
