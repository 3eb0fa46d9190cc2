// Package metrics provides Prometheus instrumentation for faqd.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "faqd"

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	// EmbeddingRequests counts calls to the embedding provider.
	// Labels: model, result (success, error)
	EmbeddingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "requests_total",
			Help:      "Total number of embedding provider requests",
		},
		[]string{"model", "result"},
	)

	// EmbeddingDuration tracks embedding provider latency.
	EmbeddingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "request_duration_seconds",
			Help:      "Duration of embedding provider requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	// EntryOperations counts entry store operations.
	// Labels: operation (list, get, create, update, delete), result (success, error)
	EntryOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "entries",
			Name:      "operations_total",
			Help:      "Total number of faq entry operations",
		},
		[]string{"operation", "result"},
	)

	// ArchiveRequests counts document archive calls.
	// Labels: backend, operation (list, metadata, content), result (success, error)
	ArchiveRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "requests_total",
			Help:      "Total number of document archive requests",
		},
		[]string{"backend", "operation", "result"},
	)

	// ContentResolutions counts resolved archive payloads by kind (structured, opaque).
	ContentResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "content_resolutions_total",
			Help:      "Total number of archive payloads resolved, by content kind",
		},
		[]string{"kind"},
	)
)

// Result maps an error to a result label value.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// ObserveEmbedding records one embedding provider call.
func ObserveEmbedding(model string, start time.Time, err error) {
	EmbeddingDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	EmbeddingRequests.WithLabelValues(model, Result(err)).Inc()
}

// ObserveEntryOperation records one entry store operation.
func ObserveEntryOperation(operation string, err error) {
	EntryOperations.WithLabelValues(operation, Result(err)).Inc()
}

// ObserveArchiveRequest records one archive call.
func ObserveArchiveRequest(backend, operation string, err error) {
	ArchiveRequests.WithLabelValues(backend, operation, Result(err)).Inc()
}
