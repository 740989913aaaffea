// Package metrics holds the Prometheus collectors for ingestion and chat.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for pdfchat.
type Metrics struct {
	DocumentsIngested prometheus.Counter
	ChunksIndexed     prometheus.Counter
	ChunksSkipped     prometheus.Counter
	IngestDuration    prometheus.Histogram

	ChatRequests *prometheus.CounterVec
	ChatDuration prometheus.Histogram
}

// New creates and registers the collectors on the default registry.
// Registration happens once per process.
//
// Metrics:
//   - pdfchat_ingest_documents_total - documents indexed
//   - pdfchat_ingest_chunks_indexed_total - chunks written to the vector index
//   - pdfchat_ingest_chunks_skipped_total - chunks dropped because embedding failed
//   - pdfchat_ingest_duration_seconds - end-to-end ingestion time
//   - pdfchat_chat_requests_total{outcome} - questions by terminal state
//   - pdfchat_chat_duration_seconds - end-to-end answer time
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			DocumentsIngested: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "pdfchat",
				Subsystem: "ingest",
				Name:      "documents_total",
				Help:      "Total number of documents ingested",
			}),
			ChunksIndexed: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "pdfchat",
				Subsystem: "ingest",
				Name:      "chunks_indexed_total",
				Help:      "Total number of chunks written to the vector index",
			}),
			ChunksSkipped: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "pdfchat",
				Subsystem: "ingest",
				Name:      "chunks_skipped_total",
				Help:      "Total number of chunks skipped because no embedding was produced",
			}),
			IngestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Namespace: "pdfchat",
				Subsystem: "ingest",
				Name:      "duration_seconds",
				Help:      "Duration of document ingestion in seconds",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
			}),
			ChatRequests: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "pdfchat",
				Subsystem: "chat",
				Name:      "requests_total",
				Help:      "Total number of chat questions by outcome",
			}, []string{"outcome"}),
			ChatDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Namespace: "pdfchat",
				Subsystem: "chat",
				Name:      "duration_seconds",
				Help:      "Duration of chat requests in seconds",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 240},
			}),
		}
	})
	return globalMetrics
}

// Chat outcomes.
const (
	OutcomeAnswered      = "answered"
	OutcomeNotFound      = "not_found"
	OutcomeModelMismatch = "model_mismatch"
	OutcomeEmbedFailed   = "embed_failed"
	OutcomeRetrieveError = "retrieve_failed"
	OutcomeGenerateError = "generate_failed"
)

// The helpers below accept a nil receiver so callers may run without metrics.

// ObserveIngest records a finished ingestion.
func (m *Metrics) ObserveIngest(start time.Time, indexed, skipped int) {
	if m == nil {
		return
	}
	m.DocumentsIngested.Inc()
	m.ChunksIndexed.Add(float64(indexed))
	m.ChunksSkipped.Add(float64(skipped))
	m.IngestDuration.Observe(time.Since(start).Seconds())
}

// ObserveChat records a finished chat request.
func (m *Metrics) ObserveChat(start time.Time, outcome string) {
	if m == nil {
		return
	}
	m.ChatRequests.WithLabelValues(outcome).Inc()
	m.ChatDuration.Observe(time.Since(start).Seconds())
}
