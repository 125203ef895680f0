// Package metrics exposes Prometheus collectors for the query pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "advisor"

// Query outcomes.
const (
	OutcomeAnswered       = "answered"
	OutcomeUnavailable    = "unavailable"
	OutcomeRetrievalError = "retrieval_error"
	OutcomeLLMError       = "llm_error"
	OutcomeEmptyAnswer    = "empty_answer"
)

// Recorder records query and index metrics into its own registry.
type Recorder struct {
	registry *prometheus.Registry

	queries       *prometheus.CounterVec
	queryDuration prometheus.Histogram
	indexChunks   prometheus.Gauge
	documents     prometheus.Gauge
	ready         prometheus.Gauge
}

// NewRecorder creates a recorder with a private registry that also carries the
// Go runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Recorder{
		registry: reg,
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Number of questions handled, by outcome",
		}, []string{"outcome"}),
		queryDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Time spent answering a question, including retrieval and generation",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		indexChunks: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_chunks",
			Help:      "Number of chunk vectors held by the vector index",
		}),
		documents: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_documents",
			Help:      "Number of documents loaded from the corpus",
		}),
		ready: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ready",
			Help:      "Whether the question-answering pipeline is ready (1) or unavailable (0)",
		}),
	}
}

// ObserveQuery records one handled question.
func (r *Recorder) ObserveQuery(outcome string, d time.Duration) {
	r.queries.WithLabelValues(outcome).Inc()
	r.queryDuration.Observe(d.Seconds())
}

// SetIndex records the corpus and index sizes.
func (r *Recorder) SetIndex(documents, chunks int) {
	r.documents.Set(float64(documents))
	r.indexChunks.Set(float64(chunks))
}

// SetReady records pipeline availability.
func (r *Recorder) SetReady(ready bool) {
	if ready {
		r.ready.Set(1)
		return
	}
	r.ready.Set(0)
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
