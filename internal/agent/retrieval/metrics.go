package retrieval

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for retrieval tools. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	QueriesTotal   *prometheus.CounterVec   // Successful retrievals per tool
	ErrorsTotal    *prometheus.CounterVec   // Failed retrievals per tool
	FragmentsTotal *prometheus.CounterVec   // Fragments handed to the model per tool
	Latency        *prometheus.HistogramVec // Retrieval latency per tool
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
}

// NewMetrics creates retrieval metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rfpagents_retrieval_queries_total",
			Help: "Total number of successful retrieval tool calls",
		}, []string{"tool"}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rfpagents_retrieval_errors_total",
			Help: "Total number of failed retrieval tool calls",
		}, []string{"tool"}),
		FragmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rfpagents_retrieval_fragments_total",
			Help: "Total number of fragments returned to agents",
		}, []string{"tool"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rfpagents_retrieval_duration_seconds",
			Help:    "Retrieval latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rfpagents_retrieval_cache_hits_total",
			Help: "Retrievals answered from the cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rfpagents_retrieval_cache_misses_total",
			Help: "Retrievals that went to the corpus",
		}),
	}

	reg.MustRegister(m.QueriesTotal)
	reg.MustRegister(m.ErrorsTotal)
	reg.MustRegister(m.FragmentsTotal)
	reg.MustRegister(m.Latency)
	reg.MustRegister(m.CacheHits)
	reg.MustRegister(m.CacheMisses)

	return m
}

func (m *Metrics) recordQuery(tool string, fragments int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(tool).Inc()
	m.FragmentsTotal.WithLabelValues(tool).Add(float64(fragments))
	m.Latency.WithLabelValues(tool).Observe(elapsed.Seconds())
}

func (m *Metrics) recordError(tool string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(tool).Inc()
}

func (m *Metrics) recordCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}
