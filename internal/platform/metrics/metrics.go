package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes Prometheus collectors for ledger movements, generation
// units and insight cache behaviour. Its methods satisfy the telemetry ports
// declared by each context.
type Metrics struct {
	ledgerCredits    *prometheus.CounterVec
	ledgerRejections *prometheus.CounterVec
	unitOutcomes     *prometheus.CounterVec
	unitDuration     *prometheus.HistogramVec
	batchRejections  *prometheus.CounterVec
	insightLookups   *prometheus.CounterVec
	insightAnalyses  *prometheus.CounterVec
	registry         prometheus.Gatherer
}

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default returns the process-wide instance registered with the global registry.
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNew(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	})
	return shared
}

// MustNew registers collectors on reg. Tests pass a fresh registry.
func MustNew(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	m := &Metrics{
		ledgerCredits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voltic",
			Subsystem: "ledger",
			Name:      "credits_total",
			Help:      "Credits moved through the ledger by direction and transaction type.",
		}, []string{"direction", "type"}),
		ledgerRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voltic",
			Subsystem: "ledger",
			Name:      "rejections_total",
			Help:      "Debits rejected for insufficient credits.",
		}, []string{"type"}),
		unitOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voltic",
			Subsystem: "generation",
			Name:      "units_total",
			Help:      "Variation units by strategy and terminal status.",
		}, []string{"strategy", "status"}),
		unitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voltic",
			Subsystem: "generation",
			Name:      "unit_duration_seconds",
			Help:      "Wall time spent generating one variation unit.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"strategy", "status"}),
		batchRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voltic",
			Subsystem: "generation",
			Name:      "batch_rejections_total",
			Help:      "Batches rejected before any unit ran.",
		}, []string{"reason"}),
		insightLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voltic",
			Subsystem: "insight",
			Name:      "cache_lookups_total",
			Help:      "Insight cache lookups by result.",
		}, []string{"result"}),
		insightAnalyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voltic",
			Subsystem: "insight",
			Name:      "analyses_total",
			Help:      "Billed insight analyses by outcome.",
		}, []string{"outcome"}),
		registry: gatherer,
	}

	collectors := []prometheus.Collector{
		m.ledgerCredits,
		m.ledgerRejections,
		m.unitOutcomes,
		m.unitDuration,
		m.batchRejections,
		m.insightLookups,
		m.insightAnalyses,
	}
	for _, collector := range collectors {
		reg.MustRegister(collector)
	}
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CreditsDebited(txType string, amount int) {
	if m == nil {
		return
	}
	m.ledgerCredits.WithLabelValues("debit", txType).Add(float64(amount))
}

func (m *Metrics) CreditsReturned(txType string, amount int) {
	if m == nil {
		return
	}
	m.ledgerCredits.WithLabelValues("credit", txType).Add(float64(amount))
}

func (m *Metrics) DebitRejected(txType string) {
	if m == nil {
		return
	}
	m.ledgerRejections.WithLabelValues(txType).Inc()
}

func (m *Metrics) UnitFinished(strategy string, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.unitOutcomes.WithLabelValues(strategy, status).Inc()
	m.unitDuration.WithLabelValues(strategy, status).Observe(elapsed.Seconds())
}

func (m *Metrics) BatchRejected(reason string) {
	if m == nil {
		return
	}
	m.batchRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) InsightLookup(result string) {
	if m == nil {
		return
	}
	m.insightLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) InsightAnalyzed(outcome string) {
	if m == nil {
		return
	}
	m.insightAnalyses.WithLabelValues(outcome).Inc()
}
