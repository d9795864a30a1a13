package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Recorder backed by Prometheus. Collectors are
// registered lazily on first use.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	drawCompletions *prometheus.CounterVec
	drawFilled      prometheus.Histogram
	drawAttempts    prometheus.Histogram
	drawDuration    prometheus.Histogram
	manualEntries   *prometheus.CounterVec
	validations     *prometheus.CounterVec
	storeErrors     *prometheus.CounterVec
	staleReads      prometheus.Counter
}

var _ Recorder = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed recorder.
//
// reg defaults to prometheus.DefaultRegisterer and namespace to
// "gift_exchange".
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "gift_exchange"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.drawCompletions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "completions_total",
			Help:      "Total draw completion attempts by result (completed, infeasible).",
		}, []string{"result"})

		p.drawFilled = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "filled_givers",
			Help:      "Number of givers assigned by a single completion.",
			Buckets:   prometheus.LinearBuckets(1, 2, 10),
		})

		p.drawAttempts = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "search_steps",
			Help:      "Candidate placements tried by the backtracking search.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10), // 1 .. ~262k
		})

		p.drawDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "completion_seconds",
			Help:      "Time spent completing a draw in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		})

		p.manualEntries = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "manual_entries_total",
			Help:      "Manual entries by result (accepted or rejection code).",
		}, []string{"result"})

		p.validations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "validations_total",
			Help:      "Mapping validations by result (valid or violation code).",
		}, []string{"result"})

		p.storeErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "State store failures by operation (load, save).",
		}, []string{"op"})

		p.staleReads = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "store",
			Name:      "stale_reads_total",
			Help:      "Reads answered from the last known snapshot while the store was unavailable.",
		})

		p.reg.MustRegister(p.drawCompletions)
		p.reg.MustRegister(p.drawFilled)
		p.reg.MustRegister(p.drawAttempts)
		p.reg.MustRegister(p.drawDuration)
		p.reg.MustRegister(p.manualEntries)
		p.reg.MustRegister(p.validations)
		p.reg.MustRegister(p.storeErrors)
		p.reg.MustRegister(p.staleReads)
	})
}

// RecordDrawCompleted implements Recorder.
func (p *PrometheusCollector) RecordDrawCompleted(filled, attempts int, seconds float64) {
	p.ensureRegistered()
	p.drawCompletions.WithLabelValues("completed").Inc()
	p.drawFilled.Observe(float64(filled))
	p.drawAttempts.Observe(float64(attempts))
	p.drawDuration.Observe(seconds)
}

// RecordDrawInfeasible implements Recorder.
func (p *PrometheusCollector) RecordDrawInfeasible() {
	p.ensureRegistered()
	p.drawCompletions.WithLabelValues("infeasible").Inc()
}

// RecordManualEntry implements Recorder.
func (p *PrometheusCollector) RecordManualEntry(result string) {
	p.ensureRegistered()
	p.manualEntries.WithLabelValues(result).Inc()
}

// RecordValidation implements Recorder.
func (p *PrometheusCollector) RecordValidation(result string) {
	p.ensureRegistered()
	p.validations.WithLabelValues(result).Inc()
}

// RecordStoreError implements Recorder.
func (p *PrometheusCollector) RecordStoreError(op string) {
	p.ensureRegistered()
	p.storeErrors.WithLabelValues(op).Inc()
}

// RecordStaleRead implements Recorder.
func (p *PrometheusCollector) RecordStaleRead() {
	p.ensureRegistered()
	p.staleReads.Inc()
}
