// Package metrics holds the prometheus instrumentation of the sync and
// dispatch layers. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "govsync"

type Metrics struct {
	logChunks      *prometheus.CounterVec
	rangeFallbacks prometheus.Counter
	partialReads   *prometheus.CounterVec
	syncDuration   *prometheus.HistogramVec
	dispatched     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg when it is not nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		logChunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_chunks_total",
			Help:      "Chunked log queries by outcome.",
		}, []string{"outcome"}),
		rangeFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_range_fallbacks_total",
			Help:      "Full range log queries rejected by the provider and retried in chunks.",
		}),
		partialReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partial_read_failures_total",
			Help:      "Units skipped during aggregate reads.",
		}, []string{"component"}),
		syncDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Duration of synchronization passes.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10), //nolint:mnd
		}, []string{"target", "outcome"}),
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatched_actions_total",
			Help:      "Governance writes by action and outcome.",
		}, []string{"action", "outcome"}),
	}

	if reg != nil {
		reg.MustRegister(m.logChunks, m.rangeFallbacks, m.partialReads, m.syncDuration, m.dispatched)
	}

	return m
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}

	return "error"
}

func (m *Metrics) LogChunk(ok bool) {
	if m == nil {
		return
	}
	m.logChunks.WithLabelValues(outcome(ok)).Inc()
}

func (m *Metrics) RangeFallback() {
	if m == nil {
		return
	}
	m.rangeFallbacks.Inc()
}

func (m *Metrics) PartialRead(component string) {
	if m == nil {
		return
	}
	m.partialReads.WithLabelValues(component).Inc()
}

func (m *Metrics) SyncPass(target string, d time.Duration, ok bool) {
	if m == nil {
		return
	}
	m.syncDuration.WithLabelValues(target, outcome(ok)).Observe(d.Seconds())
}

// Dispatched records a write. outcome is one of "submitted", "reverted",
// "rejected" or "failed".
func (m *Metrics) Dispatched(action, result string) {
	if m == nil {
		return
	}
	m.dispatched.WithLabelValues(action, result).Inc()
}
