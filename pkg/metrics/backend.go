package metrics

import "github.com/prometheus/client_golang/prometheus"

// BackendMetrics records degradation events for the dual-backend store path.
// A "fallback" is a logical operation recovered by the in-memory provider; an
// "outage" means both backends refused the same call.
type BackendMetrics struct {
	fallback *prometheus.CounterVec
	outage   *prometheus.CounterVec
}

// NewBackendMetrics registers the degradation counters on the provided
// registerer. A nil registerer yields a no-op recorder, which keeps tests and
// stub wiring quiet.
func NewBackendMetrics(reg prometheus.Registerer) *BackendMetrics {
	if reg == nil {
		return &BackendMetrics{}
	}
	fallback := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_fallback_total",
		Help: "Operations served by the in-memory fallback after a persistent store failure.",
	}, []string{"operation"})
	outage := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_outage_total",
		Help: "Operations that failed on both the persistent store and the fallback.",
	}, []string{"operation"})
	reg.MustRegister(fallback, outage)
	return &BackendMetrics{
		fallback: fallback,
		outage:   outage,
	}
}

// IncFallback counts a degraded result for the named operation.
func (b *BackendMetrics) IncFallback(operation string) {
	if b == nil || b.fallback == nil {
		return
	}
	b.fallback.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncOutage counts a dual-backend failure for the named operation.
func (b *BackendMetrics) IncOutage(operation string) {
	if b == nil || b.outage == nil {
		return
	}
	b.outage.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
