package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBackendMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBackendMetrics(reg)

	m.IncFallback("modify_cart")
	m.IncFallback("modify_cart")
	m.IncOutage("place_order")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.fallback.WithLabelValues("modify_cart")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.outage.WithLabelValues("place_order")))
}

func TestBackendMetricsNilSafe(t *testing.T) {
	var m *BackendMetrics
	assert.NotPanics(t, func() {
		m.IncFallback("get_cart")
		m.IncOutage("get_cart")
	})

	noop := NewBackendMetrics(nil)
	assert.NotPanics(t, func() {
		noop.IncFallback("")
	})
}
