package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveScan(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveScan("ok", 1200*time.Millisecond, 3)
	m.ObserveScan("ok", 800*time.Millisecond, 2)
	m.ObserveScan("unparseable", 500*time.Millisecond, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Scans.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Scans.WithLabelValues("unparseable")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.ScannedItems))
}

func TestNewReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := New(reg)
	second := New(reg)

	first.ObserveAccessCheck("granted")
	second.ObserveAccessCheck("granted")

	require.Same(t, first.AccessChecks, second.AccessChecks)
	assert.Equal(t, 2.0, testutil.ToFloat64(first.AccessChecks.WithLabelValues("granted")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveScan("ok", time.Second, 1)
		m.ObserveNotification("sent")
		m.ObserveCalculation()
		m.ObserveAccessCheck("denied")
	})
}
