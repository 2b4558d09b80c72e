package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, vec.WithLabelValues(labels...).Write(m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, vec *prometheus.GaugeVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, vec.WithLabelValues(labels...).Write(m))
	return m.GetGauge().GetValue()
}

func TestNewCollectorRegistersAgainstGivenRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	// Vector metrics only appear in Gather once a label set exists.
	c.SessionOpened("juniper")
	c.DriverError("juniper", "UnknownVlan")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["netman_open_sessions"])
	assert.True(t, names["netman_sessions_opened_total"])
	assert.True(t, names["netman_driver_errors_total"])
	assert.NotNil(t, c)
}

func TestSessionOpenedAndClosedAdjustGauge(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.SessionOpened("juniper")
	assert.Equal(t, float64(1), gaugeValue(t, c.OpenSessions, "juniper"))
	assert.Equal(t, float64(1), counterValue(t, c.SessionsOpenedTotal, "juniper"))

	c.SessionClosed("juniper", "expired")
	assert.Equal(t, float64(0), gaugeValue(t, c.OpenSessions, "juniper"))
	assert.Equal(t, float64(1), counterValue(t, c.SessionsClosedTotal, "expired"))
}

func TestTransactionEndedLabelsByOutcome(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.TransactionEnded("committed")
	c.TransactionEnded("committed")
	c.TransactionEnded("rolled_back")

	assert.Equal(t, float64(2), counterValue(t, c.TransactionsTotal, "committed"))
	assert.Equal(t, float64(1), counterValue(t, c.TransactionsTotal, "rolled_back"))
}

func TestDriverErrorLabelsByModelAndKind(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.DriverError("juniper", "UnknownVlan")

	assert.Equal(t, float64(1), counterValue(t, c.DriverErrorsTotal, "juniper", "UnknownVlan"))
}

func TestObserveLockWaitRecordsSample(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.ObserveLockWait("juniper", 0.25)

	m := &dto.Metric{}
	require.NoError(t, c.LockWaitSeconds.WithLabelValues("juniper").Write(m))
	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
}
