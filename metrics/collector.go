// Package metrics defines Netman's Prometheus instrumentation: a
// struct of metric vectors built by a constructor that registers
// against a caller-supplied prometheus.Registerer, with narrow
// methods hiding label plumbing from callers.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "netman"
)

// Label names shared across Netman's metric vectors.
const (
	labelHostname = "hostname"
	labelModel    = "model"
	labelOutcome  = "outcome"
)

// Collector holds every Prometheus metric Netman exposes.
type Collector struct {
	// OpenSessions tracks currently open switch sessions.
	OpenSessions *prometheus.GaugeVec

	// SessionsOpenedTotal counts session opens, labeled by vendor model.
	SessionsOpenedTotal *prometheus.CounterVec

	// SessionsClosedTotal counts session closes, labeled by reason
	// (explicit close, inactivity timeout, process shutdown).
	SessionsClosedTotal *prometheus.CounterVec

	// TransactionsTotal counts ended transactions, labeled by outcome
	// (committed, failed, rolled_back).
	TransactionsTotal *prometheus.CounterVec

	// DriverErrorsTotal counts vendor RPC failures, labeled by model
	// and the classified core.Kind.
	DriverErrorsTotal *prometheus.CounterVec

	// LockWaitSeconds observes how long a session Open call waited to
	// acquire a switch's fair lock.
	LockWaitSeconds *prometheus.HistogramVec
}

// NewCollector builds a Collector and registers its metrics against
// reg. If reg is nil, prometheus.DefaultRegisterer is used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()

	reg.MustRegister(
		c.OpenSessions,
		c.SessionsOpenedTotal,
		c.SessionsClosedTotal,
		c.TransactionsTotal,
		c.DriverErrorsTotal,
		c.LockWaitSeconds,
	)

	return c
}

func newMetrics() *Collector {
	return &Collector{
		OpenSessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_sessions",
			Help:      "Number of currently open switch sessions.",
		}, []string{labelModel}),

		SessionsOpenedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_opened_total",
			Help:      "Total switch sessions opened.",
		}, []string{labelModel}),

		SessionsClosedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_closed_total",
			Help:      "Total switch sessions closed, labeled by reason (explicit, inactivity timeout, process shutdown).",
		}, []string{"reason"}),

		TransactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Total transactions ended, labeled by outcome (committed, failed, rolled_back).",
		}, []string{labelOutcome}),

		DriverErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "driver_errors_total",
			Help:      "Total vendor driver errors, labeled by model and classified kind.",
		}, []string{labelModel, "kind"}),

		LockWaitSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting to acquire a switch's exclusive lock before a session could open.",
			Buckets:   prometheus.DefBuckets,
		}, []string{labelModel}),
	}
}

// SessionOpened records a successful session open for model.
func (c *Collector) SessionOpened(model string) {
	c.OpenSessions.WithLabelValues(model).Inc()
	c.SessionsOpenedTotal.WithLabelValues(model).Inc()
}

// SessionClosed records a session close for model, labeled by reason
// (the session manager passes "explicit", "inactivity timeout" or
// "process shutdown").
func (c *Collector) SessionClosed(model, reason string) {
	c.OpenSessions.WithLabelValues(model).Dec()
	c.SessionsClosedTotal.WithLabelValues(reason).Inc()
}

// TransactionEnded records a transaction outcome ("committed",
// "failed" or "rolled_back").
func (c *Collector) TransactionEnded(outcome string) {
	c.TransactionsTotal.WithLabelValues(outcome).Inc()
}

// DriverError records a classified vendor error for model.
func (c *Collector) DriverError(model, kind string) {
	c.DriverErrorsTotal.WithLabelValues(model, kind).Inc()
}

// ObserveLockWait records how long a session waited on a switch lock
// before opening.
func (c *Collector) ObserveLockWait(model string, seconds float64) {
	c.LockWaitSeconds.WithLabelValues(model).Observe(seconds)
}
