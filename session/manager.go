// Package session implements the session and transaction manager: it
// serializes concurrent client access to each physical switch,
// coordinates the transactional envelope around a vendor driver, and
// enforces per-session inactivity timeouts.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/idjaw/netman/core"
	"github.com/idjaw/netman/metrics"
)

// Manager owns every open Session and the per-switch fair lock table.
type Manager struct {
	registry *core.Registry
	log      *slog.Logger
	metrics  *metrics.Collector

	inactivityTimeout time.Duration
	pollInterval      time.Duration

	locks *lockTable

	mu         sync.Mutex
	sessions   map[string]*Session
	byHostname map[string]string

	stop   chan struct{}
	closed sync.Once
}

// NewManager builds a Manager. inactivityTimeout is the duration a
// session may go untouched before it is forcibly closed.
func NewManager(registry *core.Registry, inactivityTimeout time.Duration, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		registry:          registry,
		log:               log,
		inactivityTimeout: inactivityTimeout,
		pollInterval:      inactivityTimeout / 4,
		locks:             newLockTable(),
		sessions:          make(map[string]*Session),
		byHostname:        make(map[string]string),
		stop:              make(chan struct{}),
	}
	if m.pollInterval <= 0 {
		m.pollInterval = 250 * time.Millisecond
	}
	go m.expireLoop()
	return m
}

// WithMetrics attaches a Collector that Manager reports session and
// transaction counts to. Passing nil disables instrumentation.
func (m *Manager) WithMetrics(c *metrics.Collector) *Manager {
	m.metrics = c
	return m
}

// Shutdown force-closes every open session and stops the inactivity
// poller.
func (m *Manager) Shutdown(ctx context.Context) {
	m.closed.Do(func() { close(m.stop) })

	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.forceClose(ctx, id, "process shutdown")
	}
}

// Open acquires the exclusive lock for descriptor's switch identity —
// blocking other openers until the holder closes — instantiates a
// driver for its model, and registers it under id. If id is empty,
// Manager mints one with uuid. Opening with an id that already names
// a live session is rejected, mirroring the HTTP surface's
// POST /switches-sessions/{id} addressing its session explicitly by
// client-chosen identifier.
func (m *Manager) Open(ctx context.Context, id string, desc core.SwitchDescriptor) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	if _, exists := m.sessions[id]; exists {
		m.mu.Unlock()
		return "", core.New(core.KindOperationNotCompleted, "session "+id+" is already open")
	}
	m.mu.Unlock()

	identity := desc.Identity()
	lock := m.locks.get(identity)

	waitStart := time.Now()
	if err := lock.acquire(ctx); err != nil {
		return "", core.New(core.KindUnavailable, "timed out waiting for switch lock: "+err.Error())
	}
	if m.metrics != nil {
		m.metrics.ObserveLockWait(desc.Model, time.Since(waitStart).Seconds())
	}

	driver, err := m.registry.New(desc)
	if err != nil {
		lock.release()
		return "", core.New(core.KindUnknownSwitch, err.Error())
	}
	wrapped := core.NewTransactional(driver)
	if err := wrapped.Connect(ctx); err != nil {
		lock.release()
		return "", core.New(core.KindUnavailable, "could not connect to switch: "+err.Error())
	}

	sess := newSession(id, desc, wrapped)

	m.mu.Lock()
	m.sessions[id] = sess
	m.byHostname[desc.Hostname] = id
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SessionOpened(desc.Model)
	}
	m.log.Info("session opened", "session_id", id, "model", desc.Model, "hostname", desc.Hostname)
	return id, nil
}

// lookup returns the session for id, or SessionExpired if it no
// longer exists (already closed or expired).
func (m *Manager) lookup(id string) (*Session, error) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, core.New(core.KindSessionExpired, "session "+id+" is not open")
	}
	return sess, nil
}

// Descriptor returns the switch descriptor of the session open for
// hostname, for callers (e.g. the diagnostics transport) that need
// its credentials outside the Driver contract.
func (m *Manager) Descriptor(hostname string) (core.SwitchDescriptor, error) {
	m.mu.Lock()
	id, ok := m.byHostname[hostname]
	var sess *Session
	if ok {
		sess, ok = m.sessions[id]
	}
	m.mu.Unlock()
	if !ok {
		return core.SwitchDescriptor{}, core.New(core.KindUnknownSwitch, "no open session for switch "+hostname)
	}
	return sess.Descriptor, nil
}

// LookupByHostname resolves the session currently held open for
// hostname.
func (m *Manager) LookupByHostname(hostname string) (string, error) {
	m.mu.Lock()
	id, ok := m.byHostname[hostname]
	m.mu.Unlock()
	if !ok {
		return "", core.New(core.KindUnknownSwitch, "no open session for switch "+hostname)
	}
	return id, nil
}

// Touch resets id's inactivity clock. Called on every action and
// every semantic operation routed through Invoke.
func (m *Manager) Touch(id string) error {
	sess, err := m.lookup(id)
	if err != nil {
		return err
	}
	sess.touch()
	return nil
}

// Invoke runs fn against id's driver, first verifying the session is
// live and touching its inactivity clock. Calls on the same session
// are serialized by the session's own lock. A *core.Error surfacing
// from fn is recorded against the session's vendor model before it is
// returned to the caller.
func (m *Manager) Invoke(ctx context.Context, id string, fn func(*core.Transactional) error) error {
	sess, err := m.lookup(id)
	if err != nil {
		return err
	}
	sess.touch()
	err = sess.withLock(func() error { return fn(sess.Driver) })
	if m.metrics != nil {
		if e, ok := err.(*core.Error); ok {
			m.metrics.DriverError(sess.Identity.Model, string(e.Kind))
		}
	}
	return err
}

// StartTransaction marks id InTransaction and starts the candidate
// lock via the driver's transactional wrapper.
func (m *Manager) StartTransaction(ctx context.Context, id string) error {
	sess, err := m.lookup(id)
	if err != nil {
		return err
	}
	sess.touch()
	return sess.withLock(func() error {
		if err := sess.Driver.StartTransaction(ctx); err != nil {
			return err
		}
		sess.setState(StateInTransaction)
		return nil
	})
}

// Commit pushes the candidate atomically and returns the session to
// Holding.
func (m *Manager) Commit(ctx context.Context, id string) error {
	sess, err := m.lookup(id)
	if err != nil {
		return err
	}
	sess.touch()
	return sess.withLock(func() error {
		err := sess.Driver.CommitTransaction(ctx)
		sess.setState(StateHolding)
		if m.metrics != nil {
			if err != nil {
				m.metrics.TransactionEnded("failed")
			} else {
				m.metrics.TransactionEnded("committed")
			}
		}
		return err
	})
}

// Rollback discards the candidate and returns the session to Holding.
func (m *Manager) Rollback(ctx context.Context, id string) error {
	sess, err := m.lookup(id)
	if err != nil {
		return err
	}
	sess.touch()
	return sess.withLock(func() error {
		err := sess.Driver.RollbackTransaction(ctx)
		sess.setState(StateHolding)
		if m.metrics != nil {
			m.metrics.TransactionEnded("rolled_back")
		}
		return err
	})
}

// EndTransaction releases the candidate-config lock without closing
// the session.
func (m *Manager) EndTransaction(ctx context.Context, id string) error {
	sess, err := m.lookup(id)
	if err != nil {
		return err
	}
	sess.touch()
	return sess.withLock(func() error {
		err := sess.Driver.EndTransaction(ctx)
		sess.setState(StateHolding)
		return err
	})
}

// Close releases id's switch lock. If the session is still in a
// transaction, it rolls back first.
func (m *Manager) Close(ctx context.Context, id string) error {
	sess, err := m.lookup(id)
	if err != nil {
		return err
	}
	m.teardown(ctx, sess, "explicit")
	return nil
}

// forceClose is the expiry/shutdown path: unlike Close it never
// returns an error that a client observes — failures are logged, the
// session record is always removed.
func (m *Manager) forceClose(ctx context.Context, id, reason string) {
	sess, err := m.lookup(id)
	if err != nil {
		return
	}
	m.log.Warn("force-closing session", "session_id", id, "reason", reason)
	m.teardown(ctx, sess, reason)
}

// teardown performs the rollback + end_transaction + unlock +
// delete-record sequence common to both Close and forceClose. Driver
// errors are logged but never prevent the session record from being
// removed or the lock from being released.
func (m *Manager) teardown(ctx context.Context, sess *Session, reason string) {
	_ = sess.withLock(func() error {
		if sess.State() == StateInTransaction {
			if err := sess.Driver.RollbackTransaction(ctx); err != nil {
				m.log.Error("rollback on close failed", "session_id", sess.ID, "error", err)
			}
		}
		if err := sess.Driver.EndTransaction(ctx); err != nil {
			m.log.Error("end_transaction on close failed", "session_id", sess.ID, "error", err)
		}
		if err := sess.Driver.Disconnect(ctx); err != nil {
			m.log.Error("disconnect on close failed", "session_id", sess.ID, "error", err)
		}
		return nil
	})

	m.mu.Lock()
	delete(m.sessions, sess.ID)
	if m.byHostname[sess.Identity.Hostname] == sess.ID {
		delete(m.byHostname, sess.Identity.Hostname)
	}
	m.mu.Unlock()

	m.locks.get(sess.Identity).release()
	if m.metrics != nil {
		m.metrics.SessionClosed(sess.Identity.Model, reason)
	}
	m.log.Info("session closed", "session_id", sess.ID)
}

// expireLoop is the single background scheduler that polls
// last_touched.
func (m *Manager) expireLoop() {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.expireOnce()
		}
	}
}

func (m *Manager) expireOnce() {
	m.mu.Lock()
	expired := make([]string, 0)
	for id, sess := range m.sessions {
		if sess.idleSince() >= m.inactivityTimeout {
			expired = append(expired, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		m.forceClose(context.Background(), id, "inactivity timeout")
	}
}

// Summary is a point-in-time snapshot of an open session, used by the
// admin diagnostics surface.
type Summary struct {
	ID       string
	Model    string
	Hostname string
	State    State
	IdleFor  time.Duration
}

// Summaries lists every currently open session.
func (m *Manager) Summaries() []Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Summary, 0, len(m.sessions))
	for _, sess := range m.sessions {
		out = append(out, Summary{
			ID:       sess.ID,
			Model:    sess.Identity.Model,
			Hostname: sess.Identity.Hostname,
			State:    sess.State(),
			IdleFor:  sess.idleSince(),
		})
	}
	return out
}
