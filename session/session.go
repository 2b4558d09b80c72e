package session

import (
	"sync"
	"time"

	"github.com/idjaw/netman/core"
)

// State is a Session's position in the lifecycle state machine:
// Opening -> Holding -> InTransaction -> Holding -> Closed.
// Expiry may interrupt any non-Closed state.
type State string

const (
	StateOpening      State = "opening"
	StateHolding      State = "holding"
	StateInTransaction State = "in_transaction"
	StateClosed       State = "closed"
)

// Session is the manager's record for one open client session. Calls
// against a single Session are totally ordered by its own mutex: all
// calls within a single session are serialized by the session's own
// lock.
type Session struct {
	ID         string
	Identity   core.SwitchIdentity
	Descriptor core.SwitchDescriptor
	Driver     *core.Transactional

	// callMu serializes calls (withLock); mu guards state and
	// lastTouched, so those stay readable while a call is running.
	callMu sync.Mutex

	mu          sync.Mutex
	state       State
	lastTouched time.Time
}

func newSession(id string, desc core.SwitchDescriptor, driver *core.Transactional) *Session {
	return &Session{
		ID:          id,
		Identity:    desc.Identity(),
		Descriptor:  desc,
		Driver:      driver,
		state:       StateHolding,
		lastTouched: time.Now(),
	}
}

// touch resets the inactivity clock. Called on every action and every
// semantic operation routed to this session.
func (s *Session) touch() {
	s.mu.Lock()
	s.lastTouched = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastTouched)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// withLock serializes a call against this session's own ordering: a
// client issuing two concurrent calls on the same session observes
// them in arrival order of this function's invocation.
func (s *Session) withLock(fn func() error) error {
	s.callMu.Lock()
	defer s.callMu.Unlock()
	return fn()
}
