package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/idjaw/netman/core"
)

func TestNewSessionStartsHolding(t *testing.T) {
	s := newSession("id1", core.SwitchDescriptor{Model: "mock", Hostname: "sw1"}, nil)
	assert.Equal(t, StateHolding, s.State())
}

func TestSessionTouchResetsIdleTimer(t *testing.T) {
	s := newSession("id1", core.SwitchDescriptor{}, nil)
	s.lastTouched = time.Now().Add(-time.Hour)
	assert.Greater(t, s.idleSince(), 30*time.Minute)

	s.touch()
	assert.Less(t, s.idleSince(), time.Second)
}

func TestSessionSetState(t *testing.T) {
	s := newSession("id1", core.SwitchDescriptor{}, nil)
	s.setState(StateInTransaction)
	assert.Equal(t, StateInTransaction, s.State())
}

func TestSessionWithLockSerializesCalls(t *testing.T) {
	s := newSession("id1", core.SwitchDescriptor{}, nil)
	var n int
	done := make(chan struct{})
	const iterations = 100
	go func() {
		for i := 0; i < iterations; i++ {
			_ = s.withLock(func() error { n++; return nil })
		}
		close(done)
	}()
	for i := 0; i < iterations; i++ {
		_ = s.withLock(func() error { n++; return nil })
	}
	<-done
	assert.Equal(t, 2*iterations, n)
}
