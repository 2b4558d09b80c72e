package diagnostics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/idjaw/netman/core"
)

func TestSNMPProbeUnreachableHostReportsError(t *testing.T) {
	p := SNMPProbe{Timeout: 100 * time.Millisecond}
	// TEST-NET-1 (RFC 5737): guaranteed non-routable, so the probe
	// fails fast without needing a real network.
	h := p.Probe(context.Background(), core.SwitchDescriptor{Hostname: "192.0.2.1"})
	assert.Equal(t, "192.0.2.1", h.Hostname)
	assert.False(t, h.Reachable)
	assert.NotEmpty(t, h.Error)
}

func TestSNMPProbeZeroValueLeavesCommunityAndTimeoutUnset(t *testing.T) {
	p := SNMPProbe{}
	assert.Empty(t, p.Community)
	assert.Zero(t, p.Timeout)
}
