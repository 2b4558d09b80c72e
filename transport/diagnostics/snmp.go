// Package diagnostics implements Netman's read-only health route: an
// SNMP sysUpTime probe as a baseline reachability check, and a gNMI
// probe (a single Capabilities call) for vendors that expose streaming
// telemetry.
package diagnostics

import (
	"context"
	"fmt"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/idjaw/netman/core"
)

// Health is the supplemented diagnostics payload for one switch.
type Health struct {
	Hostname    string        `json:"hostname"`
	Reachable   bool          `json:"reachable"`
	SysUpTime   time.Duration `json:"sys_uptime,omitempty"`
	Error       string        `json:"error,omitempty"`
}

const oidSysUpTime = "1.3.6.1.2.1.1.3.0"

// SNMPProbe checks reachability via an SNMPv2c GET of sysUpTime.
// community defaults to "public" when empty.
type SNMPProbe struct {
	Community string
	Timeout   time.Duration
}

func (p SNMPProbe) Probe(ctx context.Context, desc core.SwitchDescriptor) Health {
	community := p.Community
	if community == "" {
		community = "public"
	}
	timeout := p.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	client := &gosnmp.GoSNMP{
		Target:    desc.Hostname,
		Port:      161,
		Community: community,
		Version:   gosnmp.Version2c,
		Timeout:   timeout,
		Retries:   1,
	}

	if err := client.Connect(); err != nil {
		return Health{Hostname: desc.Hostname, Reachable: false, Error: err.Error()}
	}
	defer client.Conn.Close()

	result, err := client.Get([]string{oidSysUpTime})
	if err != nil {
		return Health{Hostname: desc.Hostname, Reachable: false, Error: err.Error()}
	}
	if len(result.Variables) == 0 {
		return Health{Hostname: desc.Hostname, Reachable: false, Error: fmt.Sprintf("no result for OID %s", oidSysUpTime)}
	}

	ticks := gosnmp.ToBigInt(result.Variables[0].Value).Int64()
	return Health{
		Hostname:  desc.Hostname,
		Reachable: true,
		SysUpTime: time.Duration(ticks) * 10 * time.Millisecond,
	}
}
