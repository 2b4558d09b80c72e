package diagnostics

import (
	"context"
	"fmt"
	"time"

	gnmipb "github.com/openconfig/gnmi/proto/gnmi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/idjaw/netman/core"
)

// GNMIProbe checks reachability on vendors that expose streaming
// telemetry by dialing once and calling Capabilities as a
// connectivity check; that single RPC doubles as the health probe
// itself, without holding the connection open.
type GNMIProbe struct {
	Port    int
	Timeout time.Duration
}

func (p GNMIProbe) Probe(ctx context.Context, desc core.SwitchDescriptor) Health {
	port := p.Port
	if port == 0 {
		port = 9339
	}
	timeout := p.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := fmt.Sprintf("%s:%d", desc.Hostname, port)
	conn, err := grpc.DialContext(dialCtx, target, //nolint:staticcheck
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(), //nolint:staticcheck
	)
	if err != nil {
		return Health{Hostname: desc.Hostname, Reachable: false, Error: err.Error()}
	}
	defer conn.Close()

	client := gnmipb.NewGNMIClient(conn)
	capCtx, capCancel := context.WithTimeout(ctx, timeout)
	defer capCancel()

	if _, err := client.Capabilities(capCtx, &gnmipb.CapabilityRequest{}); err != nil {
		return Health{Hostname: desc.Hostname, Reachable: false, Error: err.Error()}
	}
	return Health{Hostname: desc.Hostname, Reachable: true}
}
