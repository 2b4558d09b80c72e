// Package juniper binds Netman's driver contract to a real Junos
// device over NETCONF: it reads the running configuration, computes
// minimal edit-config deltas via vendors/juniper/xmlengine, and
// translates vendor RPC errors into Netman's closed taxonomy.
package juniper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/idjaw/netman/core"
	"github.com/idjaw/netman/netconf"
)

var _ core.Driver = (*Driver)(nil)

// Driver implements core.Driver against a single Junos switch.
type Driver struct {
	desc      core.SwitchDescriptor
	log       *slog.Logger
	transport *netconf.Transport
}

// NewDriver builds a Driver bound to desc. It does not connect —
// Connect is called by the session manager after the switch lock is
// acquired.
func NewDriver(desc core.SwitchDescriptor) core.Driver {
	return &Driver{
		desc: desc,
		// Per-switch-identity structured logging.
		log: slog.Default().With("model", desc.Model, "hostname", desc.Hostname),
	}
}

// Factory satisfies core.Factory for registration with core.Registry.
func Factory(desc core.SwitchDescriptor) core.Driver {
	return NewDriver(desc)
}

func (d *Driver) Connect(ctx context.Context) error {
	t, err := netconf.Dial(netconf.Config{
		Host:     d.desc.Hostname,
		Port:     d.desc.Port,
		Username: d.desc.Username,
		Password: d.desc.Password,
	})
	if err != nil {
		return err
	}
	d.transport = t
	d.log.Info("connected")
	return nil
}

// Disconnect is infallible by construction: the
// transport swallows close-session errors itself.
func (d *Driver) Disconnect(ctx context.Context) error {
	if d.transport != nil {
		d.transport.Close()
	}
	d.log.Info("disconnected")
	return nil
}

func (d *Driver) StartTransaction(ctx context.Context) error {
	_, errs, err := d.transport.Lock("candidate")
	if err != nil {
		return core.New(core.KindUnavailable, "lock failed: "+err.Error())
	}
	return classify(errs, "candidate lock")
}

func (d *Driver) EndTransaction(ctx context.Context) error {
	_, _, err := d.transport.Unlock("candidate")
	return err
}

func (d *Driver) CommitTransaction(ctx context.Context) error {
	_, errs, err := d.transport.Commit()
	if err != nil {
		return core.New(core.KindUnavailable, "commit failed: "+err.Error())
	}
	if e := classify(errs, "commit"); e != nil {
		return e
	}
	return nil
}

func (d *Driver) RollbackTransaction(ctx context.Context) error {
	_, _, err := d.transport.DiscardChanges()
	return err
}

func (d *Driver) applyEdit(ctx context.Context, config, context_ string) error {
	_, errs, err := d.transport.EditConfig(config)
	if err != nil {
		return core.New(core.KindUnavailable, "edit-config failed: "+err.Error())
	}
	return classify(errs, context_)
}

func bondName(number int) string {
	return fmt.Sprintf("ae%d", number)
}
