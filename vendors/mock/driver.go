// Package mock implements an in-memory core.Driver for tests and
// demos, simulating a switch without connecting to real equipment: a
// mutex-guarded in-memory model plus a command history.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/idjaw/netman/core"
)

// Driver is a fully in-memory implementation of core.Driver. It never
// touches a network and never fails to connect; it exists so the
// session manager, xmlengine consumers, and HTTP layer can be
// exercised without a real switch.
type Driver struct {
	mu         sync.Mutex
	connected  bool
	inTxn      bool
	cmdHistory []string

	vlans      map[int]core.Vlan
	interfaces map[string]core.Interface
	bonds      map[int]core.Bond
}

// NewDriver builds an empty mock switch.
func NewDriver(desc core.SwitchDescriptor) core.Driver {
	return &Driver{
		vlans:      make(map[int]core.Vlan),
		interfaces: make(map[string]core.Interface),
		bonds:      make(map[int]core.Bond),
	}
}

// Factory satisfies core.Factory for registration with core.Registry.
func Factory(desc core.SwitchDescriptor) core.Driver { return NewDriver(desc) }

func (d *Driver) record(cmd string) { d.cmdHistory = append(d.cmdHistory, cmd) }

func (d *Driver) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = true
	d.record("connect")
	return nil
}

func (d *Driver) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = false
	d.record("disconnect")
	return nil
}

func (d *Driver) StartTransaction(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inTxn = true
	d.record("start-transaction")
	return nil
}

func (d *Driver) EndTransaction(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inTxn = false
	d.record("end-transaction")
	return nil
}

func (d *Driver) CommitTransaction(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("commit")
	return nil
}

func (d *Driver) RollbackTransaction(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("rollback")
	return nil
}

func (d *Driver) GetVlans(ctx context.Context) ([]core.Vlan, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]core.Vlan, 0, len(d.vlans))
	for _, v := range d.vlans {
		out = append(out, v)
	}
	return out, nil
}

func (d *Driver) GetVlan(ctx context.Context, number int) (core.Vlan, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.vlans[number]
	if !ok {
		return core.Vlan{}, core.New(core.KindUnknownVlan, fmt.Sprintf("vlan %d not found", number))
	}
	return v, nil
}

func (d *Driver) AddVlan(ctx context.Context, number int, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.vlans[number]; exists {
		return core.New(core.KindVlanAlreadyExist, fmt.Sprintf("vlan %d already exists", number))
	}
	if name == "" {
		name = fmt.Sprintf("VLAN%d", number)
	}
	d.vlans[number] = core.Vlan{Number: number, Name: name}
	d.record(fmt.Sprintf("add-vlan %d %s", number, name))
	return nil
}

func (d *Driver) RemoveVlan(ctx context.Context, number int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.vlans[number]; !ok {
		return core.New(core.KindUnknownVlan, fmt.Sprintf("vlan %d not found", number))
	}
	delete(d.vlans, number)
	for name, iface := range d.interfaces {
		iface.TrunkVlans = removeInt(iface.TrunkVlans, number)
		if iface.AccessVlan == number {
			iface.AccessVlan = 0
		}
		if iface.TrunkNativeVlan == number {
			iface.TrunkNativeVlan = 0
		}
		d.interfaces[name] = iface
	}
	d.record(fmt.Sprintf("remove-vlan %d", number))
	return nil
}

func removeInt(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func (d *Driver) GetInterfaces(ctx context.Context) ([]core.Interface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]core.Interface, 0, len(d.interfaces))
	for _, i := range d.interfaces {
		out = append(out, i)
	}
	return out, nil
}

func (d *Driver) GetInterface(ctx context.Context, name string) (core.Interface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	iface, ok := d.interfaces[name]
	if !ok {
		return core.Interface{}, core.New(core.KindUnknownInterface, "interface "+name+" not found")
	}
	return iface, nil
}

func (d *Driver) mutateInterface(name string, fn func(*core.Interface) error) error {
	iface, ok := d.interfaces[name]
	if !ok {
		iface = core.Interface{Name: name}
	}
	if err := fn(&iface); err != nil {
		return err
	}
	d.interfaces[name] = iface
	return nil
}

func (d *Driver) SetAccessMode(ctx context.Context, ifName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mutateInterface(ifName, func(i *core.Interface) error {
		i.PortMode = core.PortModeAccess
		i.TrunkVlans = nil
		i.TrunkNativeVlan = 0
		return nil
	})
}

func (d *Driver) SetTrunkMode(ctx context.Context, ifName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mutateInterface(ifName, func(i *core.Interface) error {
		i.PortMode = core.PortModeTrunk
		i.AccessVlan = 0
		return nil
	})
}

func (d *Driver) SetAccessVlan(ctx context.Context, ifName string, number int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.vlans[number]; !ok {
		return core.New(core.KindUnknownVlan, fmt.Sprintf("vlan %d not found", number))
	}
	return d.mutateInterface(ifName, func(i *core.Interface) error {
		if i.PortMode == core.PortModeTrunk {
			return core.New(core.KindInterfaceInWrongPortMode, ifName+" is trunk")
		}
		i.AccessVlan = number
		return nil
	})
}

func (d *Driver) RemoveAccessVlan(ctx context.Context, ifName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mutateInterface(ifName, func(i *core.Interface) error {
		if i.AccessVlan == 0 {
			return core.New(core.KindAccessVlanNotSet, ifName+" has no access vlan set")
		}
		i.AccessVlan = 0
		return nil
	})
}

func (d *Driver) ConfigureNativeVlan(ctx context.Context, ifName string, number int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.vlans[number]; !ok {
		return core.New(core.KindUnknownVlan, fmt.Sprintf("vlan %d not found", number))
	}
	return d.mutateInterface(ifName, func(i *core.Interface) error {
		if i.PortMode == core.PortModeAccess {
			return core.New(core.KindInterfaceInWrongPortMode, ifName+" is access")
		}
		for _, v := range i.TrunkVlans {
			if v == number {
				return core.New(core.KindVlanAlreadyInTrunk, fmt.Sprintf("vlan %d already trunked on %s", number, ifName))
			}
		}
		i.PortMode = core.PortModeTrunk
		i.TrunkNativeVlan = number
		return nil
	})
}

func (d *Driver) RemoveNativeVlan(ctx context.Context, ifName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mutateInterface(ifName, func(i *core.Interface) error {
		if i.TrunkNativeVlan == 0 {
			return core.New(core.KindNativeVlanNotSet, ifName+" has no native vlan set")
		}
		i.TrunkNativeVlan = 0
		return nil
	})
}

func (d *Driver) AddTrunkVlan(ctx context.Context, ifName string, number int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.vlans[number]; !ok {
		return core.New(core.KindUnknownVlan, fmt.Sprintf("vlan %d not found", number))
	}
	return d.mutateInterface(ifName, func(i *core.Interface) error {
		if i.PortMode != core.PortModeTrunk {
			return core.New(core.KindInterfaceInWrongPortMode, ifName+" is not trunk")
		}
		for _, v := range i.TrunkVlans {
			if v == number {
				return nil
			}
		}
		i.TrunkVlans = append(i.TrunkVlans, number)
		return nil
	})
}

func (d *Driver) RemoveTrunkVlan(ctx context.Context, ifName string, number int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mutateInterface(ifName, func(i *core.Interface) error {
		if i.PortMode != core.PortModeTrunk {
			return core.New(core.KindInterfaceInWrongPortMode, ifName+" is not trunk")
		}
		before := len(i.TrunkVlans)
		i.TrunkVlans = removeInt(i.TrunkVlans, number)
		if len(i.TrunkVlans) == before {
			return core.New(core.KindTrunkVlanNotSet, fmt.Sprintf("vlan %d not trunked on %s", number, ifName))
		}
		return nil
	})
}

func (d *Driver) SetInterfaceDescription(ctx context.Context, ifName, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mutateInterface(ifName, func(i *core.Interface) error { i.Description = text; return nil })
}

func (d *Driver) RemoveInterfaceDescription(ctx context.Context, ifName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mutateInterface(ifName, func(i *core.Interface) error { i.Description = ""; return nil })
}

func (d *Driver) EditInterfaceSpanningTree(ctx context.Context, ifName string, edge bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mutateInterface(ifName, func(i *core.Interface) error { i.SpanningTree.Edge = edge; return nil })
}

func (d *Driver) OpenupInterface(ctx context.Context, ifName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mutateInterface(ifName, func(i *core.Interface) error { i.Shutdown = false; return nil })
}

func (d *Driver) ShutdownInterface(ctx context.Context, ifName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mutateInterface(ifName, func(i *core.Interface) error { i.Shutdown = true; return nil })
}

func (d *Driver) EnableLLDP(ctx context.Context, ifName string, enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mutateInterface(ifName, func(i *core.Interface) error { i.LLDPEnabled = enabled; return nil })
}

func (d *Driver) GetBonds(ctx context.Context) ([]core.Bond, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]core.Bond, 0, len(d.bonds))
	for _, b := range d.bonds {
		out = append(out, b)
	}
	return out, nil
}

func (d *Driver) GetBond(ctx context.Context, number int) (core.Bond, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.bonds[number]
	if !ok {
		return core.Bond{}, core.New(core.KindUnknownBond, fmt.Sprintf("bond %d not found", number))
	}
	return b, nil
}

func (d *Driver) AddBond(ctx context.Context, number int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.bonds[number]; exists {
		return core.New(core.KindBondAlreadyExist, fmt.Sprintf("bond %d already exists", number))
	}
	name := core.BondInterfaceName("mock", number)
	d.bonds[number] = core.Bond{Number: number, Interface: core.Interface{Name: name}}
	d.record(fmt.Sprintf("add-bond %d", number))
	return nil
}

func (d *Driver) RemoveBond(ctx context.Context, number int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.bonds[number]
	if !ok {
		return core.New(core.KindUnknownBond, fmt.Sprintf("bond %d not found", number))
	}
	for _, member := range b.Members {
		if iface, ok := d.interfaces[member]; ok {
			iface.BondMaster = 0
			iface.PortMode = core.PortModeUnset
			d.interfaces[member] = iface
		}
	}
	delete(d.bonds, number)
	d.record(fmt.Sprintf("remove-bond %d", number))
	return nil
}

func (d *Driver) AddInterfaceToBond(ctx context.Context, ifName string, number int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.bonds[number]
	if !ok {
		return core.New(core.KindUnknownBond, fmt.Sprintf("bond %d not found", number))
	}
	if err := d.mutateInterface(ifName, func(i *core.Interface) error {
		i.PortMode = core.PortModeBondMember
		i.BondMaster = number
		return nil
	}); err != nil {
		return err
	}
	b.Members = append(b.Members, ifName)
	d.bonds[number] = b
	return nil
}

func (d *Driver) RemoveInterfaceFromBond(ctx context.Context, ifName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	iface, ok := d.interfaces[ifName]
	if !ok {
		return core.New(core.KindUnknownInterface, "interface "+ifName+" not found")
	}
	if iface.BondMaster == 0 {
		return core.New(core.KindInterfaceNotInBond, ifName+" is not a bond member")
	}
	b := d.bonds[iface.BondMaster]
	b.Members = removeString(b.Members, ifName)
	d.bonds[iface.BondMaster] = b
	iface.BondMaster = 0
	iface.PortMode = core.PortModeUnset
	d.interfaces[ifName] = iface
	return nil
}

func removeString(s []string, v string) []string {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func (d *Driver) SetBondLinkSpeed(ctx context.Context, number int, speed string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.bonds[number]
	if !ok {
		return core.New(core.KindUnknownBond, fmt.Sprintf("bond %d not found", number))
	}
	b.LinkSpeed = speed
	d.bonds[number] = b
	return nil
}

func (d *Driver) SetBondAccessMode(ctx context.Context, number int) error {
	return d.SetAccessMode(ctx, core.BondInterfaceName("mock", number))
}

func (d *Driver) SetBondTrunkMode(ctx context.Context, number int) error {
	return d.SetTrunkMode(ctx, core.BondInterfaceName("mock", number))
}

func (d *Driver) SetBondDescription(ctx context.Context, number int, text string) error {
	return d.SetInterfaceDescription(ctx, core.BondInterfaceName("mock", number), text)
}

func (d *Driver) RemoveBondDescription(ctx context.Context, number int) error {
	return d.RemoveInterfaceDescription(ctx, core.BondInterfaceName("mock", number))
}

func (d *Driver) AddBondTrunkVlan(ctx context.Context, number, vlan int) error {
	return d.AddTrunkVlan(ctx, core.BondInterfaceName("mock", number), vlan)
}

func (d *Driver) RemoveBondTrunkVlan(ctx context.Context, number, vlan int) error {
	return d.RemoveTrunkVlan(ctx, core.BondInterfaceName("mock", number), vlan)
}

func (d *Driver) ConfigureBondNativeVlan(ctx context.Context, number, vlan int) error {
	return d.ConfigureNativeVlan(ctx, core.BondInterfaceName("mock", number), vlan)
}

func (d *Driver) RemoveBondNativeVlan(ctx context.Context, number int) error {
	return d.RemoveNativeVlan(ctx, core.BondInterfaceName("mock", number))
}

func (d *Driver) EditBondSpanningTree(ctx context.Context, number int, edge bool) error {
	return d.EditInterfaceSpanningTree(ctx, core.BondInterfaceName("mock", number), edge)
}

var _ core.Driver = (*Driver)(nil)
