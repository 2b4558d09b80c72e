package juniper

import (
	"context"
	"sort"

	"github.com/idjaw/netman/core"
	"github.com/idjaw/netman/vendors/juniper/xmlengine"
)

// filterSubtree requests only the sub-trees Netman needs — never the full configuration.
const filterSubtree = `<configuration><vlans/><interfaces/><protocols><rstp/><lldp/></protocols></configuration>`

func (d *Driver) fetch(ctx context.Context, source string) (*state, error) {
	raw, errs, err := d.transport.GetConfig(source, filterSubtree)
	if err != nil {
		return nil, core.New(core.KindUnavailable, "get-config failed: "+err.Error())
	}
	if e := classify(errs, source+" configuration"); e != nil {
		return nil, e
	}
	return parseConfiguration(raw)
}

// fetchRunning is used by every read operation — reads always observe
// the running configuration.
func (d *Driver) fetchRunning(ctx context.Context) (*state, error) { return d.fetch(ctx, "running") }

// fetchCandidate is used by mutation operations computing a delta:
// within an open transaction the candidate may already carry prior
// uncommitted edits from the same session.
func (d *Driver) fetchCandidate(ctx context.Context) (*state, error) { return d.fetch(ctx, "candidate") }

func (d *Driver) GetVlans(ctx context.Context) ([]core.Vlan, error) {
	st, err := d.fetchRunning(ctx)
	if err != nil {
		return nil, err
	}
	vlans := make([]core.Vlan, 0, len(st.vlans))
	for id := range st.vlans {
		v, err := vlanFromState(st, id)
		if err != nil {
			return nil, err
		}
		vlans = append(vlans, v)
	}
	return vlans, nil
}

func (d *Driver) GetVlan(ctx context.Context, number int) (core.Vlan, error) {
	st, err := d.fetchRunning(ctx)
	if err != nil {
		return core.Vlan{}, err
	}
	return vlanFromState(st, number)
}

// vlanFromState resolves a vlan's l3-interface to its IP addresses and
// firewall filter bindings. The l3-interface may be any
// <family>.<unit> pair (vlan.N, irb.N, or an arbitrary family); when
// it cannot be resolved among the fetched interfaces, IPs is simply
// left empty rather than erroring.
func vlanFromState(st *state, number int) (core.Vlan, error) {
	entry, ok := st.vlans[number]
	if !ok {
		return core.Vlan{}, core.New(core.KindUnknownVlan, "vlan "+itoa(number)+" not found")
	}

	v := core.Vlan{Number: number, Name: entry.Name}

	l3, hasL3 := parseL3(entry.L3Interface)
	if !hasL3 {
		return v, nil
	}
	iface, ok := st.interfaces[l3.family]
	if !ok {
		return v, nil
	}
	var unit unitXML
	found := false
	for _, u := range iface.Unit {
		if u.Name == l3.unit {
			unit, found = u, true
			break
		}
	}
	if !found || unit.Family.Inet == nil {
		return v, nil
	}

	for _, addr := range unit.Family.Inet.Address {
		ip, prefix, ok := splitCIDR(addr.Name)
		if ok {
			v.IPs = append(v.IPs, core.IP{Address: ip, PrefixLen: prefix})
		}
	}
	v.AccessGroups = core.AccessGroups{In: unit.Family.Inet.FilterIn, Out: unit.Family.Inet.FilterOut}
	return v, nil
}

func (d *Driver) GetInterfaces(ctx context.Context) ([]core.Interface, error) {
	st, err := d.fetchRunning(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Interface, 0, len(st.interfaces))
	for name := range st.interfaces {
		iface, err := interfaceFromState(st, name)
		if err != nil {
			return nil, err
		}
		out = append(out, iface)
	}
	return out, nil
}

func (d *Driver) GetInterface(ctx context.Context, name string) (core.Interface, error) {
	st, err := d.fetchRunning(ctx)
	if err != nil {
		return core.Interface{}, err
	}
	return interfaceFromState(st, name)
}

func interfaceFromState(st *state, name string) (core.Interface, error) {
	ifc, ok := st.interfaces[name]
	if !ok {
		return core.Interface{}, core.New(core.KindUnknownInterface, "interface "+name+" not found")
	}

	result := core.Interface{Name: name}

	unit, hasUnit := ifc.unit0()
	if hasUnit {
		result.Shutdown = unit.Disable != nil
		result.Description = unit.Description

		switch unit.portMode() {
		case "access":
			result.PortMode = core.PortModeAccess
		case "trunk":
			result.PortMode = core.PortModeTrunk
		}

		toks := unit.tokens()
		if result.PortMode == core.PortModeAccess && len(toks) == 1 && toks[0].Kind == xmlengine.Literal {
			result.AccessVlan = toks[0].A
		}
		if result.PortMode == core.PortModeTrunk {
			seen := make(map[int]bool)
			add := func(v int) {
				if !seen[v] {
					seen[v] = true
					result.TrunkVlans = append(result.TrunkVlans, v)
				}
			}
			for _, t := range toks {
				switch t.Kind {
				case xmlengine.Literal:
					add(t.A)
				case xmlengine.Range:
					for v := t.A; v <= t.B; v++ {
						add(v)
					}
				}
			}
			sort.Ints(result.TrunkVlans)
		}
		if native, ok := unit.nativeVlan(); ok {
			result.TrunkNativeVlan = native
		}
	}

	if ifc.EtherOptions != nil && ifc.EtherOptions.IEEE8023ad != nil {
		result.PortMode = core.PortModeBondMember
		if n, ok := parseVlanID(trimAE(ifc.EtherOptions.IEEE8023ad.Bundle)); ok {
			result.BondMaster = n
		}
	}

	if rstp, ok := st.rstp[name]; ok {
		result.SpanningTree = core.SpanningTree{
			Edge:       rstp.Edge != nil,
			NoRootPort: rstp.NoRootPort != nil,
		}
	}
	if lldp, ok := st.lldp[name]; ok {
		result.LLDPEnabled = lldp.Disable == nil
	}

	return result, nil
}

func (d *Driver) GetBonds(ctx context.Context) ([]core.Bond, error) {
	st, err := d.fetchRunning(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Bond
	for name, ifc := range st.interfaces {
		if ifc.AggregatedEtherOptions == nil {
			continue
		}
		n, ok := parseVlanID(trimAE(name))
		if !ok {
			continue
		}
		b, err := bondFromState(st, n, name)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (d *Driver) GetBond(ctx context.Context, number int) (core.Bond, error) {
	st, err := d.fetchRunning(ctx)
	if err != nil {
		return core.Bond{}, err
	}
	name := bondName(number)
	if _, ok := st.interfaces[name]; !ok {
		return core.Bond{}, core.New(core.KindUnknownBond, "bond "+itoa(number)+" not found")
	}
	return bondFromState(st, number, name)
}

func bondFromState(st *state, number int, name string) (core.Bond, error) {
	iface, err := interfaceFromState(st, name)
	if err != nil {
		return core.Bond{}, err
	}
	b := core.Bond{Number: number, Interface: iface}
	if ifc, ok := st.interfaces[name]; ok && ifc.AggregatedEtherOptions != nil {
		b.LinkSpeed = ifc.AggregatedEtherOptions.LinkSpeed
	}
	for memberName, member := range st.interfaces {
		if member.EtherOptions != nil && member.EtherOptions.IEEE8023ad != nil && trimAE(member.EtherOptions.IEEE8023ad.Bundle) == trimAE(name) {
			b.Members = append(b.Members, memberName)
		}
	}
	return b, nil
}
