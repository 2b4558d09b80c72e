package juniper

import (
	"context"
	"fmt"
	"strings"

	"github.com/idjaw/netman/core"
	"github.com/idjaw/netman/vendors/juniper/xmlengine"
)

// wrapConfig assembles the top-level <configuration> document from
// whichever subtree fragments an operation touched. Empty sections
// are omitted rather than sent as empty elements.
func wrapConfig(vlans, interfaces, protocols string) string {
	var b strings.Builder
	b.WriteString("<configuration>")
	if vlans != "" {
		b.WriteString("<vlans>")
		b.WriteString(vlans)
		b.WriteString("</vlans>")
	}
	if interfaces != "" {
		b.WriteString("<interfaces>")
		b.WriteString(interfaces)
		b.WriteString("</interfaces>")
	}
	if protocols != "" {
		b.WriteString("<protocols>")
		b.WriteString(protocols)
		b.WriteString("</protocols>")
	}
	b.WriteString("</configuration>")
	return b.String()
}

// wrapInterfaceUnitSwitching wraps family edits for one interface's
// unit 0 ethernet-switching stanza into an <interfaces> fragment.
func wrapInterfaceUnitSwitching(ifName string, edits []string) string {
	return fmt.Sprintf(`<interface><name>%s</name><unit><name>0</name><family><ethernet-switching>%s</ethernet-switching></family></unit></interface>`,
		ifName, strings.Join(edits, ""))
}

func wrapInterfaceLeaf(ifName string, leaf string) string {
	return fmt.Sprintf(`<interface><name>%s</name>%s</interface>`, ifName, leaf)
}

func (d *Driver) AddVlan(ctx context.Context, number int, name string) error {
	st, err := d.fetchCandidate(ctx)
	if err != nil {
		return err
	}
	if _, exists := st.vlans[number]; exists {
		return core.New(core.KindVlanAlreadyExist, fmt.Sprintf("vlan %d already exists", number))
	}
	config := wrapConfig(xmlengine.RenderVlanAdd(number, name), "", "")
	return d.applyEdit(ctx, config, fmt.Sprintf("vlan %d", number))
}

func (d *Driver) RemoveVlan(ctx context.Context, number int) error {
	st, err := d.fetchCandidate(ctx)
	if err != nil {
		return err
	}
	entry, ok := st.vlans[number]
	if !ok {
		return core.New(core.KindUnknownVlan, fmt.Sprintf("vlan %d not found", number))
	}

	var l3 *xmlengine.L3Interface
	if ref, has := parseL3(entry.L3Interface); has {
		l3 = &xmlengine.L3Interface{Family: ref.family, Unit: ref.unit}
	}

	members := make(map[string][]xmlengine.Token)
	for name, ifc := range st.interfaces {
		if unit, ok := ifc.unit0(); ok {
			if toks := unit.tokens(); len(toks) > 0 {
				members[name] = toks
			}
		}
	}

	vlanDelete, l3Delete, deltas, err := xmlengine.CascadeVlanRemoval(entry.Name, l3, members, number, st.resolver())
	if err != nil {
		return err
	}

	var ifaceFragments strings.Builder
	if l3Delete != "" {
		ifaceFragments.WriteString(l3Delete)
	}
	for _, delta := range deltas {
		ifaceFragments.WriteString(wrapInterfaceUnitSwitching(delta.InterfaceName, delta.Edits))
	}

	config := wrapConfig(vlanDelete, ifaceFragments.String(), "")
	return d.applyEdit(ctx, config, fmt.Sprintf("vlan %d", number))
}

func (d *Driver) SetAccessMode(ctx context.Context, ifName string) error {
	st, err := d.fetchCandidate(ctx)
	if err != nil {
		return err
	}
	unit, iface, err := d.lookupUnit(st, ifName)
	if err != nil {
		return err
	}
	_, hasNative := unit.nativeVlan()
	edits := xmlengine.SetAccessMode(unit.portMode(), unit.tokens(), hasNative)
	if len(edits) == 0 {
		return nil
	}
	_ = iface
	config := wrapConfig("", wrapInterfaceUnitSwitching(ifName, edits), "")
	return d.applyEdit(ctx, config, ifName)
}

func (d *Driver) SetTrunkMode(ctx context.Context, ifName string) error {
	st, err := d.fetchCandidate(ctx)
	if err != nil {
		return err
	}
	unit, _, err := d.lookupUnit(st, ifName)
	if err != nil {
		return err
	}
	edits := xmlengine.SetTrunkMode(unit.portMode(), unit.tokens())
	if len(edits) == 0 {
		return nil
	}
	config := wrapConfig("", wrapInterfaceUnitSwitching(ifName, edits), "")
	return d.applyEdit(ctx, config, ifName)
}

func (d *Driver) SetAccessVlan(ctx context.Context, ifName string, number int) error {
	st, err := d.fetchCandidate(ctx)
	if err != nil {
		return err
	}
	if _, ok := st.vlans[number]; !ok {
		return core.New(core.KindUnknownVlan, fmt.Sprintf("vlan %d not found", number))
	}
	unit, _, err := d.lookupUnit(st, ifName)
	if err != nil {
		return err
	}
	edits, xerr := xmlengine.SetAccessVlan(unit.portMode(), unit.tokens(), number)
	if xerr == xmlengine.ErrWrongPortMode {
		return core.New(core.KindInterfaceInWrongPortMode, fmt.Sprintf("interface %s is not in access-compatible mode", ifName))
	}
	config := wrapConfig("", wrapInterfaceUnitSwitching(ifName, edits), "")
	return d.applyEdit(ctx, config, ifName)
}

func (d *Driver) RemoveAccessVlan(ctx context.Context, ifName string) error {
	st, err := d.fetchCandidate(ctx)
	if err != nil {
		return err
	}
	unit, _, err := d.lookupUnit(st, ifName)
	if err != nil {
		return err
	}
	toks := unit.tokens()
	if len(toks) != 1 {
		return core.New(core.KindAccessVlanNotSet, fmt.Sprintf("interface %s has no access vlan set", ifName))
	}
	edits := xmlengine.RemoveAccessVlan(toks[0])
	config := wrapConfig("", wrapInterfaceUnitSwitching(ifName, edits), "")
	return d.applyEdit(ctx, config, ifName)
}

func (d *Driver) ConfigureNativeVlan(ctx context.Context, ifName string, number int) error {
	st, err := d.fetchCandidate(ctx)
	if err != nil {
		return err
	}
	if _, ok := st.vlans[number]; !ok {
		return core.New(core.KindUnknownVlan, fmt.Sprintf("vlan %d not found", number))
	}
	unit, _, err := d.lookupUnit(st, ifName)
	if err != nil {
		return err
	}
	edits, xerr := xmlengine.ConfigureNativeVlan(unit.portMode(), unit.tokens(), number, st.resolver())
	if xerr == xmlengine.ErrWrongPortMode {
		return core.New(core.KindInterfaceInWrongPortMode, fmt.Sprintf("interface %s is not trunk", ifName))
	}
	if xerr == xmlengine.ErrVlanInTrunk {
		return core.New(core.KindVlanAlreadyInTrunk, fmt.Sprintf("vlan %d is already a trunk member of %s", number, ifName))
	}
	config := wrapConfig("", wrapInterfaceUnitSwitching(ifName, edits), "")
	return d.applyEdit(ctx, config, ifName)
}

func (d *Driver) RemoveNativeVlan(ctx context.Context, ifName string) error {
	st, err := d.fetchCandidate(ctx)
	if err != nil {
		return err
	}
	unit, _, err := d.lookupUnit(st, ifName)
	if err != nil {
		return err
	}
	if _, ok := unit.nativeVlan(); !ok {
		return core.New(core.KindNativeVlanNotSet, fmt.Sprintf("interface %s has no native vlan set", ifName))
	}
	config := wrapConfig("", wrapInterfaceUnitSwitching(ifName, xmlengine.RemoveNativeVlan()), "")
	return d.applyEdit(ctx, config, ifName)
}

func (d *Driver) AddTrunkVlan(ctx context.Context, ifName string, number int) error {
	st, err := d.fetchCandidate(ctx)
	if err != nil {
		return err
	}
	if _, ok := st.vlans[number]; !ok {
		return core.New(core.KindUnknownVlan, fmt.Sprintf("vlan %d not found", number))
	}
	unit, _, err := d.lookupUnit(st, ifName)
	if err != nil {
		return err
	}
	edits, xerr := xmlengine.AddTrunkVlan(unit.portMode(), number)
	if xerr == xmlengine.ErrWrongPortMode {
		return core.New(core.KindInterfaceInWrongPortMode, fmt.Sprintf("interface %s is not trunk", ifName))
	}
	config := wrapConfig("", wrapInterfaceUnitSwitching(ifName, edits), "")
	return d.applyEdit(ctx, config, ifName)
}

func (d *Driver) RemoveTrunkVlan(ctx context.Context, ifName string, number int) error {
	st, err := d.fetchCandidate(ctx)
	if err != nil {
		return err
	}
	unit, _, err := d.lookupUnit(st, ifName)
	if err != nil {
		return err
	}
	edits, xerr := xmlengine.RemoveTrunkVlan(unit.portMode(), unit.tokens(), number, st.resolver())
	switch xerr {
	case nil:
	case xmlengine.ErrWrongPortMode:
		return core.New(core.KindInterfaceInWrongPortMode, fmt.Sprintf("interface %s is not trunk", ifName))
	case xmlengine.ErrNotCovered:
		return core.New(core.KindTrunkVlanNotSet, fmt.Sprintf("vlan %d is not a trunk member of %s", number, ifName))
	default:
		return xerr
	}
	config := wrapConfig("", wrapInterfaceUnitSwitching(ifName, edits), "")
	return d.applyEdit(ctx, config, ifName)
}

func (d *Driver) SetInterfaceDescription(ctx context.Context, ifName, text string) error {
	if err := d.requireInterface(ctx, ifName); err != nil {
		return err
	}
	config := wrapConfig("", wrapInterfaceLeaf(ifName, xmlengine.RenderDescription(text)), "")
	return d.applyEdit(ctx, config, ifName)
}

func (d *Driver) RemoveInterfaceDescription(ctx context.Context, ifName string) error {
	if err := d.requireInterface(ctx, ifName); err != nil {
		return err
	}
	config := wrapConfig("", wrapInterfaceLeaf(ifName, xmlengine.RenderDescriptionDelete()), "")
	return d.applyEdit(ctx, config, ifName)
}

func (d *Driver) EditInterfaceSpanningTree(ctx context.Context, ifName string, edge bool) error {
	if err := d.requireInterface(ctx, ifName); err != nil {
		return err
	}
	protocols := fmt.Sprintf("<rstp>%s</rstp>", xmlengine.RenderSpanningTree(ifName, edge))
	config := wrapConfig("", "", protocols)
	return d.applyEdit(ctx, config, ifName)
}

func (d *Driver) OpenupInterface(ctx context.Context, ifName string) error {
	if err := d.requireInterface(ctx, ifName); err != nil {
		return err
	}
	config := wrapConfig("", fmt.Sprintf(`<interface><name>%s</name><unit><name>0</name>%s</unit></interface>`, ifName, xmlengine.RenderShutdown(false)), "")
	return d.applyEdit(ctx, config, ifName)
}

func (d *Driver) ShutdownInterface(ctx context.Context, ifName string) error {
	if err := d.requireInterface(ctx, ifName); err != nil {
		return err
	}
	config := wrapConfig("", fmt.Sprintf(`<interface><name>%s</name><unit><name>0</name>%s</unit></interface>`, ifName, xmlengine.RenderShutdown(true)), "")
	return d.applyEdit(ctx, config, ifName)
}

func (d *Driver) EnableLLDP(ctx context.Context, ifName string, enabled bool) error {
	st, err := d.fetchCandidate(ctx)
	if err != nil {
		return err
	}
	if _, ok := st.interfaces[ifName]; !ok {
		return core.New(core.KindUnknownInterface, "interface "+ifName+" not found")
	}
	lldp, present := st.lldp[ifName]
	state := xmlengine.LLDPState{Present: present, Disabled: present && lldp.Disable != nil}
	leaf, changed := xmlengine.RenderLLDP(ifName, state, enabled)
	if !changed {
		return nil
	}
	config := wrapConfig("", "", leaf)
	return d.applyEdit(ctx, config, ifName)
}

// lookupUnit fetches an interface's switching unit, erroring
// UnknownInterface if the interface is absent altogether.
func (d *Driver) lookupUnit(st *state, ifName string) (unitXML, interfaceXML, error) {
	ifc, ok := st.interfaces[ifName]
	if !ok {
		return unitXML{}, interfaceXML{}, core.New(core.KindUnknownInterface, "interface "+ifName+" not found")
	}
	unit, _ := ifc.unit0()
	return unit, ifc, nil
}

func (d *Driver) requireInterface(ctx context.Context, ifName string) error {
	st, err := d.fetchCandidate(ctx)
	if err != nil {
		return err
	}
	if _, ok := st.interfaces[ifName]; !ok {
		return core.New(core.KindUnknownInterface, "interface "+ifName+" not found")
	}
	return nil
}
