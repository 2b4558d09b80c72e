package juniper

import (
	"context"
	"strings"

	"github.com/idjaw/netman/core"
	"github.com/idjaw/netman/vendors/juniper/xmlengine"
)

// partitionEdits splits a mixed list of top-level fragments (as
// produced by xmlengine.RenderRemoveBond/RenderAddInterfaceToBond,
// which can emit both an <interface> leaf and an <rstp> leaf for the
// same logical operation) by which <configuration> subtree they
// belong under.
func partitionEdits(edits []string) (interfaces, protocols string) {
	var ifaceB, protoB strings.Builder
	for _, e := range edits {
		if strings.HasPrefix(e, "<rstp>") {
			protoB.WriteString(e)
		} else {
			ifaceB.WriteString(e)
		}
	}
	return ifaceB.String(), protoB.String()
}

func (d *Driver) AddBond(ctx context.Context, number int) error {
	st, err := d.fetchCandidate(ctx)
	if err != nil {
		return err
	}
	name := bondName(number)
	if _, exists := st.interfaces[name]; exists {
		return core.New(core.KindBondAlreadyExist, "bond "+itoa(number)+" already exists")
	}
	config := wrapConfig("", xmlengine.RenderAddBond(name), "")
	return d.applyEdit(ctx, config, name)
}

func (d *Driver) RemoveBond(ctx context.Context, number int) error {
	st, err := d.fetchCandidate(ctx)
	if err != nil {
		return err
	}
	name := bondName(number)
	if _, ok := st.interfaces[name]; !ok {
		return core.New(core.KindUnknownBond, "bond "+itoa(number)+" not found")
	}
	_, hasRSTP := st.rstp[name]

	var members []string
	for memberName, member := range st.interfaces {
		if member.EtherOptions != nil && member.EtherOptions.IEEE8023ad != nil && trimAE(member.EtherOptions.IEEE8023ad.Bundle) == trimAE(name) {
			members = append(members, memberName)
		}
	}

	edits := xmlengine.RenderRemoveBond(name, hasRSTP, members)
	ifaces, protocols := partitionEdits(edits)
	config := wrapConfig("", ifaces, protocols)
	return d.applyEdit(ctx, config, name)
}

func (d *Driver) AddInterfaceToBond(ctx context.Context, ifName string, bondNumber int) error {
	st, err := d.fetchCandidate(ctx)
	if err != nil {
		return err
	}
	name := bondName(bondNumber)
	bond, ok := st.interfaces[name]
	if !ok {
		return core.New(core.KindUnknownBond, "bond "+itoa(bondNumber)+" not found")
	}
	if _, ok := st.interfaces[ifName]; !ok {
		return core.New(core.KindUnknownInterface, "interface "+ifName+" not found")
	}
	var linkSpeed string
	if bond.AggregatedEtherOptions != nil {
		linkSpeed = bond.AggregatedEtherOptions.LinkSpeed
	}
	_, hasMemberRSTP := st.rstp[ifName]

	edits := xmlengine.RenderAddInterfaceToBond(ifName, name, linkSpeed, hasMemberRSTP)
	ifaces, protocols := partitionEdits(edits)
	config := wrapConfig("", ifaces, protocols)
	return d.applyEdit(ctx, config, ifName)
}

func (d *Driver) RemoveInterfaceFromBond(ctx context.Context, ifName string) error {
	if err := d.requireInterface(ctx, ifName); err != nil {
		return err
	}
	config := wrapConfig("", xmlengine.RenderRemoveInterfaceFromBond(ifName), "")
	return d.applyEdit(ctx, config, ifName)
}

func (d *Driver) SetBondLinkSpeed(ctx context.Context, number int, speed string) error {
	name := bondName(number)
	if err := d.requireInterface(ctx, name); err != nil {
		return core.Wrap(core.KindUnknownBond, "bond "+itoa(number)+" not found", err.Error())
	}
	config := wrapConfig("", `<interface><name>`+name+`</name><aggregated-ether-options><link-speed>`+speed+`</link-speed></aggregated-ether-options></interface>`, "")
	return d.applyEdit(ctx, config, name)
}

// Bond-level operations mirror the equivalent interface-level
// operation, called against the bond's synthetic interface name.

func (d *Driver) SetBondAccessMode(ctx context.Context, number int) error {
	return d.SetAccessMode(ctx, bondName(number))
}

func (d *Driver) SetBondTrunkMode(ctx context.Context, number int) error {
	return d.SetTrunkMode(ctx, bondName(number))
}

func (d *Driver) SetBondDescription(ctx context.Context, number int, text string) error {
	return d.SetInterfaceDescription(ctx, bondName(number), text)
}

func (d *Driver) RemoveBondDescription(ctx context.Context, number int) error {
	return d.RemoveInterfaceDescription(ctx, bondName(number))
}

func (d *Driver) AddBondTrunkVlan(ctx context.Context, number int, vlan int) error {
	return d.AddTrunkVlan(ctx, bondName(number), vlan)
}

func (d *Driver) RemoveBondTrunkVlan(ctx context.Context, number int, vlan int) error {
	return d.RemoveTrunkVlan(ctx, bondName(number), vlan)
}

func (d *Driver) ConfigureBondNativeVlan(ctx context.Context, number int, vlan int) error {
	return d.ConfigureNativeVlan(ctx, bondName(number), vlan)
}

func (d *Driver) RemoveBondNativeVlan(ctx context.Context, number int) error {
	return d.RemoveNativeVlan(ctx, bondName(number))
}

func (d *Driver) EditBondSpanningTree(ctx context.Context, number int, edge bool) error {
	return d.EditInterfaceSpanningTree(ctx, bondName(number), edge)
}
