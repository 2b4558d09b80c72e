package xmlengine

import "fmt"

// RenderAddBond builds the interface create leaf for add_bond(n):
// aggregated-ether-options with active LACP and slow periodic.
func RenderAddBond(bondName string) string {
	return fmt.Sprintf(`<interface><name>%s</name><aggregated-ether-options><lacp><active/><periodic>slow</periodic></lacp></aggregated-ether-options></interface>`, bondName)
}

// RenderRemoveBond builds the full remove_bond(n) delta: the bond
// interface delete, the RSTP entry for the bond if one exists, and
// the ieee-802.3ad block of every member interface.
func RenderRemoveBond(bondName string, hasRSTP bool, memberNames []string) []string {
	edits := []string{fmt.Sprintf(`<interface operation="delete"><name>%s</name></interface>`, bondName)}
	if hasRSTP {
		edits = append(edits, fmt.Sprintf(`<rstp><interface operation="delete"><name>%s</name></interface></rstp>`, bondName))
	}
	for _, member := range memberNames {
		edits = append(edits, fmt.Sprintf(`<interface><name>%s</name><ether-options><ieee-802.3ad operation="delete"/></ether-options></interface>`, member))
	}
	return edits
}

// RenderAddInterfaceToBond builds the replace-style member-join leaf:
// the member's ether-options point at the bond; if the bond carries a
// link speed the member also gets a matching speed leaf, and any
// existing RSTP entry on the member is deleted.
func RenderAddInterfaceToBond(ifName, bondName, linkSpeed string, hasMemberRSTP bool) []string {
	inner := fmt.Sprintf(`<ieee-802.3ad><bundle>%s</bundle></ieee-802.3ad>`, bondName)
	if linkSpeed != "" {
		inner += fmt.Sprintf(`<speed><ethernet-%s/></speed>`, linkSpeed)
	}
	edits := []string{fmt.Sprintf(`<interface operation="replace"><name>%s</name><ether-options>%s</ether-options></interface>`, ifName, inner)}
	if hasMemberRSTP {
		edits = append(edits, fmt.Sprintf(`<rstp><interface operation="delete"><name>%s</name></interface></rstp>`, ifName))
	}
	return edits
}

// RenderRemoveInterfaceFromBond deletes the member's 802.3ad binding.
func RenderRemoveInterfaceFromBond(ifName string) string {
	return fmt.Sprintf(`<interface><name>%s</name><ether-options><ieee-802.3ad operation="delete"/></ether-options></interface>`, ifName)
}
