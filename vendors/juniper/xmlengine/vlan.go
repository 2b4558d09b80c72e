package xmlengine

import (
	"fmt"
	"strings"
)

// L3Interface is a vlan's l3-interface reference, e.g. "vlan.25" or
// "irb.25": an arbitrary family name followed by a unit number.
type L3Interface struct {
	Family string
	Unit   string
}

// ParseL3Interface splits "family.unit" on the last dot. ok is false
// if raw does not contain a dot.
func ParseL3Interface(raw string) (L3Interface, bool) {
	idx := strings.LastIndexByte(raw, '.')
	if idx < 0 {
		return L3Interface{}, false
	}
	return L3Interface{Family: raw[:idx], Unit: raw[idx+1:]}, true
}

// RenderVlanDelete builds the <vlan operation="delete"> leaf for
// remove_vlan.
func RenderVlanDelete(name string) string {
	return fmt.Sprintf(`<vlan operation="delete"><name>%s</name></vlan>`, escapeName(name))
}

// RenderVlanAdd builds the <vlan> leaf for add_vlan.
func RenderVlanAdd(number int, name string) string {
	if name == "" {
		name = fmt.Sprintf("VLAN%d", number)
	}
	return fmt.Sprintf(`<vlan><name>%s</name><vlan-id>%d</vlan-id></vlan>`, escapeName(name), number)
}

// RenderL3InterfaceDelete builds the interface/unit delete leaf for a
// vlan's l3-interface.
func RenderL3InterfaceDelete(l3 L3Interface) string {
	return fmt.Sprintf(`<interface><name>%s</name><unit operation="delete"><name>%s</name></unit></interface>`, l3.Family, l3.Unit)
}

// InterfaceMemberDelta is the per-interface delta computed while
// cascading a vlan removal across every interface referencing it.
type InterfaceMemberDelta struct {
	InterfaceName string
	Edits         []string
}

// CascadeVlanRemoval computes the full edit set for remove_vlan(v):
// the vlan delete, the l3-interface delete if one was set, and the
// member deletes/re-adds for every interface whose membership
// touches v. vlanDelete belongs under
// <vlans>; l3Delete, if non-empty, belongs under <interfaces>
// alongside interfaceDeltas — they are different subtrees of the
// same edit-config document.
func CascadeVlanRemoval(vlanName string, l3 *L3Interface, members map[string][]Token, v int, resolve Resolver) (vlanDelete string, l3Delete string, interfaceDeltas []InterfaceMemberDelta, err error) {
	vlanDelete = RenderVlanDelete(vlanName)
	if l3 != nil {
		l3Delete = RenderL3InterfaceDelete(*l3)
	}

	for ifName, toks := range members {
		removal, rerr := Remove(toks, v, resolve)
		if rerr == ErrNotCovered {
			continue // this interface doesn't reference v at all
		}
		if rerr != nil {
			return "", "", nil, rerr
		}
		interfaceDeltas = append(interfaceDeltas, InterfaceMemberDelta{
			InterfaceName: ifName,
			Edits:         renderRemoval(removal),
		})
	}
	return vlanDelete, l3Delete, interfaceDeltas, nil
}

func escapeName(name string) string {
	// Junos vlan names are alphanumeric/dash/underscore by device
	// policy; strconv.Quote-free guard against stray XML metacharacters
	// reaching a hand-built document.
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(name)
}
