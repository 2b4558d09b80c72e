package xmlengine

import (
	"errors"
	"fmt"
)

// ErrWrongPortMode is raised when an operation requires a port mode
// the interface is not currently in.
var ErrWrongPortMode = errors.New("xmlengine: interface is in the wrong port mode")

// ErrVlanInTrunk is raised when a vlan already appears in an
// interface's trunk membership and cannot also become its native
// vlan.
var ErrVlanInTrunk = errors.New("xmlengine: vlan already present in trunk membership")

// SetAccessMode computes the edit-config leaves for transitioning an
// interface to ACCESS, given its currently observed port mode and
// trunk-style attributes.
func SetAccessMode(portMode string, members []Token, hasNative bool) []string {
	switch portMode {
	case "access":
		return nil
	case "trunk":
		edits := []string{"<port-mode>access</port-mode>"}
		if len(members) > 0 {
			edits = append(edits, `<vlan operation="delete"/>`)
		}
		if hasNative {
			edits = append(edits, `<native-vlan-id operation="delete"/>`)
		}
		return edits
	default: // no explicit port-mode configured
		if len(members) <= 1 && !hasNative {
			return nil // already a bare access vlan; Junos defaults unset to access
		}
		var edits []string
		if len(members) > 0 {
			edits = append(edits, `<vlan operation="delete"/>`)
		}
		if hasNative {
			edits = append(edits, `<native-vlan-id operation="delete"/>`)
		}
		return edits
	}
}

// SetTrunkMode computes the edit-config leaves for transitioning an
// interface to TRUNK.
func SetTrunkMode(portMode string, members []Token) []string {
	if portMode == "trunk" {
		return nil
	}
	edits := []string{"<port-mode>trunk</port-mode>"}
	if len(members) > 0 {
		edits = append(edits, `<vlan operation="delete"/>`)
	}
	return edits
}

// SetAccessVlan computes the edit-config leaves to set an interface's
// single access vlan to v. Callers must verify v exists globally
// before calling (UnknownVlan is not this package's concern — it has
// no access to the global vlan list).
func SetAccessVlan(portMode string, members []Token, v int) ([]string, error) {
	if portMode == "trunk" {
		return nil, ErrWrongPortMode
	}

	alreadyOnlyV := len(members) == 1 && members[0].Kind == Literal && members[0].A == v

	var edits []string
	for _, m := range members {
		edits = append(edits, fmt.Sprintf(`<members operation="delete">%s</members>`, m.String()))
	}
	edits = append(edits, fmt.Sprintf("<members>%d</members>", v))

	if portMode == "" && !alreadyOnlyV {
		edits = append(edits, "<port-mode>access</port-mode>")
	}
	return edits, nil
}

// RemoveAccessVlan deletes the single current access-vlan member
// token. Callers must verify an access vlan is currently set
// (AccessVlanNotSet otherwise).
func RemoveAccessVlan(current Token) []string {
	return []string{fmt.Sprintf(`<members operation="delete">%s</members>`, current.String())}
}

// ConfigureNativeVlan computes the edit-config leaves to set v as an
// interface's native vlan. Requires TRUNK or unset (unset implicitly
// becomes TRUNK); rejects v already present in trunk membership.
func ConfigureNativeVlan(portMode string, members []Token, v int, resolve Resolver) ([]string, error) {
	if portMode == "access" {
		return nil, ErrWrongPortMode
	}
	for _, m := range members {
		if contains(m, v, resolve) {
			return nil, ErrVlanInTrunk
		}
	}
	var edits []string
	if portMode == "" {
		edits = append(edits, "<port-mode>trunk</port-mode>")
	}
	edits = append(edits, fmt.Sprintf("<native-vlan-id>%d</native-vlan-id>", v))
	return edits, nil
}

// RemoveNativeVlan deletes the native-vlan-id leaf. Callers must
// verify a native vlan is currently set (NativeVlanNotSet otherwise).
func RemoveNativeVlan() []string {
	return []string{`<native-vlan-id operation="delete"/>`}
}

// AddTrunkVlan adds v to an interface's trunk membership. Requires
// TRUNK mode.
func AddTrunkVlan(portMode string, v int) ([]string, error) {
	if portMode != "trunk" {
		return nil, ErrWrongPortMode
	}
	return []string{fmt.Sprintf("<members>%d</members>", v)}, nil
}

// RemoveTrunkVlan removes v from an interface's trunk membership
// using the full range-split algebra of Remove. Requires TRUNK mode.
func RemoveTrunkVlan(portMode string, members []Token, v int, resolve Resolver) ([]string, error) {
	if portMode != "trunk" {
		return nil, ErrWrongPortMode
	}
	removal, err := Remove(members, v, resolve)
	if err != nil {
		return nil, err
	}
	return renderRemoval(removal), nil
}

// renderRemoval turns a Removal into the <members> edit leaves:
// deletes first (by original token text), then any re-added
// sub-ranges.
func renderRemoval(r Removal) []string {
	var edits []string
	for _, d := range r.Deletes {
		edits = append(edits, fmt.Sprintf(`<members operation="delete">%s</members>`, d.String()))
	}
	for _, a := range r.Adds {
		edits = append(edits, fmt.Sprintf("<members>%s</members>", a.String()))
	}
	return edits
}
