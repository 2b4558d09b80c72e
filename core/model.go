// Package core defines Netman's vendor-neutral data model, the driver
// contract every vendor binding implements, and the transactional
// envelope and error taxonomy shared by all of them.
package core

import "fmt"

// SwitchDescriptor identifies a physical device and carries the
// credentials needed to reach it. Two descriptors with the same
// (Model, Hostname) refer to the same device for locking purposes.
type SwitchDescriptor struct {
	Model    string `json:"model" validate:"required"`
	Hostname string `json:"hostname" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Port     int    `json:"port,omitempty" validate:"omitempty,gt=0,lte=65535"`
}

// Identity returns the (model, hostname) pair used as the switch
// lock key and as the session-manager's switch-identity key.
func (d SwitchDescriptor) Identity() SwitchIdentity {
	return SwitchIdentity{Model: d.Model, Hostname: d.Hostname}
}

// SwitchIdentity is the comparable key two descriptors share when
// they name the same physical device.
type SwitchIdentity struct {
	Model    string
	Hostname string
}

func (i SwitchIdentity) String() string {
	return fmt.Sprintf("%s/%s", i.Model, i.Hostname)
}

// AccessGroups names the firewall filters bound to a vlan's
// l3-interface, by direction.
type AccessGroups struct {
	In  string `json:"in,omitempty"`
	Out string `json:"out,omitempty"`
}

// IP is an address/prefix-length pair carried on a vlan's l3-interface.
type IP struct {
	Address    string `json:"address"`
	PrefixLen  int    `json:"prefix_len"`
}

// Vlan is identified by Number; Name is descriptive only.
type Vlan struct {
	Number       int          `json:"number" validate:"required,gte=1,lte=4094"`
	Name         string       `json:"name,omitempty"`
	AccessGroups AccessGroups `json:"access_groups"`
	IPs          []IP         `json:"ips,omitempty"`
}

// PortMode is the switching mode of an Interface.
type PortMode string

const (
	PortModeUnset      PortMode = ""
	PortModeAccess     PortMode = "ACCESS"
	PortModeTrunk      PortMode = "TRUNK"
	PortModeBondMember PortMode = "BOND_MEMBER"
)

// SpanningTree carries the per-interface RSTP flags.
type SpanningTree struct {
	Edge        bool `json:"edge"`
	NoRootPort  bool `json:"no_root_port"`
}

// Interface is a single switch port or a bond's aggregate interface.
//
// Invariants (enforced by the driver, not this struct): if PortMode is
// ACCESS, TrunkNativeVlan and TrunkVlans are empty; if TRUNK,
// AccessVlan is zero; if BOND_MEMBER, BondMaster is set and no
// switching attribute applies.
type Interface struct {
	Name            string       `json:"name"`
	Shutdown        bool         `json:"shutdown"`
	PortMode        PortMode     `json:"port_mode"`
	AccessVlan      int          `json:"access_vlan,omitempty"`
	TrunkNativeVlan int          `json:"trunk_native_vlan,omitempty"`
	TrunkVlans      []int        `json:"trunk_vlans,omitempty"`
	BondMaster      int          `json:"bond_master,omitempty"`
	SpanningTree    SpanningTree `json:"spanning_tree"`
	LLDPEnabled     bool         `json:"lldp_enabled"`
	Description     string       `json:"description,omitempty"`
}

// Bond is a link-aggregation group. Its interface name is derived
// from Number via the vendor's naming convention (Juniper: ae<n>).
type Bond struct {
	Number    int      `json:"number" validate:"required,gte=1"`
	LinkSpeed string   `json:"link_speed,omitempty"`
	Members   []string `json:"members,omitempty"`
	Interface
}

// BondInterfaceName returns the vendor-specific name of a bond's
// aggregate interface.
func BondInterfaceName(model string, number int) string {
	switch model {
	case "juniper":
		return fmt.Sprintf("ae%d", number)
	default:
		return fmt.Sprintf("bond%d", number)
	}
}
