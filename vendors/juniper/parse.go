package juniper

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/idjaw/netman/vendors/juniper/xmlengine"
)

// The structs below mirror the slice of the Junos schema Netman reads
// and writes: <vlans>, <interfaces> (ethernet-switching family plus
// aggregated-ether-options/ether-options for bonds), and
// <protocols><rstp>/<lldp>. Filters always request exactly this
// subtree, never the full configuration.

type configurationXML struct {
	XMLName    xml.Name    `xml:"configuration"`
	Vlans      vlansXML    `xml:"vlans"`
	Interfaces ifacesXML   `xml:"interfaces"`
	Protocols  protocolsXML `xml:"protocols"`
}

type vlansXML struct {
	Vlan []vlanXML `xml:"vlan"`
}

type vlanXML struct {
	Name        string `xml:"name"`
	VlanID      int    `xml:"vlan-id"`
	L3Interface string `xml:"l3-interface"`
}

type ifacesXML struct {
	Interface []interfaceXML `xml:"interface"`
}

type interfaceXML struct {
	Name                   string              `xml:"name"`
	AggregatedEtherOptions *aggregatedOptsXML  `xml:"aggregated-ether-options"`
	EtherOptions           *etherOptionsXML    `xml:"ether-options"`
	Unit                   []unitXML           `xml:"unit"`
}

type aggregatedOptsXML struct {
	LACP *struct {
		Active   *struct{} `xml:"active"`
		Periodic string    `xml:"periodic"`
	} `xml:"lacp"`
	LinkSpeed string `xml:"link-speed"`
}

type etherOptionsXML struct {
	IEEE8023ad *ieee8023adXML `xml:"ieee-802.3ad"`
	Speed      *struct {
		Ethernet string `xml:",any"`
	} `xml:"speed"`
}

type ieee8023adXML struct {
	Bundle string `xml:"bundle"`
}

type unitXML struct {
	Name        string      `xml:"name"`
	Disable     *struct{}   `xml:"disable"`
	Description string      `xml:"description"`
	Family      familyXML   `xml:"family"`
}

type familyXML struct {
	EthernetSwitching *ethernetSwitchingXML `xml:"ethernet-switching"`
	Inet              *inetXML              `xml:"inet"`
}

type ethernetSwitchingXML struct {
	PortMode     string   `xml:"port-mode"`
	Members      []string `xml:"vlan>members"`
	NativeVlanID *int     `xml:"native-vlan-id"`
}

type inetXML struct {
	Address []struct {
		Name string `xml:"name"`
	} `xml:"address"`
	FilterIn  string `xml:"filter>input"`
	FilterOut string `xml:"filter>output"`
}

type protocolsXML struct {
	RSTP rstpXML `xml:"rstp"`
	LLDP lldpXML `xml:"lldp"`
}

type rstpXML struct {
	Interface []rstpInterfaceXML `xml:"interface"`
}

type rstpInterfaceXML struct {
	Name       string    `xml:"name"`
	Edge       *struct{} `xml:"edge"`
	NoRootPort *struct{} `xml:"no-root-port"`
}

type lldpXML struct {
	Interface []lldpInterfaceXML `xml:"interface"`
}

type lldpInterfaceXML struct {
	Name    string    `xml:"name"`
	Disable *struct{} `xml:"disable"`
}

// state is the parsed, in-memory view of a filtered configuration
// fetch, convenient to both the read operations and the mutation
// operations that need to compute a delta against current state.
type state struct {
	vlans      map[int]vlanXML   // by vlan-id
	vlansByName map[string]int   // name -> vlan-id
	interfaces map[string]interfaceXML
	rstp       map[string]rstpInterfaceXML
	lldp       map[string]lldpInterfaceXML
}

func parseConfiguration(raw []byte) (*state, error) {
	var cfg configurationXML
	if err := xml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	st := &state{
		vlans:       make(map[int]vlanXML),
		vlansByName: make(map[string]int),
		interfaces:  make(map[string]interfaceXML),
		rstp:        make(map[string]rstpInterfaceXML),
		lldp:        make(map[string]lldpInterfaceXML),
	}
	for _, v := range cfg.Vlans.Vlan {
		st.vlans[v.VlanID] = v
		st.vlansByName[v.Name] = v.VlanID
	}
	for _, i := range cfg.Interfaces.Interface {
		st.interfaces[i.Name] = i
	}
	for _, r := range cfg.Protocols.RSTP.Interface {
		st.rstp[r.Name] = r
	}
	for _, l := range cfg.Protocols.LLDP.Interface {
		st.lldp[l.Name] = l
	}
	return st, nil
}

// resolver builds an xmlengine.Resolver bound to this state's vlan
// name table.
func (s *state) resolver() xmlengine.Resolver {
	return func(name string) (int, bool) {
		id, ok := s.vlansByName[name]
		return id, ok
	}
}

// unit0 returns the interface's unit named "0" (or unnamed), falling
// back to its first unit when there is none (Netman interfaces are
// always modeled at unit granularity 0 — switching only; routed
// sub-interfaces are out of scope).
func (i interfaceXML) unit0() (unitXML, bool) {
	for _, u := range i.Unit {
		if u.Name == "0" || u.Name == "" {
			return u, true
		}
	}
	if len(i.Unit) > 0 {
		return i.Unit[0], true
	}
	return unitXML{}, false
}

func (u unitXML) tokens() []xmlengine.Token {
	if u.Family.EthernetSwitching == nil {
		return nil
	}
	toks := make([]xmlengine.Token, 0, len(u.Family.EthernetSwitching.Members))
	for _, m := range u.Family.EthernetSwitching.Members {
		toks = append(toks, xmlengine.ParseToken(m))
	}
	return toks
}

func (u unitXML) portMode() string {
	if u.Family.EthernetSwitching == nil {
		return ""
	}
	return u.Family.EthernetSwitching.PortMode
}

func (u unitXML) nativeVlan() (int, bool) {
	if u.Family.EthernetSwitching == nil || u.Family.EthernetSwitching.NativeVlanID == nil {
		return 0, false
	}
	return *u.Family.EthernetSwitching.NativeVlanID, true
}

func parseVlanID(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}
