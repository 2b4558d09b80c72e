// Package netman manages VLANs, interfaces, bonds and spanning-tree
// state across heterogeneous network switches through a single
// session/transaction API, fanning mutations out to the right vendor
// driver underneath.
package netman

import (
	"github.com/idjaw/netman/core"
	"github.com/idjaw/netman/vendors/cisco"
	"github.com/idjaw/netman/vendors/juniper"
	"github.com/idjaw/netman/vendors/mock"
)

// Re-exported so callers only ever need to import this package.
type (
	SwitchDescriptor = core.SwitchDescriptor
	SwitchIdentity    = core.SwitchIdentity
	Vlan              = core.Vlan
	Interface         = core.Interface
	Bond              = core.Bond
	AccessGroups      = core.AccessGroups
	IP                = core.IP
	SpanningTree      = core.SpanningTree
	PortMode          = core.PortMode
	Driver            = core.Driver
	Error             = core.Error
	Kind              = core.Kind
)

const (
	PortModeUnset      = core.PortModeUnset
	PortModeAccess     = core.PortModeAccess
	PortModeTrunk      = core.PortModeTrunk
	PortModeBondMember = core.PortModeBondMember
)

// Model names accepted by NewRegistry's built-in registrations.
const (
	ModelJuniper = "juniper"
	ModelCisco   = "cisco"
	ModelMock    = "mock"
)

// NewRegistry builds a core.Registry with every vendor driver Netman
// ships wired in. Callers needing a subset (or additional vendors) can
// build their own core.Registry directly instead.
func NewRegistry() *core.Registry {
	r := core.NewRegistry()
	r.Register(ModelJuniper, juniper.Factory)
	r.Register(ModelCisco, cisco.Factory)
	r.Register(ModelMock, mock.Factory)
	return r
}
