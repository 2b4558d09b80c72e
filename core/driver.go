package core

import "context"

// Driver is the capability set every vendor binding implements. The
// session manager talks to a switch exclusively through this
// interface; the transactional wrapper decorates it without changing
// its shape.
type Driver interface {
	// Transaction lifecycle.
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	StartTransaction(ctx context.Context) error
	EndTransaction(ctx context.Context) error
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error

	// Reads always observe the running configuration, never the
	// candidate, and never require a transaction.
	GetVlans(ctx context.Context) ([]Vlan, error)
	GetVlan(ctx context.Context, number int) (Vlan, error)
	GetInterfaces(ctx context.Context) ([]Interface, error)
	GetInterface(ctx context.Context, name string) (Interface, error)
	GetBonds(ctx context.Context) ([]Bond, error)
	GetBond(ctx context.Context, number int) (Bond, error)

	// Mutations. All must be issued inside a transaction.
	AddVlan(ctx context.Context, number int, name string) error
	RemoveVlan(ctx context.Context, number int) error

	SetAccessMode(ctx context.Context, ifName string) error
	SetTrunkMode(ctx context.Context, ifName string) error
	SetAccessVlan(ctx context.Context, ifName string, number int) error
	RemoveAccessVlan(ctx context.Context, ifName string) error
	ConfigureNativeVlan(ctx context.Context, ifName string, number int) error
	RemoveNativeVlan(ctx context.Context, ifName string) error
	AddTrunkVlan(ctx context.Context, ifName string, number int) error
	RemoveTrunkVlan(ctx context.Context, ifName string, number int) error

	SetInterfaceDescription(ctx context.Context, ifName, text string) error
	RemoveInterfaceDescription(ctx context.Context, ifName string) error
	EditInterfaceSpanningTree(ctx context.Context, ifName string, edge bool) error
	OpenupInterface(ctx context.Context, ifName string) error
	ShutdownInterface(ctx context.Context, ifName string) error
	EnableLLDP(ctx context.Context, ifName string, enabled bool) error

	AddBond(ctx context.Context, number int) error
	RemoveBond(ctx context.Context, number int) error
	AddInterfaceToBond(ctx context.Context, ifName string, number int) error
	RemoveInterfaceFromBond(ctx context.Context, ifName string) error
	SetBondLinkSpeed(ctx context.Context, number int, speed string) error

	// Bond mirrors: every operation above that applies to a switching
	// interface also applies to a bond's aggregate interface, via
	// BondInterfaceName. Drivers implement these as a pure delegation
	// to the interface-level method against the bond's synthetic name.
	SetBondAccessMode(ctx context.Context, number int) error
	SetBondTrunkMode(ctx context.Context, number int) error
	SetBondDescription(ctx context.Context, number int, text string) error
	RemoveBondDescription(ctx context.Context, number int) error
	AddBondTrunkVlan(ctx context.Context, number, vlan int) error
	RemoveBondTrunkVlan(ctx context.Context, number, vlan int) error
	ConfigureBondNativeVlan(ctx context.Context, number, vlan int) error
	RemoveBondNativeVlan(ctx context.Context, number int) error
	EditBondSpanningTree(ctx context.Context, number int, edge bool) error
}

// Factory builds a Driver bound to a specific switch descriptor. The
// registry maps a model name to its Factory.
type Factory func(desc SwitchDescriptor) Driver
