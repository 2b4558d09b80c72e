package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idjaw/netman/core"
)

func newTestDriver() *Driver {
	return NewDriver(core.SwitchDescriptor{Model: "mock", Hostname: "sw1"}).(*Driver)
}

func TestVlanLifecycle(t *testing.T) {
	d := newTestDriver()
	ctx := context.Background()

	require.NoError(t, d.AddVlan(ctx, 10, "ENG"))
	v, err := d.GetVlan(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "ENG", v.Name)

	err = d.AddVlan(ctx, 10, "DUP")
	assert.True(t, core.Is(err, core.KindVlanAlreadyExist))

	require.NoError(t, d.RemoveVlan(ctx, 10))
	_, err = d.GetVlan(ctx, 10)
	assert.True(t, core.Is(err, core.KindUnknownVlan))
}

func TestAddVlanDefaultsName(t *testing.T) {
	d := newTestDriver()
	require.NoError(t, d.AddVlan(context.Background(), 20, ""))
	v, err := d.GetVlan(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, "VLAN20", v.Name)
}

func TestRemoveVlanClearsInterfaceReferences(t *testing.T) {
	d := newTestDriver()
	ctx := context.Background()
	require.NoError(t, d.AddVlan(ctx, 10, "ENG"))
	require.NoError(t, d.SetTrunkMode(ctx, "ge-0/0/1"))
	require.NoError(t, d.AddTrunkVlan(ctx, "ge-0/0/1", 10))

	require.NoError(t, d.RemoveVlan(ctx, 10))

	iface, err := d.GetInterface(ctx, "ge-0/0/1")
	require.NoError(t, err)
	assert.NotContains(t, iface.TrunkVlans, 10)
}

func TestSetAccessVlanRejectsUnknownVlan(t *testing.T) {
	d := newTestDriver()
	err := d.SetAccessVlan(context.Background(), "ge-0/0/1", 99)
	assert.True(t, core.Is(err, core.KindUnknownVlan))
}

func TestSetAccessVlanRejectsTrunkInterface(t *testing.T) {
	d := newTestDriver()
	ctx := context.Background()
	require.NoError(t, d.AddVlan(ctx, 10, "ENG"))
	require.NoError(t, d.SetTrunkMode(ctx, "ge-0/0/1"))

	err := d.SetAccessVlan(ctx, "ge-0/0/1", 10)
	assert.True(t, core.Is(err, core.KindInterfaceInWrongPortMode))
}

func TestRemoveAccessVlanNotSet(t *testing.T) {
	d := newTestDriver()
	err := d.RemoveAccessVlan(context.Background(), "ge-0/0/1")
	assert.True(t, core.Is(err, core.KindAccessVlanNotSet))
}

func TestConfigureNativeVlanRejectsAccessInterface(t *testing.T) {
	d := newTestDriver()
	ctx := context.Background()
	require.NoError(t, d.AddVlan(ctx, 10, "ENG"))
	require.NoError(t, d.SetAccessMode(ctx, "ge-0/0/1"))

	err := d.ConfigureNativeVlan(ctx, "ge-0/0/1", 10)
	assert.True(t, core.Is(err, core.KindInterfaceInWrongPortMode))
}

func TestConfigureNativeVlanRejectsAlreadyTrunked(t *testing.T) {
	d := newTestDriver()
	ctx := context.Background()
	require.NoError(t, d.AddVlan(ctx, 10, "ENG"))
	require.NoError(t, d.SetTrunkMode(ctx, "ge-0/0/1"))
	require.NoError(t, d.AddTrunkVlan(ctx, "ge-0/0/1", 10))

	err := d.ConfigureNativeVlan(ctx, "ge-0/0/1", 10)
	assert.True(t, core.Is(err, core.KindVlanAlreadyInTrunk))
}

func TestAddTrunkVlanIsIdempotent(t *testing.T) {
	d := newTestDriver()
	ctx := context.Background()
	require.NoError(t, d.AddVlan(ctx, 10, "ENG"))
	require.NoError(t, d.SetTrunkMode(ctx, "ge-0/0/1"))
	require.NoError(t, d.AddTrunkVlan(ctx, "ge-0/0/1", 10))
	require.NoError(t, d.AddTrunkVlan(ctx, "ge-0/0/1", 10))

	iface, err := d.GetInterface(ctx, "ge-0/0/1")
	require.NoError(t, err)
	assert.Len(t, iface.TrunkVlans, 1)
}

func TestRemoveTrunkVlanNotSet(t *testing.T) {
	d := newTestDriver()
	ctx := context.Background()
	require.NoError(t, d.SetTrunkMode(ctx, "ge-0/0/1"))

	err := d.RemoveTrunkVlan(ctx, "ge-0/0/1", 10)
	assert.True(t, core.Is(err, core.KindTrunkVlanNotSet))
}

func TestBondLifecycle(t *testing.T) {
	d := newTestDriver()
	ctx := context.Background()

	require.NoError(t, d.AddBond(ctx, 7))
	err := d.AddBond(ctx, 7)
	assert.True(t, core.Is(err, core.KindBondAlreadyExist))

	require.NoError(t, d.AddInterfaceToBond(ctx, "ge-0/0/1", 7))
	b, err := d.GetBond(ctx, 7)
	require.NoError(t, err)
	assert.Contains(t, b.Members, "ge-0/0/1")

	iface, err := d.GetInterface(ctx, "ge-0/0/1")
	require.NoError(t, err)
	assert.Equal(t, core.PortModeBondMember, iface.PortMode)
	assert.Equal(t, 7, iface.BondMaster)

	require.NoError(t, d.RemoveInterfaceFromBond(ctx, "ge-0/0/1"))
	iface, err = d.GetInterface(ctx, "ge-0/0/1")
	require.NoError(t, err)
	assert.Equal(t, 0, iface.BondMaster)

	require.NoError(t, d.RemoveBond(ctx, 7))
	_, err = d.GetBond(ctx, 7)
	assert.True(t, core.Is(err, core.KindUnknownBond))
}

func TestRemoveInterfaceFromBondNotAMember(t *testing.T) {
	d := newTestDriver()
	ctx := context.Background()
	require.NoError(t, d.SetAccessMode(ctx, "ge-0/0/1"))

	err := d.RemoveInterfaceFromBond(ctx, "ge-0/0/1")
	assert.True(t, core.Is(err, core.KindInterfaceNotInBond))
}

func TestAddInterfaceToUnknownBond(t *testing.T) {
	d := newTestDriver()
	err := d.AddInterfaceToBond(context.Background(), "ge-0/0/1", 99)
	assert.True(t, core.Is(err, core.KindUnknownBond))
}

func TestBondDelegatesUseBondInterfaceName(t *testing.T) {
	d := newTestDriver()
	ctx := context.Background()
	require.NoError(t, d.AddBond(ctx, 3))

	require.NoError(t, d.SetBondDescription(ctx, 3, "uplink"))
	iface, err := d.GetInterface(ctx, core.BondInterfaceName("mock", 3))
	require.NoError(t, err)
	assert.Equal(t, "uplink", iface.Description)
}

func TestConnectDisconnectRecordHistory(t *testing.T) {
	d := newTestDriver()
	ctx := context.Background()
	require.NoError(t, d.Connect(ctx))
	assert.True(t, d.connected)
	require.NoError(t, d.Disconnect(ctx))
	assert.False(t, d.connected)
	assert.Contains(t, d.cmdHistory, "connect")
	assert.Contains(t, d.cmdHistory, "disconnect")
}

func TestTransactionMethodsTrackInTxnFlag(t *testing.T) {
	d := newTestDriver()
	ctx := context.Background()
	require.NoError(t, d.StartTransaction(ctx))
	assert.True(t, d.inTxn)
	require.NoError(t, d.CommitTransaction(ctx))
	require.NoError(t, d.RollbackTransaction(ctx))
	require.NoError(t, d.EndTransaction(ctx))
	assert.False(t, d.inTxn)
}
