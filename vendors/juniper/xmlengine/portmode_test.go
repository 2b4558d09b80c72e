package xmlengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAccessModeAlreadyAccessIsNoop(t *testing.T) {
	edits := SetAccessMode("access", nil, false)
	assert.Empty(t, edits)
}

func TestSetAccessModeFromTrunkClearsMembersAndNative(t *testing.T) {
	edits := SetAccessMode("trunk", []Token{ParseToken("10")}, true)
	assert.Contains(t, edits, "<port-mode>access</port-mode>")
	assert.Contains(t, edits, `<vlan operation="delete"/>`)
	assert.Contains(t, edits, `<native-vlan-id operation="delete"/>`)
}

func TestSetAccessModeFromUnsetBareAccessIsNoop(t *testing.T) {
	edits := SetAccessMode("", []Token{ParseToken("10")}, false)
	assert.Empty(t, edits)
}

func TestSetAccessModeFromUnsetWithNativeClearsIt(t *testing.T) {
	edits := SetAccessMode("", nil, true)
	assert.Contains(t, edits, `<native-vlan-id operation="delete"/>`)
}

func TestSetTrunkModeAlreadyTrunkIsNoop(t *testing.T) {
	edits := SetTrunkMode("trunk", nil)
	assert.Empty(t, edits)
}

func TestSetTrunkModeFromAccessClearsMember(t *testing.T) {
	edits := SetTrunkMode("access", []Token{ParseToken("10")})
	assert.Contains(t, edits, "<port-mode>trunk</port-mode>")
	assert.Contains(t, edits, `<vlan operation="delete"/>`)
}

func TestSetAccessVlanRejectsTrunkMode(t *testing.T) {
	_, err := SetAccessVlan("trunk", nil, 10)
	assert.ErrorIs(t, err, ErrWrongPortMode)
}

func TestSetAccessVlanReplacesPriorMember(t *testing.T) {
	edits, err := SetAccessVlan("access", []Token{ParseToken("5")}, 10)
	require.NoError(t, err)
	assert.Contains(t, edits, `<members operation="delete">5</members>`)
	assert.Contains(t, edits, "<members>10</members>")
}

func TestSetAccessVlanFromUnsetSetsPortMode(t *testing.T) {
	edits, err := SetAccessVlan("", nil, 10)
	require.NoError(t, err)
	assert.Contains(t, edits, "<port-mode>access</port-mode>")
}

func TestConfigureNativeVlanRejectsAccessMode(t *testing.T) {
	_, err := ConfigureNativeVlan("access", nil, 10, noResolve)
	assert.ErrorIs(t, err, ErrWrongPortMode)
}

func TestConfigureNativeVlanRejectsVlanAlreadyInTrunk(t *testing.T) {
	_, err := ConfigureNativeVlan("trunk", []Token{ParseToken("10")}, 10, noResolve)
	assert.ErrorIs(t, err, ErrVlanInTrunk)
}

func TestConfigureNativeVlanFromUnsetSetsTrunkMode(t *testing.T) {
	edits, err := ConfigureNativeVlan("", nil, 10, noResolve)
	require.NoError(t, err)
	assert.Contains(t, edits, "<port-mode>trunk</port-mode>")
	assert.Contains(t, edits, "<native-vlan-id>10</native-vlan-id>")
}

func TestAddTrunkVlanRejectsNonTrunk(t *testing.T) {
	_, err := AddTrunkVlan("access", 10)
	assert.ErrorIs(t, err, ErrWrongPortMode)
}

func TestAddTrunkVlanOK(t *testing.T) {
	edits, err := AddTrunkVlan("trunk", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"<members>10</members>"}, edits)
}

func TestRemoveTrunkVlanRejectsNonTrunk(t *testing.T) {
	_, err := RemoveTrunkVlan("access", nil, 10, noResolve)
	assert.ErrorIs(t, err, ErrWrongPortMode)
}

func TestRemoveTrunkVlanNotCovered(t *testing.T) {
	_, err := RemoveTrunkVlan("trunk", []Token{ParseToken("20")}, 10, noResolve)
	assert.ErrorIs(t, err, ErrNotCovered)
}

func TestRemoveTrunkVlanSplitsRange(t *testing.T) {
	edits, err := RemoveTrunkVlan("trunk", []Token{ParseToken("10-20")}, 15, noResolve)
	require.NoError(t, err)
	assert.Contains(t, edits, `<members operation="delete">10-20</members>`)
	assert.Contains(t, edits, "<members>10-14</members>")
	assert.Contains(t, edits, "<members>16-20</members>")
}
