package xmlengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseL3InterfaceOK(t *testing.T) {
	l3, ok := ParseL3Interface("vlan.25")
	require.True(t, ok)
	assert.Equal(t, L3Interface{Family: "vlan", Unit: "25"}, l3)
}

func TestParseL3InterfaceNoDot(t *testing.T) {
	_, ok := ParseL3Interface("vlan25")
	assert.False(t, ok)
}

func TestRenderVlanDelete(t *testing.T) {
	assert.Equal(t, `<vlan operation="delete"><name>ENG</name></vlan>`, RenderVlanDelete("ENG"))
}

func TestRenderVlanAddWithName(t *testing.T) {
	assert.Equal(t, `<vlan><name>ENG</name><vlan-id>10</vlan-id></vlan>`, RenderVlanAdd(10, "ENG"))
}

func TestRenderVlanAddDefaultsNameWhenEmpty(t *testing.T) {
	assert.Equal(t, `<vlan><name>VLAN10</name><vlan-id>10</vlan-id></vlan>`, RenderVlanAdd(10, ""))
}

func TestRenderVlanAddEscapesName(t *testing.T) {
	assert.Equal(t, `<vlan><name>A&amp;B</name><vlan-id>5</vlan-id></vlan>`, RenderVlanAdd(5, "A&B"))
}

func TestRenderL3InterfaceDelete(t *testing.T) {
	l3 := L3Interface{Family: "irb", Unit: "25"}
	assert.Equal(t, `<interface><name>irb</name><unit operation="delete"><name>25</name></unit></interface>`, RenderL3InterfaceDelete(l3))
}

func TestCascadeVlanRemovalNoL3NoMembers(t *testing.T) {
	vlanDelete, l3Delete, deltas, err := CascadeVlanRemoval("ENG", nil, nil, 10, noResolve)
	require.NoError(t, err)
	assert.Equal(t, `<vlan operation="delete"><name>ENG</name></vlan>`, vlanDelete)
	assert.Empty(t, l3Delete)
	assert.Empty(t, deltas)
}

func TestCascadeVlanRemovalWithL3Interface(t *testing.T) {
	l3 := L3Interface{Family: "irb", Unit: "10"}
	_, l3Delete, _, err := CascadeVlanRemoval("ENG", &l3, nil, 10, noResolve)
	require.NoError(t, err)
	assert.Contains(t, l3Delete, "<unit operation=\"delete\">")
}

func TestCascadeVlanRemovalSkipsInterfacesNotCovering(t *testing.T) {
	members := map[string][]Token{
		"ge-0/0/1": {ParseToken("99")},
	}
	_, _, deltas, err := CascadeVlanRemoval("ENG", nil, members, 10, noResolve)
	require.NoError(t, err)
	assert.Empty(t, deltas)
}

func TestCascadeVlanRemovalBuildsMemberDeltas(t *testing.T) {
	members := map[string][]Token{
		"ge-0/0/1": {ParseToken("10")},
		"ge-0/0/2": {ParseToken("10-20")},
	}
	_, _, deltas, err := CascadeVlanRemoval("ENG", nil, members, 10, noResolve)
	require.NoError(t, err)
	require.Len(t, deltas, 2)
	for _, d := range deltas {
		assert.NotEmpty(t, d.Edits)
	}
}

func TestCascadeVlanRemovalSkipsUnresolvableNamedToken(t *testing.T) {
	members := map[string][]Token{
		"ge-0/0/1": {ParseToken("NAMEDONLY")},
	}
	resolve := func(name string) (int, bool) { return 0, false }
	_, _, deltas, err := CascadeVlanRemoval("ENG", nil, members, 10, resolve)
	require.NoError(t, err)
	assert.Empty(t, deltas, "a token that cannot be resolved to v does not cover it")
}
