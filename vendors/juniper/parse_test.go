package juniper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `<configuration>
  <vlans>
    <vlan><name>ENG</name><vlan-id>10</vlan-id><l3-interface>irb.10</l3-interface></vlan>
    <vlan><name>SALES</name><vlan-id>20</vlan-id></vlan>
  </vlans>
  <interfaces>
    <interface>
      <name>ge-0/0/1</name>
      <unit>
        <name>0</name>
        <description>uplink</description>
        <family>
          <ethernet-switching>
            <port-mode>trunk</port-mode>
            <vlan><members>10</members><members>20</members></vlan>
            <native-vlan-id>10</native-vlan-id>
          </ethernet-switching>
        </family>
      </unit>
    </interface>
    <interface>
      <name>ae7</name>
      <aggregated-ether-options>
        <lacp><active/><periodic>slow</periodic></lacp>
        <link-speed>1g</link-speed>
      </aggregated-ether-options>
    </interface>
  </interfaces>
  <protocols>
    <rstp>
      <interface><name>ge-0/0/1</name><edge/></interface>
    </rstp>
    <lldp>
      <interface><name>ge-0/0/1</name></interface>
    </lldp>
  </protocols>
</configuration>`

func TestParseConfigurationVlans(t *testing.T) {
	st, err := parseConfiguration([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "ENG", st.vlans[10].Name)
	assert.Equal(t, "irb.10", st.vlans[10].L3Interface)
	id, ok := st.vlansByName["SALES"]
	assert.True(t, ok)
	assert.Equal(t, 20, id)
}

func TestParseConfigurationInterfaceUnit(t *testing.T) {
	st, err := parseConfiguration([]byte(sampleConfig))
	require.NoError(t, err)

	iface := st.interfaces["ge-0/0/1"]
	unit, ok := iface.unit0()
	require.True(t, ok)
	assert.Equal(t, "uplink", unit.Description)
	assert.Equal(t, "trunk", unit.portMode())

	native, ok := unit.nativeVlan()
	require.True(t, ok)
	assert.Equal(t, 10, native)

	toks := unit.tokens()
	require.Len(t, toks, 2)
}

func TestParseConfigurationRSTPAndLLDP(t *testing.T) {
	st, err := parseConfiguration([]byte(sampleConfig))
	require.NoError(t, err)

	r, ok := st.rstp["ge-0/0/1"]
	require.True(t, ok)
	assert.NotNil(t, r.Edge)

	l, ok := st.lldp["ge-0/0/1"]
	require.True(t, ok)
	assert.Nil(t, l.Disable)
}

func TestParseConfigurationAggregatedInterface(t *testing.T) {
	st, err := parseConfiguration([]byte(sampleConfig))
	require.NoError(t, err)

	ae := st.interfaces["ae7"]
	require.NotNil(t, ae.AggregatedEtherOptions)
	assert.Equal(t, "1g", ae.AggregatedEtherOptions.LinkSpeed)
	assert.NotNil(t, ae.AggregatedEtherOptions.LACP.Active)
}

func TestStateResolver(t *testing.T) {
	st, err := parseConfiguration([]byte(sampleConfig))
	require.NoError(t, err)

	resolve := st.resolver()
	id, ok := resolve("ENG")
	require.True(t, ok)
	assert.Equal(t, 10, id)

	_, ok = resolve("UNKNOWN")
	assert.False(t, ok)
}

func TestUnit0FallsBackToFirstUnitWhenNoZero(t *testing.T) {
	iface := interfaceXML{Unit: []unitXML{{Name: "5"}}}
	unit, ok := iface.unit0()
	require.True(t, ok)
	assert.Equal(t, "5", unit.Name)
}

func TestUnit0EmptyReturnsFalse(t *testing.T) {
	_, ok := interfaceXML{}.unit0()
	assert.False(t, ok)
}

func TestUnitTokensNilWhenNoEthernetSwitching(t *testing.T) {
	u := unitXML{}
	assert.Nil(t, u.tokens())
	assert.Equal(t, "", u.portMode())
	_, ok := u.nativeVlan()
	assert.False(t, ok)
}

func TestParseVlanID(t *testing.T) {
	n, ok := parseVlanID(" 42 ")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = parseVlanID("not-a-number")
	assert.False(t, ok)
}

func TestParseConfigurationInvalidXML(t *testing.T) {
	_, err := parseConfiguration([]byte("not xml"))
	assert.Error(t, err)
}
