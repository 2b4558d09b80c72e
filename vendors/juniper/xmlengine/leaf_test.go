package xmlengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderDescription(t *testing.T) {
	assert.Equal(t, "<description>uplink to core</description>", RenderDescription("uplink to core"))
}

func TestRenderDescriptionDelete(t *testing.T) {
	assert.Equal(t, `<description operation="delete"/>`, RenderDescriptionDelete())
}

func TestRenderSpanningTreeEdge(t *testing.T) {
	assert.Equal(t, `<interface><name>ge-0/0/1</name><edge/></interface>`, RenderSpanningTree("ge-0/0/1", true))
}

func TestRenderSpanningTreeNotEdge(t *testing.T) {
	assert.Equal(t, `<interface><name>ge-0/0/1</name><edge operation="delete"/></interface>`, RenderSpanningTree("ge-0/0/1", false))
}

func TestRenderShutdown(t *testing.T) {
	assert.Equal(t, "<disable/>", RenderShutdown(true))
	assert.Equal(t, `<disable operation="delete"/>`, RenderShutdown(false))
}

func TestRenderLLDPEnableFromNoStanzaAddsBareInterface(t *testing.T) {
	leaf, changed := RenderLLDP("ge-0/0/6", LLDPState{Present: false}, true)
	assert.True(t, changed)
	assert.Equal(t, `<lldp><interface><name>ge-0/0/6</name></interface></lldp>`, leaf)
}

func TestRenderLLDPEnableFromAlreadyEnabledIsNoop(t *testing.T) {
	_, changed := RenderLLDP("ge-0/0/1", LLDPState{Present: true, Disabled: false}, true)
	assert.False(t, changed)
}

func TestRenderLLDPEnableFromDisabledDeletesDisableLeaf(t *testing.T) {
	leaf, changed := RenderLLDP("ge-0/0/1", LLDPState{Present: true, Disabled: true}, true)
	assert.True(t, changed)
	assert.Contains(t, leaf, `<disable operation="delete"/>`)
}

func TestRenderLLDPDisableFromNoStanzaInsertsDisable(t *testing.T) {
	leaf, changed := RenderLLDP("ge-0/0/1", LLDPState{Present: false}, false)
	assert.True(t, changed)
	assert.Equal(t, `<lldp><interface><name>ge-0/0/1</name><disable/></interface></lldp>`, leaf)
}

func TestRenderLLDPDisableFromAlreadyDisabledIsNoop(t *testing.T) {
	_, changed := RenderLLDP("ge-0/0/1", LLDPState{Present: true, Disabled: true}, false)
	assert.False(t, changed)
}

func TestRenderLLDPDisableFromEnabledInsertsDisable(t *testing.T) {
	leaf, changed := RenderLLDP("ge-0/0/1", LLDPState{Present: true, Disabled: false}, false)
	assert.True(t, changed)
	assert.Contains(t, leaf, "<disable/>")
}

func TestParseL3Interface(t *testing.T) {
	l3, ok := ParseL3Interface("irb.25")
	assert.True(t, ok)
	assert.Equal(t, L3Interface{Family: "irb", Unit: "25"}, l3)

	_, ok = ParseL3Interface("noUnit")
	assert.False(t, ok)
}
