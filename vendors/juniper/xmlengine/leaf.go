package xmlengine

import "fmt"

// RenderDescription sets an interface's description leaf.
func RenderDescription(text string) string {
	return fmt.Sprintf("<description>%s</description>", escapeName(text))
}

// RenderDescriptionDelete deletes an interface's description leaf.
func RenderDescriptionDelete() string {
	return `<description operation="delete"/>`
}

// RenderSpanningTree sets the edge/no-root-port RSTP flags for an
// interface under <protocols><rstp><interface>.
func RenderSpanningTree(ifName string, edge bool) string {
	if edge {
		return fmt.Sprintf(`<interface><name>%s</name><edge/></interface>`, ifName)
	}
	return fmt.Sprintf(`<interface><name>%s</name><edge operation="delete"/></interface>`, ifName)
}

// RenderShutdown toggles the interface disable leaf.
func RenderShutdown(shutdown bool) string {
	if shutdown {
		return "<disable/>"
	}
	return `<disable operation="delete"/>`
}

// LLDPState is what the engine needs to know about an interface's
// current <lldp> stanza to decide whether enable_lldp is a no-op.
type LLDPState struct {
	// Present is true if the interface has any <lldp> stanza at all.
	Present bool
	// Disabled is true if the stanza contains <disable/>.
	Disabled bool
}

// RenderLLDP computes the edit-config leaf for enable_lldp(enabled)
// and reports true, or returns "" and false if the call is a no-op.
// Toggling is strictly idempotent at the edit layer:
//
//   - enabling an interface with no <lldp> stanza at all: add a bare
//     <lldp><interface>...</interface></lldp> (the stanza's mere
//     presence with no <disable/> leaf means enabled).
//   - enabling a disabled interface: delete <disable/>.
//   - enabling an already-enabled interface (stanza present, no
//     <disable/>): no-op.
//   - disabling an interface with no <lldp> stanza at all: add the
//     stanza with a bare <disable/>, since an absent stanza is not
//     itself disabled.
//   - disabling an already-disabled interface: no-op, no edit-config
//     call at all.
//   - disabling an enabled interface: insert bare <disable/>.
func RenderLLDP(ifName string, state LLDPState, enabled bool) (string, bool) {
	if enabled {
		if !state.Present {
			return fmt.Sprintf(`<lldp><interface><name>%s</name></interface></lldp>`, ifName), true
		}
		if state.Disabled {
			return fmt.Sprintf(`<lldp><interface><name>%s</name><disable operation="delete"/></interface></lldp>`, ifName), true
		}
		return "", false
	}
	// enabled == false: requesting disable
	if state.Present && state.Disabled {
		return "", false
	}
	return fmt.Sprintf(`<lldp><interface><name>%s</name><disable/></interface></lldp>`, ifName), true
}
