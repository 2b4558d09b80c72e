package juniper

import (
	"fmt"
	"strings"

	"github.com/idjaw/netman/core"
	"github.com/idjaw/netman/netconf"
)

// classify translates a set of NETCONF rpc-errors into Netman's
// closed error taxonomy by substring match on error-message. context
// is a short human phrase identifying what the failing operation
// targeted (an interface name, a vlan number) so the returned message
// names the operand even for error kinds the raw device text doesn't
// name itself.
//
// Vendor RPC error classification is inherently fragile substring
// matching; it is centralized here, in one table, rather than spread
// across every mutation call site.
func classify(errs []netconf.RPCError, context string) error {
	for _, e := range errs {
		msg := e.Message

		switch {
		case strings.Contains(msg, "not within range (1..4094)"):
			return core.Wrap(core.KindBadVlanNumber, fmt.Sprintf("vlan number is invalid: %s", context), msg)
		case strings.Contains(msg, "not within range (2..255)"):
			return core.Wrap(core.KindBadVlanName, fmt.Sprintf("vlan name is invalid: %s", context), msg)
		case strings.Contains(msg, "device value outside range 0..31"):
			return core.Wrap(core.KindBadBondNumber, "bond number is invalid", msg)
		case strings.Contains(msg, "port value outside range 0..47"):
			return core.Wrap(core.KindUnknownInterface, fmt.Sprintf("interface %s not found", context), msg)
		case strings.Contains(msg, "statement not found"):
			continue // severity=warn, never user-visible on its own
		case strings.Contains(msg, "Configuration database is already open"):
			return core.New(core.KindSwitchLocked, "switch is locked and can't be modified")
		case strings.Contains(msg, "configuration database modified"):
			return core.ErrConfigDatabaseModified
		default:
			if strings.EqualFold(e.Severity, "warning") {
				continue
			}
			return core.Wrap(core.KindOperationNotCompleted,
				fmt.Sprintf("an error occurred while completing operation, no modifications have been applied: %s", msg), msg)
		}
	}
	return nil
}
