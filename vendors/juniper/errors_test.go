package juniper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idjaw/netman/core"
	"github.com/idjaw/netman/netconf"
)

func TestClassifyBadVlanNumber(t *testing.T) {
	errs := []netconf.RPCError{{Message: "value 5000 not within range (1..4094)"}}
	err := classify(errs, "vlan 5000")
	assert.True(t, core.Is(err, core.KindBadVlanNumber))
}

func TestClassifyBadVlanName(t *testing.T) {
	errs := []netconf.RPCError{{Message: "value not within range (2..255)"}}
	err := classify(errs, "vlan name")
	assert.True(t, core.Is(err, core.KindBadVlanName))
}

func TestClassifyBadBondNumber(t *testing.T) {
	errs := []netconf.RPCError{{Message: "device value outside range 0..31"}}
	err := classify(errs, "bond")
	assert.True(t, core.Is(err, core.KindBadBondNumber))
}

func TestClassifyUnknownInterface(t *testing.T) {
	errs := []netconf.RPCError{{Message: "port value outside range 0..47"}}
	err := classify(errs, "ge-0/0/99")
	assert.True(t, core.Is(err, core.KindUnknownInterface))
}

func TestClassifySkipsStatementNotFoundWarning(t *testing.T) {
	errs := []netconf.RPCError{{Message: "statement not found", Severity: "warning"}}
	err := classify(errs, "")
	assert.NoError(t, err)
}

func TestClassifySwitchLocked(t *testing.T) {
	errs := []netconf.RPCError{{Message: "Configuration database is already open"}}
	err := classify(errs, "")
	assert.True(t, core.Is(err, core.KindSwitchLocked))
}

func TestClassifyConfigDatabaseModified(t *testing.T) {
	errs := []netconf.RPCError{{Message: "configuration database modified"}}
	err := classify(errs, "")
	assert.True(t, errors.Is(err, core.ErrConfigDatabaseModified))
}

func TestClassifySkipsNonFatalWarningSeverity(t *testing.T) {
	errs := []netconf.RPCError{{Message: "something odd happened", Severity: "warning"}}
	err := classify(errs, "")
	assert.NoError(t, err)
}

func TestClassifyDefaultsToOperationNotCompleted(t *testing.T) {
	errs := []netconf.RPCError{{Message: "some unrecognized device error", Severity: "error"}}
	err := classify(errs, "")
	assert.True(t, core.Is(err, core.KindOperationNotCompleted))
}

func TestClassifyNoErrorsReturnsNil(t *testing.T) {
	assert.NoError(t, classify(nil, ""))
}

func TestClassifyFirstMatchingErrorWins(t *testing.T) {
	errs := []netconf.RPCError{
		{Message: "statement not found", Severity: "warning"},
		{Message: "value 9999 not within range (1..4094)"},
	}
	err := classify(errs, "vlan 9999")
	require.Error(t, err)
	assert.True(t, core.Is(err, core.KindBadVlanNumber))
}
