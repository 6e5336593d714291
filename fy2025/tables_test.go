package fy2025_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/netpay-engine/fy2025"
	"github.com/warp/netpay-engine/payroll"
)

func TestRules_Validate(t *testing.T) {
	require.NoError(t, fy2025.Rules().Validate())
}

func TestRules_Registered(t *testing.T) {
	c, err := payroll.Lookup(fy2025.Year)
	require.NoError(t, err)
	assert.Equal(t, 2025, c.Year())
}

func TestRules_NoOptionalTables(t *testing.T) {
	rules := fy2025.Rules()
	assert.Nil(t, rules.Funds)
	assert.Nil(t, rules.PensionFund)
	assert.Nil(t, rules.Expat)
	assert.Nil(t, rules.EmployerCost)
	assert.True(t, rules.Fringe.RelocatedThreshold.Valid)
}

func TestRules_AliasesOnlyForKnownRegions(t *testing.T) {
	rules := fy2025.Rules()

	code, _ := rules.RegionalFor("Lombardia")
	assert.Equal(t, "LO", code)

	// Sardegna has no 2025 entry, so the full name falls back too
	code, _ = rules.RegionalFor("Sardegna")
	assert.Equal(t, payroll.DefaultCode, code)
}
