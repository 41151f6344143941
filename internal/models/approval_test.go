package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovalLevelsScanValue(t *testing.T) {
	levels := ApprovalLevels{
		{Level: 1, Name: "Supervisor", Threshold: 0, Roles: []string{"supervisor"}},
		{Level: 2, Name: "Gerencia", Threshold: 5000, Roles: []string{"manager", "admin"}},
	}

	v, err := levels.Value()
	require.NoError(t, err)

	var decoded ApprovalLevels
	require.NoError(t, decoded.Scan(v))
	assert.Equal(t, levels, decoded)
}

func TestApprovalLevelsScanNil(t *testing.T) {
	var levels ApprovalLevels
	require.NoError(t, levels.Scan(nil))
	assert.Nil(t, levels)
}

func TestLevelAt(t *testing.T) {
	wf := &ApprovalWorkflow{
		Levels: ApprovalLevels{
			{Level: 2, Name: "Gerencia"},
			{Level: 1, Name: "Supervisor"},
		},
	}

	l, ok := wf.LevelAt(2)
	require.True(t, ok)
	assert.Equal(t, "Gerencia", l.Name)

	_, ok = wf.LevelAt(3)
	assert.False(t, ok)
}

func TestHasRole(t *testing.T) {
	l := ApprovalLevel{Roles: []string{"supervisor", "admin"}}

	assert.True(t, l.HasRole("supervisor"))
	assert.False(t, l.HasRole("mechanic"))
}

func TestWorkOrderStateTerminal(t *testing.T) {
	assert.True(t, WorkOrderStateCompleted.Terminal())
	assert.True(t, WorkOrderStateCanceled.Terminal())
	assert.False(t, WorkOrderStateOpen.Terminal())
	assert.False(t, WorkOrderStatePaused.Terminal())
}

func TestPartsUsedScanValue(t *testing.T) {
	parts := PartsUsed{{Name: "oil filter", Quantity: 2, UnitCost: 14.5}}

	v, err := parts.Value()
	require.NoError(t, err)

	var decoded PartsUsed
	require.NoError(t, decoded.Scan(v))
	assert.Equal(t, parts, decoded)
}
