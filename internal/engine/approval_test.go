package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetworks/fleet-maintenance/internal/models"
)

func threeLevelWorkflow() *models.ApprovalWorkflow {
	return &models.ApprovalWorkflow{
		EntityType: "purchase_order",
		Active:     true,
		Levels: models.ApprovalLevels{
			// Stored out of order on purpose; evaluation must not depend on it.
			{Level: 3, Name: "Direccion", Threshold: 20000, Roles: []string{"director"}},
			{Level: 1, Name: "Supervisor", Threshold: 0, Roles: []string{"supervisor", "admin"}},
			{Level: 2, Name: "Gerencia", Threshold: 5000, Roles: []string{"manager", "admin"}},
		},
	}
}

func TestRequiredLevel(t *testing.T) {
	wf := threeLevelWorkflow()

	tests := []struct {
		amount float64
		want   int
	}{
		{0, 1},
		{4999.99, 1},
		{5000, 2},
		{12000, 2},
		{19999.99, 2},
		{20000, 3},
		{1000000, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RequiredLevel(wf, tt.amount), "amount %.2f", tt.amount)
	}
}

func TestRequiredLevelMonotonic(t *testing.T) {
	wf := threeLevelWorkflow()

	prev := 0
	for amount := 0.0; amount <= 30000; amount += 500 {
		level := RequiredLevel(wf, amount)
		require.GreaterOrEqual(t, level, prev, "requiredLevel decreased at amount %.2f", amount)
		prev = level
	}
}

func TestRequiredLevelNoQualifyingThreshold(t *testing.T) {
	wf := &models.ApprovalWorkflow{
		Levels: models.ApprovalLevels{
			{Level: 1, Threshold: 100, Roles: []string{"supervisor"}},
			{Level: 2, Threshold: 500, Roles: []string{"manager"}},
		},
	}

	// Every order requires at least level 1.
	assert.Equal(t, 1, RequiredLevel(wf, 50))
}

func TestCanApprove(t *testing.T) {
	wf := threeLevelWorkflow()

	assert.True(t, CanApprove(wf, 1, "supervisor"))
	assert.True(t, CanApprove(wf, 2, "admin"))
	assert.False(t, CanApprove(wf, 2, "supervisor"))
	assert.False(t, CanApprove(wf, 1, "mechanic"))

	// Missing level is false, not an error.
	assert.False(t, CanApprove(wf, 9, "admin"))
}

func TestNextLevelSequence(t *testing.T) {
	wf := threeLevelWorkflow()
	order := &models.PurchaseOrder{Amount: 12000, CurrentLevel: 0}

	l, ok := NextLevel(wf, order)
	require.True(t, ok)
	assert.Equal(t, 1, l.Level)
	assert.Equal(t, "Supervisor", l.Name)

	order.CurrentLevel = 1
	l, ok = NextLevel(wf, order)
	require.True(t, ok)
	assert.Equal(t, 2, l.Level)

	// Amount 12000 requires level 2; after level 2 there is no pending level.
	order.CurrentLevel = 2
	_, ok = NextLevel(wf, order)
	assert.False(t, ok)
}

func TestNextLevelLargeAmountRunsFullChain(t *testing.T) {
	wf := threeLevelWorkflow()
	order := &models.PurchaseOrder{Amount: 50000, CurrentLevel: 2}

	l, ok := NextLevel(wf, order)
	require.True(t, ok)
	assert.Equal(t, 3, l.Level)

	order.CurrentLevel = 3
	_, ok = NextLevel(wf, order)
	assert.False(t, ok)
}
