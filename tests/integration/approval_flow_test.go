package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/internal/repository/postgres"
	"github.com/fleetworks/fleet-maintenance/internal/services"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
	"github.com/fleetworks/fleet-maintenance/pkg/config"
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
)

func seedWorkflow(t *testing.T, store *postgres.Store) {
	t.Helper()
	wf := models.ApprovalWorkflow{
		EntityType: "purchase_order",
		Name:       "Fleet procurement",
		Active:     true,
		Levels: models.ApprovalLevels{
			{Level: 1, Name: "Supervisor", Threshold: 0, Roles: []string{"supervisor"}},
			{Level: 2, Name: "Gerencia", Threshold: 10000, Roles: []string{"gerente"}},
			{Level: 3, Name: "Direccion", Threshold: 50000, Roles: []string{"director"}},
		},
	}
	require.NoError(t, store.Workflows().Create(context.Background(), &wf))
}

func TestApprovalChainAgainstPostgres(t *testing.T) {
	s := SetupSuite(t)
	defer TeardownSuite(t)
	s.ResetDatabase(t)

	ctx := context.Background()
	store := postgres.NewStoreFromSQL(s.DB.DB, logger.NewNop())
	seedWorkflow(t, store)

	svc := services.NewApprovalService(store, logger.NewNop(), nil, nil, config.ApprovalConfig{})

	supervisor := services.Actor{ID: uuid.New(), Name: "Sofia Lema", Role: "supervisor"}
	manager := services.Actor{ID: uuid.New(), Name: "Raul Ortiz", Role: "gerente"}

	po, err := svc.CreateOrder(ctx, &models.CreatePurchaseOrderRequest{
		Number: "OC-2043",
		Amount: 18500,
	}, "fleet office")
	require.NoError(t, err)
	assert.Equal(t, config.POStatusDraft, po.Status)

	po, err = svc.Submit(ctx, po.ID, supervisor)
	require.NoError(t, err)
	assert.Equal(t, config.POStatusInApproval, po.Status)

	// 18500 needs levels 1 and 2; level 2 may not go first.
	_, err = svc.ApproveAt(ctx, po.ID, 2, manager, nil)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeSequence))

	po, err = svc.ApproveAt(ctx, po.ID, 1, supervisor, nil)
	require.NoError(t, err)
	assert.Equal(t, config.POStatusSupervisor, po.Status)

	// CAS guard: an update replayed with the pre-approval status and level
	// must not land.
	stale := *po
	stale.CurrentLevel = 2
	err = store.PurchaseOrders().Update(ctx, &stale, config.POStatusInApproval, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	po, err = svc.ApproveAt(ctx, po.ID, 2, manager, nil)
	require.NoError(t, err)
	assert.Equal(t, config.POStatusManagement, po.Status)
	assert.Equal(t, 2, po.CurrentLevel)

	// Fully approved; a further decision must not land.
	_, err = svc.ApproveAt(ctx, po.ID, 3, manager, nil)
	assert.Error(t, err)

	history, err := svc.History(ctx, po.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, models.ApprovalActionPending, history[0].Action)
	assert.Equal(t, models.ApprovalActionApproved, history[1].Action)
	assert.Equal(t, models.ApprovalActionApproved, history[2].Action)
}

func TestRejectionIsTerminalAgainstPostgres(t *testing.T) {
	s := SetupSuite(t)
	defer TeardownSuite(t)
	s.ResetDatabase(t)

	ctx := context.Background()
	store := postgres.NewStoreFromSQL(s.DB.DB, logger.NewNop())
	seedWorkflow(t, store)

	svc := services.NewApprovalService(store, logger.NewNop(), nil, nil, config.ApprovalConfig{})
	supervisor := services.Actor{ID: uuid.New(), Name: "Sofia Lema", Role: "supervisor"}

	po, err := svc.CreateOrder(ctx, &models.CreatePurchaseOrderRequest{
		Number: "OC-2044",
		Amount: 4200,
	}, "fleet office")
	require.NoError(t, err)

	po, err = svc.Submit(ctx, po.ID, supervisor)
	require.NoError(t, err)

	po, err = svc.RejectAt(ctx, po.ID, 1, supervisor, "duplicate request")
	require.NoError(t, err)
	assert.Equal(t, config.POStatusRejected, po.Status)

	_, err = svc.ApproveAt(ctx, po.ID, 1, supervisor, nil)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}
