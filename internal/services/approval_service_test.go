package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetworks/fleet-maintenance/internal/mocks"
	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/internal/services"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
	"github.com/fleetworks/fleet-maintenance/pkg/config"
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
)

var (
	supervisor = services.Actor{ID: uuid.New(), Name: "L. Vargas", Role: "supervisor"}
	manager    = services.Actor{ID: uuid.New(), Name: "R. Campos", Role: "gerente"}
	director   = services.Actor{ID: uuid.New(), Name: "S. Mora", Role: "director"}
	buyer      = services.Actor{ID: uuid.New(), Name: "K. Jimenez", Role: "compras"}
)

func fleetWorkflow() models.ApprovalWorkflow {
	return models.ApprovalWorkflow{
		EntityType: "purchase_order",
		Name:       "Fleet procurement",
		Active:     true,
		Levels: models.ApprovalLevels{
			{Level: 1, Name: "Supervisor", Threshold: 0, Roles: []string{"supervisor"}},
			{Level: 2, Name: "Gerencia", Threshold: 10000, Roles: []string{"gerente"}},
			{Level: 3, Name: "Direccion", Threshold: 50000, Roles: []string{"director"}},
			{Level: 4, Name: "Cotizacion", Threshold: 100000, Roles: []string{"compras"}},
			{Level: 5, Name: "Firma", Threshold: 250000, Roles: []string{"gerente", "director"}},
		},
	}
}

func newApprovalFixture(t *testing.T) (*services.ApprovalService, *mocks.Store) {
	t.Helper()
	store := mocks.NewStore()
	store.AddWorkflow(fleetWorkflow())
	svc := services.NewApprovalService(store, logger.NewNop(), nil, nil, config.ApprovalConfig{})
	return svc, store
}

func submitOrder(t *testing.T, svc *services.ApprovalService, amount float64) *models.PurchaseOrder {
	t.Helper()
	ctx := context.Background()
	po, err := svc.CreateOrder(ctx, &models.CreatePurchaseOrderRequest{
		Number: "OC-" + uuid.NewString()[:8],
		Amount: amount,
	}, "fleet office")
	require.NoError(t, err)
	po, err = svc.Submit(ctx, po.ID, supervisor)
	require.NoError(t, err)
	return po
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _ := newApprovalFixture(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, &models.CreatePurchaseOrderRequest{Amount: 100}, "x")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = svc.CreateOrder(ctx, &models.CreatePurchaseOrderRequest{Number: "OC-1", Amount: 0}, "x")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestSubmitMovesDraftIntoApproval(t *testing.T) {
	svc, store := newApprovalFixture(t)

	po := submitOrder(t, svc, 12000)
	assert.Equal(t, config.POStatusInApproval, po.Status)
	assert.Equal(t, 0, po.CurrentLevel)

	history := store.HistoryEntries()
	require.Len(t, history, 1)
	assert.Equal(t, models.ApprovalActionPending, history[0].Action)
	assert.Equal(t, 1, history[0].Level)
}

func TestSubmitRejectsNonDraft(t *testing.T) {
	svc, _ := newApprovalFixture(t)

	po := submitOrder(t, svc, 8000)

	_, err := svc.Submit(context.Background(), po.ID, supervisor)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}

func TestSequentialApprovalChain(t *testing.T) {
	svc, store := newApprovalFixture(t)
	ctx := context.Background()

	// 12000 crosses the level 2 threshold, so two approvals are required.
	po := submitOrder(t, svc, 12000)

	po, err := svc.ApproveAt(ctx, po.ID, 1, supervisor, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, po.CurrentLevel)
	assert.Equal(t, config.POStatusSupervisor, po.Status)

	po, err = svc.ApproveAt(ctx, po.ID, 2, manager, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, po.CurrentLevel)
	assert.Equal(t, config.POStatusManagement, po.Status)

	// Chain is complete; level 3 is beyond the required level.
	_, err = svc.ApproveAt(ctx, po.ID, 3, director, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeSequence))

	history := store.HistoryEntries()
	require.Len(t, history, 3)
	assert.Equal(t, models.ApprovalActionPending, history[0].Action)
	assert.Equal(t, models.ApprovalActionApproved, history[1].Action)
	assert.Equal(t, models.ApprovalActionApproved, history[2].Action)
}

func TestApprovalOutOfOrderLeavesNoHistory(t *testing.T) {
	svc, store := newApprovalFixture(t)
	ctx := context.Background()

	po := submitOrder(t, svc, 12000)
	before := len(store.HistoryEntries())

	_, err := svc.ApproveAt(ctx, po.ID, 2, manager, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeSequence))

	// A refused decision must not leave an audit entry behind.
	assert.Len(t, store.HistoryEntries(), before)

	current, err := svc.GetOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.CurrentLevel)
	assert.Equal(t, config.POStatusInApproval, current.Status)
}

func TestApprovalRequiresAuthorizedRole(t *testing.T) {
	svc, _ := newApprovalFixture(t)
	ctx := context.Background()

	po := submitOrder(t, svc, 5000)

	_, err := svc.ApproveAt(ctx, po.ID, 1, manager, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePermission))
}

func TestApprovalBeforeSubmitIsInvalid(t *testing.T) {
	svc, _ := newApprovalFixture(t)
	ctx := context.Background()

	po, err := svc.CreateOrder(ctx, &models.CreatePurchaseOrderRequest{Number: "OC-9", Amount: 3000}, "fleet office")
	require.NoError(t, err)

	_, err = svc.ApproveAt(ctx, po.ID, 1, supervisor, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}

func TestRejectionIsTerminal(t *testing.T) {
	svc, store := newApprovalFixture(t)
	ctx := context.Background()

	po := submitOrder(t, svc, 40000)

	po, err := svc.RejectAt(ctx, po.ID, 1, supervisor, "over budget for this quarter")
	require.NoError(t, err)
	assert.Equal(t, config.POStatusRejected, po.Status)
	require.NotNil(t, po.RejectionReason)
	assert.Equal(t, "over budget for this quarter", *po.RejectionReason)

	_, err = svc.ApproveAt(ctx, po.ID, 1, supervisor, nil)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))

	_, err = svc.RejectAt(ctx, po.ID, 1, supervisor, "again")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))

	history := store.HistoryEntries()
	last := history[len(history)-1]
	assert.Equal(t, models.ApprovalActionRejected, last.Action)
	require.NotNil(t, last.Comment)
	assert.Equal(t, "over budget for this quarter", *last.Comment)
}

func TestRejectRequiresReason(t *testing.T) {
	svc, _ := newApprovalFixture(t)

	po := submitOrder(t, svc, 7000)

	_, err := svc.RejectAt(context.Background(), po.ID, 1, supervisor, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestStatusKeepsLastMappedLabelAcrossUnmappedLevel(t *testing.T) {
	svc, _ := newApprovalFixture(t)
	ctx := context.Background()

	// 120000 requires the full chain through level 4.
	po := submitOrder(t, svc, 120000)

	po, err := svc.ApproveAt(ctx, po.ID, 1, supervisor, nil)
	require.NoError(t, err)
	po, err = svc.ApproveAt(ctx, po.ID, 2, manager, nil)
	require.NoError(t, err)

	// Level 3 has no status label of its own; the order advances while the
	// label stays at the management stage.
	po, err = svc.ApproveAt(ctx, po.ID, 3, director, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, po.CurrentLevel)
	assert.Equal(t, config.POStatusManagement, po.Status)

	po, err = svc.ApproveAt(ctx, po.ID, 4, buyer, nil)
	require.NoError(t, err)
	assert.Equal(t, config.POStatusQuoting, po.Status)
}

func TestPendingForRole(t *testing.T) {
	svc, _ := newApprovalFixture(t)
	ctx := context.Background()

	first := submitOrder(t, svc, 4000)  // awaiting level 1
	second := submitOrder(t, svc, 15000)
	_, err := svc.ApproveAt(ctx, second.ID, 1, supervisor, nil)
	require.NoError(t, err) // now awaiting level 2

	forSupervisor, err := svc.PendingForRole(ctx, "supervisor", 50, 0)
	require.NoError(t, err)
	require.Len(t, forSupervisor, 1)
	assert.Equal(t, first.ID, forSupervisor[0].ID)

	forManager, err := svc.PendingForRole(ctx, "gerente", 50, 0)
	require.NoError(t, err)
	require.Len(t, forManager, 1)
	assert.Equal(t, second.ID, forManager[0].ID)
}

func TestHistoryIsScopedToOrder(t *testing.T) {
	svc, _ := newApprovalFixture(t)
	ctx := context.Background()

	first := submitOrder(t, svc, 4000)
	second := submitOrder(t, svc, 4000)

	_, err := svc.ApproveAt(ctx, first.ID, 1, supervisor, nil)
	require.NoError(t, err)

	history, err := svc.History(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	history, err = svc.History(ctx, second.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestMissingWorkflowIsConfigurationError(t *testing.T) {
	store := mocks.NewStore()
	svc := services.NewApprovalService(store, logger.NewNop(), nil, nil, config.ApprovalConfig{})

	ctx := context.Background()
	po, err := svc.CreateOrder(ctx, &models.CreatePurchaseOrderRequest{Number: "OC-1", Amount: 100}, "x")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, po.ID, supervisor)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConfiguration))
}
