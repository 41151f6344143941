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
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
)

func newWorkOrderFixture(t *testing.T) (*services.WorkOrderService, *mocks.Store, uuid.UUID) {
	t.Helper()
	store := mocks.NewStore()
	assetID := store.AddAsset(models.Asset{
		Code:   "F-0117",
		Name:   "Volvo FH16 tractor",
		Status: models.AssetStatusOperational,
	})
	svc := services.NewWorkOrderService(store, logger.NewNop(), nil)
	return svc, store, assetID
}

func TestWorkOrderFullLifecycle(t *testing.T) {
	svc, store, assetID := newWorkOrderFixture(t)
	ctx := context.Background()

	wo, err := svc.Create(ctx, &models.CreateWorkOrderRequest{
		AssetID: assetID.String(),
		Title:   "Replace brake pads",
		Type:    string(models.WorkOrderTypeCorrective),
	})
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderStateOpen, wo.State)

	asset, err := store.Assets().GetByID(ctx, assetID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetStatusUnavailable, asset.Status)

	entries := store.LogEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "F-0117", entries[0].AssetCode)
	assert.Contains(t, entries[0].Detail, "Replace brake pads")

	techID := uuid.New()
	wo, err = svc.Assign(ctx, wo.ID, techID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderStateAssigned, wo.State)
	require.NotNil(t, wo.AssigneeID)
	assert.Equal(t, techID, *wo.AssigneeID)

	wo, err = svc.Start(ctx, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderStateInProgress, wo.State)

	asset, _ = store.Assets().GetByID(ctx, assetID)
	assert.Equal(t, models.AssetStatusInWorkshop, asset.Status)

	wo, err = svc.Pause(ctx, wo.ID, "awaiting brake pad shipment")
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderStatePaused, wo.State)

	asset, _ = store.Assets().GetByID(ctx, assetID)
	assert.Equal(t, models.AssetStatusAwaitingPart, asset.Status)

	wo, err = svc.Resume(ctx, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderStateInProgress, wo.State)
	assert.Nil(t, wo.PauseReason)

	wo, err = svc.Close(ctx, wo.ID, &models.CloseWorkOrderRequest{
		Notes:       "Pads replaced, rotors within tolerance",
		Technician:  "M. Duarte",
		ActualHours: 3.5,
		ActualCost:  412.80,
	})
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderStateCompleted, wo.State)
	assert.NotNil(t, wo.ClosedAt)

	asset, _ = store.Assets().GetByID(ctx, assetID)
	assert.Equal(t, models.AssetStatusOperational, asset.Status)

	entries = store.LogEntries()
	require.Len(t, entries, 2)
	closing := entries[1]
	require.NotNil(t, closing.Cost)
	assert.InDelta(t, 412.80, *closing.Cost, 0.001)
	require.NotNil(t, closing.Technician)
	assert.Equal(t, "M. Duarte", *closing.Technician)
}

func TestCreateWorkOrderValidation(t *testing.T) {
	svc, _, assetID := newWorkOrderFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *models.CreateWorkOrderRequest
		code apperrors.Code
	}{
		{
			name: "missing asset reference",
			req:  &models.CreateWorkOrderRequest{Title: "x"},
			code: apperrors.CodeValidation,
		},
		{
			name: "missing title",
			req:  &models.CreateWorkOrderRequest{AssetID: assetID.String()},
			code: apperrors.CodeValidation,
		},
		{
			name: "malformed asset reference",
			req:  &models.CreateWorkOrderRequest{AssetID: "not-a-uuid", Title: "x"},
			code: apperrors.CodeValidation,
		},
		{
			name: "unknown asset",
			req:  &models.CreateWorkOrderRequest{AssetID: uuid.NewString(), Title: "x"},
			code: apperrors.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestSecondWorkOrderOnBusyAssetIsRejected(t *testing.T) {
	svc, store, assetID := newWorkOrderFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, &models.CreateWorkOrderRequest{AssetID: assetID.String(), Title: "Clutch replacement"})
	require.NoError(t, err)

	// One active order per asset; otherwise closing the first would release
	// the asset while the second still holds it.
	_, err = svc.Create(ctx, &models.CreateWorkOrderRequest{AssetID: assetID.String(), Title: "Wiper motor"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	_, err = svc.Close(ctx, first.ID, &models.CloseWorkOrderRequest{
		Notes:      "Clutch replaced",
		Technician: "M. Duarte",
	})
	require.NoError(t, err)

	asset, _ := store.Assets().GetByID(ctx, assetID)
	assert.Equal(t, models.AssetStatusOperational, asset.Status)

	// Terminal orders no longer hold the asset.
	_, err = svc.Create(ctx, &models.CreateWorkOrderRequest{AssetID: assetID.String(), Title: "Wiper motor"})
	require.NoError(t, err)
}

func TestStartRequiresAssignment(t *testing.T) {
	svc, _, assetID := newWorkOrderFixture(t)
	ctx := context.Background()

	wo, err := svc.Create(ctx, &models.CreateWorkOrderRequest{AssetID: assetID.String(), Title: "Oil change"})
	require.NoError(t, err)

	_, err = svc.Start(ctx, wo.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}

func TestReassignOnlyBeforeStart(t *testing.T) {
	svc, _, assetID := newWorkOrderFixture(t)
	ctx := context.Background()

	wo, err := svc.Create(ctx, &models.CreateWorkOrderRequest{AssetID: assetID.String(), Title: "Gearbox inspection"})
	require.NoError(t, err)

	first := uuid.New()
	second := uuid.New()

	wo, err = svc.Assign(ctx, wo.ID, first)
	require.NoError(t, err)

	// Re-assignment before work starts is legal.
	wo, err = svc.Assign(ctx, wo.ID, second)
	require.NoError(t, err)
	assert.Equal(t, second, *wo.AssigneeID)

	wo, err = svc.Start(ctx, wo.ID)
	require.NoError(t, err)

	_, err = svc.Assign(ctx, wo.ID, first)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}

func TestTerminalStatesRejectAllEvents(t *testing.T) {
	svc, _, assetID := newWorkOrderFixture(t)
	ctx := context.Background()

	wo, err := svc.Create(ctx, &models.CreateWorkOrderRequest{AssetID: assetID.String(), Title: "Coolant flush"})
	require.NoError(t, err)

	wo, err = svc.Close(ctx, wo.ID, &models.CloseWorkOrderRequest{
		Notes:      "Done without assignment",
		Technician: "J. Brenes",
	})
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderStateCompleted, wo.State)

	_, err = svc.Assign(ctx, wo.ID, uuid.New())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))

	_, err = svc.Cancel(ctx, wo.ID, "too late")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))

	_, err = svc.Close(ctx, wo.ID, &models.CloseWorkOrderRequest{Notes: "again", Technician: "J. Brenes"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}

func TestCancelReleasesAssetWithoutLogEntry(t *testing.T) {
	svc, store, assetID := newWorkOrderFixture(t)
	ctx := context.Background()

	wo, err := svc.Create(ctx, &models.CreateWorkOrderRequest{AssetID: assetID.String(), Title: "Duplicate request"})
	require.NoError(t, err)

	before := len(store.LogEntries())

	wo, err = svc.Cancel(ctx, wo.ID, "duplicate of another order")
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderStateCanceled, wo.State)
	require.NotNil(t, wo.CancelReason)

	asset, _ := store.Assets().GetByID(ctx, assetID)
	assert.Equal(t, models.AssetStatusOperational, asset.Status)

	// Cancellation leaves no trace in the maintenance log.
	assert.Len(t, store.LogEntries(), before)
}

func TestPauseAndCancelRequireReason(t *testing.T) {
	svc, _, assetID := newWorkOrderFixture(t)
	ctx := context.Background()

	wo, err := svc.Create(ctx, &models.CreateWorkOrderRequest{AssetID: assetID.String(), Title: "Electrical fault"})
	require.NoError(t, err)

	_, err = svc.Pause(ctx, wo.ID, "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = svc.Cancel(ctx, wo.ID, "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestCloseValidation(t *testing.T) {
	svc, _, assetID := newWorkOrderFixture(t)
	ctx := context.Background()

	wo, err := svc.Create(ctx, &models.CreateWorkOrderRequest{AssetID: assetID.String(), Title: "Tire rotation"})
	require.NoError(t, err)

	_, err = svc.Close(ctx, wo.ID, &models.CloseWorkOrderRequest{Technician: "A. Solis"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = svc.Close(ctx, wo.ID, &models.CloseWorkOrderRequest{Notes: "rotated"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestMaintenanceLogByAssetCode(t *testing.T) {
	svc, store, assetID := newWorkOrderFixture(t)
	ctx := context.Background()

	otherID := store.AddAsset(models.Asset{Code: "F-0220", Name: "Loader", Status: models.AssetStatusOperational})

	_, err := svc.Create(ctx, &models.CreateWorkOrderRequest{AssetID: assetID.String(), Title: "Service A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.CreateWorkOrderRequest{AssetID: otherID.String(), Title: "Service B"})
	require.NoError(t, err)

	entries, err := svc.MaintenanceLog(ctx, "F-0117")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Detail, "Service A")
}
