package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/internal/repository/postgres"
	"github.com/fleetworks/fleet-maintenance/internal/services"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
)

func TestWorkOrderLifecycleAgainstPostgres(t *testing.T) {
	s := SetupSuite(t)
	defer TeardownSuite(t)
	s.ResetDatabase(t)

	ctx := context.Background()
	store := postgres.NewStoreFromSQL(s.DB.DB, logger.NewNop())
	svc := services.NewWorkOrderService(store, logger.NewNop(), nil)

	asset := &models.Asset{Code: "F-0901", Name: "Scania R450", Status: models.AssetStatusOperational}
	require.NoError(t, store.Assets().Create(ctx, asset))

	wo, err := svc.Create(ctx, &models.CreateWorkOrderRequest{
		AssetID: asset.ID.String(),
		Title:   "Turbo replacement",
		Type:    string(models.WorkOrderTypeCorrective),
	})
	require.NoError(t, err)

	stored, err := store.Assets().GetByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetStatusUnavailable, stored.Status)

	// The asset is busy; a second order on it must not open.
	_, err = svc.Create(ctx, &models.CreateWorkOrderRequest{
		AssetID: asset.ID.String(),
		Title:   "Unrelated oil leak",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	// CAS guard: a stale update must not land.
	stale := *wo
	stale.State = models.WorkOrderStateInProgress
	err = store.WorkOrders().Update(ctx, &stale, models.WorkOrderStateAssigned)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	wo, err = svc.Close(ctx, wo.ID, &models.CloseWorkOrderRequest{
		Notes:      "Turbo swapped",
		Technician: "M. Duarte",
		ActualCost: 2150,
	})
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderStateCompleted, wo.State)

	stored, err = store.Assets().GetByID(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssetStatusOperational, stored.Status)

	entries, err := store.MaintenanceLogs().ListByAssetCode(ctx, "F-0901")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
