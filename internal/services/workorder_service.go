package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fleetworks/fleet-maintenance/internal/engine"
	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
	"github.com/fleetworks/fleet-maintenance/pkg/metrics"
)

// WorkOrderService drives the work order lifecycle and keeps the owning
// asset's status and the maintenance log in sync with it.
type WorkOrderService struct {
	store   Store
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewWorkOrderService creates a new work order service. metrics may be nil.
func NewWorkOrderService(store Store, log *logger.Logger, m *metrics.Metrics) *WorkOrderService {
	return &WorkOrderService{
		store:   store,
		logger:  log,
		metrics: m,
	}
}

// Create opens a work order on an asset. The asset is taken out of service
// and the request is recorded in the maintenance log, all in one unit of
// work.
func (s *WorkOrderService) Create(ctx context.Context, req *models.CreateWorkOrderRequest) (*models.WorkOrder, error) {
	if req.AssetID == "" {
		return nil, apperrors.Validation("asset reference is required")
	}
	if req.Title == "" {
		return nil, apperrors.Validation("title is required")
	}

	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		return nil, apperrors.Validation("invalid asset reference: %v", err)
	}

	orderType := models.WorkOrderType(req.Type)
	if orderType == "" {
		orderType = models.WorkOrderTypeCorrective
	}
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	wo := &models.WorkOrder{
		ID:          uuid.New(),
		AssetID:     assetID,
		Title:       req.Title,
		Description: req.Description,
		Type:        orderType,
		Priority:    priority,
		State:       models.WorkOrderStateOpen,
		CreatedAt:   time.Now(),
	}

	err = s.store.WithinTx(ctx, func(tx Store) error {
		asset, err := tx.Assets().GetByID(ctx, assetID)
		if err != nil {
			return err
		}

		active, err := tx.WorkOrders().CountActiveForAsset(ctx, assetID)
		if err != nil {
			return err
		}
		if active > 0 {
			return apperrors.Conflict("asset %s already has an active work order", asset.Code)
		}

		if err := tx.WorkOrders().Create(ctx, wo); err != nil {
			return err
		}

		if err := tx.Assets().UpdateStatus(ctx, asset.ID, models.AssetStatusUnavailable); err != nil {
			return err
		}

		entry := &models.MaintenanceLogEntry{
			ID:          uuid.New(),
			AssetCode:   asset.Code,
			WorkOrderID: &wo.ID,
			Detail:      fmt.Sprintf("Maintenance requested (%s): %s", wo.Type, wo.Title),
			CreatedAt:   time.Now(),
		}
		return tx.MaintenanceLogs().Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Work order created",
		logger.String("work_order_id", wo.ID.String()),
		logger.String("asset_id", assetID.String()),
		logger.String("type", string(wo.Type)),
	)
	s.countTransition(models.WorkOrderStateOpen)

	return wo, nil
}

// Assign assigns a technician. Legal from open, and from assigned for
// re-assignment before work starts; an order in progress stays with its
// technician.
func (s *WorkOrderService) Assign(ctx context.Context, id, assigneeID uuid.UUID) (*models.WorkOrder, error) {
	return s.transition(ctx, id, engine.EventAssign, func(wo *models.WorkOrder) {
		now := time.Now()
		wo.AssigneeID = &assigneeID
		wo.AssignedAt = &now
	}, nil)
}

// Start moves an assigned order into progress; the asset enters the workshop.
func (s *WorkOrderService) Start(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error) {
	return s.transition(ctx, id, engine.EventStart, func(wo *models.WorkOrder) {
		now := time.Now()
		wo.StartedAt = &now
	}, nil)
}

// Pause suspends work, typically while awaiting a part. The reason is kept
// for audit.
func (s *WorkOrderService) Pause(ctx context.Context, id uuid.UUID, reason string) (*models.WorkOrder, error) {
	if reason == "" {
		return nil, apperrors.Validation("pause reason is required")
	}
	return s.transition(ctx, id, engine.EventPause, func(wo *models.WorkOrder) {
		wo.PauseReason = &reason
	}, nil)
}

// Resume puts a paused order back in progress.
func (s *WorkOrderService) Resume(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error) {
	return s.transition(ctx, id, engine.EventResume, func(wo *models.WorkOrder) {
		wo.PauseReason = nil
	}, nil)
}

// Close completes the order, releases the asset back to operational and
// writes the closing summary to the maintenance log.
func (s *WorkOrderService) Close(ctx context.Context, id uuid.UUID, req *models.CloseWorkOrderRequest) (*models.WorkOrder, error) {
	if req.Notes == "" {
		return nil, apperrors.Validation("closing notes are required")
	}
	if req.Technician == "" {
		return nil, apperrors.Validation("technician is required")
	}

	mutate := func(wo *models.WorkOrder) {
		now := time.Now()
		wo.ClosedAt = &now
		wo.ClosingNotes = &req.Notes
		wo.Technician = &req.Technician
		wo.ActualHours = &req.ActualHours
		wo.ActualCost = &req.ActualCost
		wo.PartsUsed = req.PartsUsed
	}

	after := func(tx Store, wo *models.WorkOrder) error {
		asset, err := tx.Assets().GetByID(ctx, wo.AssetID)
		if err != nil {
			return err
		}
		entry := &models.MaintenanceLogEntry{
			ID:          uuid.New(),
			AssetCode:   asset.Code,
			WorkOrderID: &wo.ID,
			Detail:      fmt.Sprintf("Work order closed: %s. %s", wo.Title, req.Notes),
			Cost:        &req.ActualCost,
			Technician:  &req.Technician,
			CreatedAt:   time.Now(),
		}
		return tx.MaintenanceLogs().Append(ctx, entry)
	}

	return s.transition(ctx, id, engine.EventClose, mutate, after)
}

// Cancel voids the order and releases the asset. Cancellations are not
// written to the maintenance log; the reason lives on the order itself.
func (s *WorkOrderService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*models.WorkOrder, error) {
	if reason == "" {
		return nil, apperrors.Validation("cancellation reason is required")
	}
	return s.transition(ctx, id, engine.EventCancel, func(wo *models.WorkOrder) {
		wo.CancelReason = &reason
	}, nil)
}

// Get retrieves a work order by ID
func (s *WorkOrderService) Get(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error) {
	return s.store.WorkOrders().GetByID(ctx, id)
}

// List retrieves work orders with optional asset and state filters
func (s *WorkOrderService) List(ctx context.Context, assetID *uuid.UUID, state *models.WorkOrderState, limit, offset int) ([]models.WorkOrder, error) {
	return s.store.WorkOrders().List(ctx, assetID, state, limit, offset)
}

// MaintenanceLog returns the append-only log for an asset code, oldest first.
func (s *WorkOrderService) MaintenanceLog(ctx context.Context, assetCode string) ([]models.MaintenanceLogEntry, error) {
	return s.store.MaintenanceLogs().ListByAssetCode(ctx, assetCode)
}

// transition applies one state machine event inside a unit of work. The
// work order update, the asset status update and any log append commit
// together; the CAS guard in Update turns a lost race into ConflictError.
func (s *WorkOrderService) transition(
	ctx context.Context,
	id uuid.UUID,
	event engine.WorkOrderEvent,
	mutate func(*models.WorkOrder),
	after func(Store, *models.WorkOrder) error,
) (*models.WorkOrder, error) {
	var updated *models.WorkOrder

	err := s.store.WithinTx(ctx, func(tx Store) error {
		wo, err := tx.WorkOrders().GetByID(ctx, id)
		if err != nil {
			return err
		}

		from := wo.State
		to, err := engine.Transition(from, event)
		if err != nil {
			return err
		}

		wo.State = to
		if mutate != nil {
			mutate(wo)
		}

		if err := tx.WorkOrders().Update(ctx, wo, from); err != nil {
			return err
		}

		if engine.AssetStatusFor(to) != engine.AssetStatusFor(from) {
			if err := tx.Assets().UpdateStatus(ctx, wo.AssetID, engine.AssetStatusFor(to)); err != nil {
				return err
			}
		}

		if after != nil {
			if err := after(tx, wo); err != nil {
				return err
			}
		}

		updated = wo
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Work order transition",
		logger.String("work_order_id", id.String()),
		logger.String("event", string(event)),
		logger.String("state", string(updated.State)),
	)
	s.countTransition(updated.State)

	return updated, nil
}

func (s *WorkOrderService) countTransition(to models.WorkOrderState) {
	if s.metrics == nil {
		return
	}
	s.metrics.WorkOrderTransitionsTotal.WithLabelValues(string(to)).Inc()
}
