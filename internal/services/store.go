package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/fleetworks/fleet-maintenance/internal/models"
)

// AssetRepository defines the interface for asset persistence
type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	List(ctx context.Context, limit, offset int) ([]models.Asset, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.AssetStatus) error
}

// WorkOrderRepository defines the interface for work order persistence
type WorkOrderRepository interface {
	Create(ctx context.Context, wo *models.WorkOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error)
	List(ctx context.Context, assetID *uuid.UUID, state *models.WorkOrderState, limit, offset int) ([]models.WorkOrder, error)
	// CountActiveForAsset counts the asset's work orders in a non-terminal
	// state. An asset carries at most one at a time.
	CountActiveForAsset(ctx context.Context, assetID uuid.UUID) (int, error)
	// Update persists wo only while the stored row is still in fromState.
	// A row changed underneath us surfaces as a ConflictError.
	Update(ctx context.Context, wo *models.WorkOrder, fromState models.WorkOrderState) error
}

// MaintenanceLogRepository is append-only; entries are never updated or deleted.
type MaintenanceLogRepository interface {
	Append(ctx context.Context, entry *models.MaintenanceLogEntry) error
	ListByAssetCode(ctx context.Context, code string) ([]models.MaintenanceLogEntry, error)
}

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *models.PurchaseOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	// Update persists po only while the stored row still carries fromStatus
	// and fromLevel, so two racing approvals cannot both land.
	Update(ctx context.Context, po *models.PurchaseOrder, fromStatus string, fromLevel int) error
	ListInApproval(ctx context.Context, limit, offset int) ([]models.PurchaseOrder, error)
}

// WorkflowRepository defines the interface for approval workflow definitions
type WorkflowRepository interface {
	// GetActiveByEntityType returns the single active definition for the
	// entity type; zero or multiple active rows is a ConfigurationError.
	GetActiveByEntityType(ctx context.Context, entityType string) (*models.ApprovalWorkflow, error)
	Create(ctx context.Context, wf *models.ApprovalWorkflow) error
}

// ApprovalHistoryRepository is append-only; the audit trail is never mutated.
type ApprovalHistoryRepository interface {
	Append(ctx context.Context, entry *models.ApprovalHistoryEntry) error
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]models.ApprovalHistoryEntry, error)
}

// Store aggregates the repositories and provides the unit-of-work boundary
// for multi-entity writes.
type Store interface {
	Assets() AssetRepository
	WorkOrders() WorkOrderRepository
	MaintenanceLogs() MaintenanceLogRepository
	PurchaseOrders() PurchaseOrderRepository
	Workflows() WorkflowRepository
	ApprovalHistory() ApprovalHistoryRepository

	// WithinTx runs fn against a transactional view of the store. All
	// writes inside fn commit together or not at all; concurrent readers
	// never observe a half-applied operation.
	WithinTx(ctx context.Context, fn func(Store) error) error
}
