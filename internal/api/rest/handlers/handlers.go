package handlers

import (
	"github.com/fleetworks/fleet-maintenance/internal/services"
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
	"github.com/fleetworks/fleet-maintenance/pkg/validator"
)

// Handlers aggregates all HTTP handlers
type Handlers struct {
	Health        *HealthHandler
	Auth          *AuthHandler
	Asset         *AssetHandler
	WorkOrder     *WorkOrderHandler
	PurchaseOrder *PurchaseOrderHandler
	Workflow      *WorkflowHandler
}

// HealthCheckers holds the health check dependencies
type HealthCheckers struct {
	DB    HealthChecker
	Redis HealthChecker
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	log *logger.Logger,
	store services.Store,
	workOrderService *services.WorkOrderService,
	approvalService *services.ApprovalService,
	authService *services.AuthService,
	healthCheckers *HealthCheckers,
	version string,
) *Handlers {
	v := validator.New()

	return &Handlers{
		Health:        NewHealthHandler(log, healthCheckers.DB, healthCheckers.Redis, version),
		Auth:          NewAuthHandler(log, authService, v),
		Asset:         NewAssetHandler(log, store, workOrderService),
		WorkOrder:     NewWorkOrderHandler(log, workOrderService, v),
		PurchaseOrder: NewPurchaseOrderHandler(log, approvalService, v),
		Workflow:      NewWorkflowHandler(log, approvalService),
	}
}
