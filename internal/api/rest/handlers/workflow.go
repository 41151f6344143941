package handlers

import (
	"net/http"

	"github.com/fleetworks/fleet-maintenance/internal/services"
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
)

// WorkflowHandler exposes the active approval workflow definition
type WorkflowHandler struct {
	logger  *logger.Logger
	service *services.ApprovalService
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(log *logger.Logger, service *services.ApprovalService) *WorkflowHandler {
	return &WorkflowHandler{
		logger:  log,
		service: service,
	}
}

// GetActive handles GET /api/v1/approval-workflows/active
func (h *WorkflowHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	wf, err := h.service.ActiveWorkflow(r.Context())
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, wf)
}
