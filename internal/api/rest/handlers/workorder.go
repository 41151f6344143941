package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/internal/services"
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
	"github.com/fleetworks/fleet-maintenance/pkg/validator"
)

// WorkOrderHandler handles work order HTTP requests
type WorkOrderHandler struct {
	logger    *logger.Logger
	service   *services.WorkOrderService
	validator *validator.Validator
}

// NewWorkOrderHandler creates a new work order handler
func NewWorkOrderHandler(log *logger.Logger, service *services.WorkOrderService, v *validator.Validator) *WorkOrderHandler {
	return &WorkOrderHandler{
		logger:    log,
		service:   service,
		validator: v,
	}
}

// Create handles POST /api/v1/work-orders
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Type == "" {
		req.Type = string(models.WorkOrderTypeCorrective)
	}
	if err := h.validator.Validate(&req); err != nil {
		RespondAppError(w, err)
		return
	}

	wo, err := h.service.Create(r.Context(), &req)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, wo)
}

// List handles GET /api/v1/work-orders
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	var assetID *uuid.UUID
	if s := r.URL.Query().Get("asset_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			RespondError(w, http.StatusBadRequest, "Invalid asset_id")
			return
		}
		assetID = &id
	}

	var state *models.WorkOrderState
	if s := r.URL.Query().Get("state"); s != "" {
		st := models.WorkOrderState(s)
		state = &st
	}

	orders, err := h.service.List(r.Context(), assetID, state, limit, offset)
	if err != nil {
		h.logger.Errorf("Failed to list work orders: %v", err)
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"work_orders": orders,
		"count":       len(orders),
	})
}

// Get handles GET /api/v1/work-orders/{id}
func (h *WorkOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	wo, err := h.service.Get(r.Context(), id)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, wo)
}

// Assign handles POST /api/v1/work-orders/{id}/assign
func (h *WorkOrderHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req models.AssignWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		RespondAppError(w, err)
		return
	}

	assigneeID, err := uuid.Parse(req.AssigneeID)
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid assignee_id")
		return
	}

	wo, err := h.service.Assign(r.Context(), id, assigneeID)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, wo)
}

// Start handles POST /api/v1/work-orders/{id}/start
func (h *WorkOrderHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	wo, err := h.service.Start(r.Context(), id)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, wo)
}

// Pause handles POST /api/v1/work-orders/{id}/pause
func (h *WorkOrderHandler) Pause(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req models.PauseWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	wo, err := h.service.Pause(r.Context(), id, req.Reason)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, wo)
}

// Resume handles POST /api/v1/work-orders/{id}/resume
func (h *WorkOrderHandler) Resume(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	wo, err := h.service.Resume(r.Context(), id)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, wo)
}

// Close handles POST /api/v1/work-orders/{id}/close
func (h *WorkOrderHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req models.CloseWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		RespondAppError(w, err)
		return
	}

	wo, err := h.service.Close(r.Context(), id, &req)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, wo)
}

// Cancel handles POST /api/v1/work-orders/{id}/cancel
func (h *WorkOrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req models.CancelWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	wo, err := h.service.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, wo)
}

func (h *WorkOrderHandler) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid work order ID")
		return uuid.Nil, false
	}
	return id, true
}
