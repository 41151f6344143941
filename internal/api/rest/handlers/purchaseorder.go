package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fleetworks/fleet-maintenance/internal/api/rest/middleware"
	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/internal/services"
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
	"github.com/fleetworks/fleet-maintenance/pkg/validator"
)

// PurchaseOrderHandler handles purchase order HTTP requests
type PurchaseOrderHandler struct {
	logger    *logger.Logger
	service   *services.ApprovalService
	validator *validator.Validator
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(log *logger.Logger, service *services.ApprovalService, v *validator.Validator) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		logger:    log,
		service:   service,
		validator: v,
	}
}

// Create handles POST /api/v1/purchase-orders
func (h *PurchaseOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreatePurchaseOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		RespondAppError(w, err)
		return
	}

	po, err := h.service.CreateOrder(r.Context(), &req, actor.Name)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, po)
}

// Get handles GET /api/v1/purchase-orders/{id}
func (h *PurchaseOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	po, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, po)
}

// Submit handles POST /api/v1/purchase-orders/{id}/submit
func (h *PurchaseOrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	po, err := h.service.Submit(r.Context(), id, actor)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, po)
}

// Approve handles POST /api/v1/purchase-orders/{id}/approve
func (h *PurchaseOrderHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req models.ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		RespondAppError(w, err)
		return
	}

	po, err := h.service.ApproveAt(r.Context(), id, req.Level, actor, req.Comment)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, po)
}

// Reject handles POST /api/v1/purchase-orders/{id}/reject
func (h *PurchaseOrderHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req models.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		RespondAppError(w, err)
		return
	}

	po, err := h.service.RejectAt(r.Context(), id, req.Level, actor, req.Reason)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, po)
}

// History handles GET /api/v1/purchase-orders/{id}/history
func (h *PurchaseOrderHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	entries, err := h.service.History(r.Context(), id)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"history": entries,
		"count":   len(entries),
	})
}

// Pending handles GET /api/v1/purchase-orders/pending. It lists orders whose
// next approval level the caller's role may decide.
func (h *PurchaseOrderHandler) Pending(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit, offset := parsePagination(r)

	orders, err := h.service.PendingForRole(r.Context(), actor.Role, limit, offset)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"purchase_orders": orders,
		"count":           len(orders),
	})
}

func (h *PurchaseOrderHandler) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid purchase order ID")
		return uuid.Nil, false
	}
	return id, true
}
