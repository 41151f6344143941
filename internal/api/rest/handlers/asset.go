package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fleetworks/fleet-maintenance/internal/services"
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
)

// AssetHandler handles fleet asset HTTP requests
type AssetHandler struct {
	logger  *logger.Logger
	store   services.Store
	woSvc   *services.WorkOrderService
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(log *logger.Logger, store services.Store, woSvc *services.WorkOrderService) *AssetHandler {
	return &AssetHandler{
		logger: log,
		store:  store,
		woSvc:  woSvc,
	}
}

// List handles GET /api/v1/assets
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	assets, err := h.store.Assets().List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Errorf("Failed to list assets: %v", err)
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"assets": assets,
		"count":  len(assets),
	})
}

// Get handles GET /api/v1/assets/{id}
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid asset ID")
		return
	}

	asset, err := h.store.Assets().GetByID(r.Context(), id)
	if err != nil {
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, asset)
}

// MaintenanceLog handles GET /api/v1/assets/ficha/{ficha}/log
func (h *AssetHandler) MaintenanceLog(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "ficha")
	if code == "" {
		RespondError(w, http.StatusBadRequest, "Asset code is required")
		return
	}

	entries, err := h.woSvc.MaintenanceLog(r.Context(), code)
	if err != nil {
		h.logger.Errorf("Failed to list maintenance log: %v", err)
		RespondAppError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ficha":   code,
		"entries": entries,
		"count":   len(entries),
	})
}
