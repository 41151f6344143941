package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fleetworks/fleet-maintenance/internal/api/rest/middleware"
	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/internal/services"
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
	"github.com/fleetworks/fleet-maintenance/pkg/validator"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	logger      *logger.Logger
	authService *services.AuthService
	validator   *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(log *logger.Logger, authService *services.AuthService, v *validator.Validator) *AuthHandler {
	return &AuthHandler{
		logger:      log,
		authService: authService,
		validator:   v,
	}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		RespondAppError(w, err)
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		// A failed login always reads the same to the caller.
		RespondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	RespondJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		RespondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": claims.UserID,
		"name":    claims.Name,
		"email":   claims.Email,
		"role":    claims.Role,
	})
}
