package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
)

// RespondJSON writes a JSON response with the given status code
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// RespondError writes a JSON error response
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"error": message})
}

// RespondAppError maps a domain error to its HTTP status. The error message
// is safe to surface: domain errors carry no driver or SQL detail.
func RespondAppError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch apperrors.CodeOf(err) {
	case apperrors.CodeValidation:
		status = http.StatusBadRequest
		message = err.Error()
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case apperrors.CodeInvalidState, apperrors.CodeSequence, apperrors.CodeConflict:
		status = http.StatusConflict
		message = err.Error()
	case apperrors.CodePermission:
		status = http.StatusForbidden
		message = err.Error()
	}

	RespondJSON(w, status, map[string]string{
		"error": message,
		"code":  string(apperrors.CodeOf(err)),
	})
}

// parsePagination reads limit/offset query parameters with sane bounds.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0

	q := r.URL.Query()
	if l := q.Get("limit"); l != "" {
		if v, err := atoiInRange(l, 1, 200); err == nil {
			limit = v
		}
	}
	if o := q.Get("offset"); o != "" {
		if v, err := atoiInRange(o, 0, 1<<30); err == nil {
			offset = v
		}
	}
	return limit, offset
}

func atoiInRange(s string, min, max int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < min || v > max {
		return 0, fmt.Errorf("value %d out of range [%d, %d]", v, min, max)
	}
	return v, nil
}
