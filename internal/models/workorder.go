package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// WorkOrderState represents the lifecycle state of a work order
type WorkOrderState string

const (
	WorkOrderStateOpen       WorkOrderState = "open"
	WorkOrderStateAssigned   WorkOrderState = "assigned"
	WorkOrderStateInProgress WorkOrderState = "in_progress"
	WorkOrderStatePaused     WorkOrderState = "paused"
	WorkOrderStateCompleted  WorkOrderState = "completed"
	WorkOrderStateCanceled   WorkOrderState = "canceled"
)

// Terminal reports whether no further transitions are permitted.
func (s WorkOrderState) Terminal() bool {
	return s == WorkOrderStateCompleted || s == WorkOrderStateCanceled
}

// WorkOrderType represents the maintenance category of a work order
type WorkOrderType string

const (
	WorkOrderTypePreventive WorkOrderType = "preventive"
	WorkOrderTypeCorrective WorkOrderType = "corrective"
	WorkOrderTypePredictive WorkOrderType = "predictive"
	WorkOrderTypeEmergency  WorkOrderType = "emergency"
)

// PartUsed records one part consumed while closing a work order
type PartUsed struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	UnitCost float64 `json:"unit_cost"`
}

// PartsUsed is stored as a JSONB column
type PartsUsed []PartUsed

// Scan implements the sql.Scanner interface for PartsUsed
func (p *PartsUsed) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		*p = nil
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Value implements the driver.Valuer interface for PartsUsed
func (p PartsUsed) Value() (driver.Value, error) {
	if p == nil {
		return json.Marshal([]PartUsed{})
	}
	return json.Marshal(p)
}

// WorkOrder represents a unit of maintenance work against one asset
type WorkOrder struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	AssetID      uuid.UUID      `json:"asset_id" db:"asset_id"`
	Title        string         `json:"title" db:"title"`
	Description  *string        `json:"description,omitempty" db:"description"`
	Type         WorkOrderType  `json:"type" db:"type"`
	Priority     string         `json:"priority" db:"priority"`
	State        WorkOrderState `json:"state" db:"state"`
	AssigneeID   *uuid.UUID     `json:"assignee_id,omitempty" db:"assignee_id"`
	PauseReason  *string        `json:"pause_reason,omitempty" db:"pause_reason"`
	CancelReason *string        `json:"cancel_reason,omitempty" db:"cancel_reason"`
	ClosingNotes *string        `json:"closing_notes,omitempty" db:"closing_notes"`
	Technician   *string        `json:"technician,omitempty" db:"technician"`
	ActualHours  *float64       `json:"actual_hours,omitempty" db:"actual_hours"`
	ActualCost   *float64       `json:"actual_cost,omitempty" db:"actual_cost"`
	PartsUsed    PartsUsed      `json:"parts_used,omitempty" db:"parts_used"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	AssignedAt   *time.Time     `json:"assigned_at,omitempty" db:"assigned_at"`
	StartedAt    *time.Time     `json:"started_at,omitempty" db:"started_at"`
	ClosedAt     *time.Time     `json:"closed_at,omitempty" db:"closed_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// CreateWorkOrderRequest represents the request to open a work order
type CreateWorkOrderRequest struct {
	AssetID     string  `json:"asset_id" validate:"required,uuid4"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description,omitempty"`
	Type        string  `json:"type" validate:"required,oneof=preventive corrective predictive emergency"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high critical"`
}

// AssignWorkOrderRequest represents the request to assign a technician
type AssignWorkOrderRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required,uuid4"`
}

// PauseWorkOrderRequest carries the audit reason for a pause
type PauseWorkOrderRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// CancelWorkOrderRequest carries the audit reason for a cancellation
type CancelWorkOrderRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// CloseWorkOrderRequest represents the closing report of a work order
type CloseWorkOrderRequest struct {
	Notes       string     `json:"notes" validate:"required"`
	Technician  string     `json:"technician" validate:"required"`
	ActualHours float64    `json:"actual_hours" validate:"gte=0"`
	ActualCost  float64    `json:"actual_cost" validate:"gte=0"`
	PartsUsed   []PartUsed `json:"parts_used,omitempty"`
}
