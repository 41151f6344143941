package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ApprovalAction represents the action recorded in the audit trail
type ApprovalAction string

const (
	ApprovalActionApproved ApprovalAction = "approved"
	ApprovalActionRejected ApprovalAction = "rejected"
	ApprovalActionPending  ApprovalAction = "pending"
)

// ApprovalLevel is one authorization step in a workflow definition, gated
// by a monetary threshold and a set of authorized roles.
type ApprovalLevel struct {
	Level       int      `json:"level"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Threshold   float64  `json:"threshold"`
	Roles       []string `json:"roles"`
}

// HasRole reports whether the role may approve at this level.
func (l ApprovalLevel) HasRole(role string) bool {
	for _, r := range l.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ApprovalLevels is the ordered level configuration, stored as JSONB.
// The level config arrives as untyped JSON from the admin tooling and is
// parsed once here at the boundary.
type ApprovalLevels []ApprovalLevel

// Scan implements the sql.Scanner interface for ApprovalLevels
func (a *ApprovalLevels) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		*a = nil
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Value implements the driver.Valuer interface for ApprovalLevels
func (a ApprovalLevels) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal([]ApprovalLevel{})
	}
	return json.Marshal(a)
}

// ApprovalWorkflow is a workflow definition for one entity type. At most
// one definition per entity type is active at a time.
type ApprovalWorkflow struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	EntityType string         `json:"entity_type" db:"entity_type"`
	Name       string         `json:"name" db:"name"`
	Active     bool           `json:"active" db:"active"`
	Levels     ApprovalLevels `json:"levels" db:"levels"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// LevelAt returns the level definition with the given number.
func (w *ApprovalWorkflow) LevelAt(n int) (ApprovalLevel, bool) {
	for _, l := range w.Levels {
		if l.Level == n {
			return l, true
		}
	}
	return ApprovalLevel{}, false
}

// ApprovalHistoryEntry is an append-only audit record of one approval
// action. Entries are never mutated.
type ApprovalHistoryEntry struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	EntityType   string         `json:"entity_type" db:"entity_type"`
	EntityID     uuid.UUID      `json:"entity_id" db:"entity_id"`
	Level        int            `json:"level" db:"level"`
	LevelName    string         `json:"level_name" db:"level_name"`
	ApproverID   uuid.UUID      `json:"approver_id" db:"approver_id"`
	ApproverName string         `json:"approver_name" db:"approver_name"`
	Action       ApprovalAction `json:"action" db:"action"`
	Comment      *string        `json:"comment,omitempty" db:"comment"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}
