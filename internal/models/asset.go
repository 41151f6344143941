package models

import (
	"time"

	"github.com/google/uuid"
)

// AssetStatus represents the operational status of a fleet asset
type AssetStatus string

const (
	AssetStatusOperational  AssetStatus = "operational"
	AssetStatusInWorkshop   AssetStatus = "in_workshop"
	AssetStatusAwaitingPart AssetStatus = "awaiting_part"
	AssetStatusUnavailable  AssetStatus = "unavailable"
)

// Asset represents a fleet vehicle or piece of equipment. Its status is
// mutated only as a side effect of work order transitions.
type Asset struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Code      string      `json:"ficha" db:"ficha"`
	Name      string      `json:"name" db:"name"`
	Category  *string     `json:"category,omitempty" db:"category"`
	Status    AssetStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}
