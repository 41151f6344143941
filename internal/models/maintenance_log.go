package models

import (
	"time"

	"github.com/google/uuid"
)

// MaintenanceLogEntry is an append-only record tied to an asset code.
// Entries are produced automatically on work order creation and close,
// never updated or deleted.
type MaintenanceLogEntry struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	AssetCode   string     `json:"ficha" db:"ficha"`
	WorkOrderID *uuid.UUID `json:"work_order_id,omitempty" db:"work_order_id"`
	Detail      string     `json:"detail" db:"detail"`
	Cost        *float64   `json:"cost,omitempty" db:"cost"`
	Technician  *string    `json:"technician,omitempty" db:"technician"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
