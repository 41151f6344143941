package models

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseOrder represents a procurement order moving through the
// multi-level approval workflow. Once it enters the approval phase it is
// mutated exclusively by the approval engine.
//
// Estado and nivel_aprobacion_actual keep their original wire names for
// compatibility with the existing fleet clients.
type PurchaseOrder struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Number          string    `json:"number" db:"number"`
	Description     *string   `json:"description,omitempty" db:"description"`
	Amount          float64   `json:"monto" db:"monto"`
	Status          string    `json:"estado" db:"estado"`
	CurrentLevel    int       `json:"nivel_aprobacion_actual" db:"nivel_aprobacion_actual"`
	RejectionReason *string   `json:"rejection_reason,omitempty" db:"rejection_reason"`
	RequestedBy     *string   `json:"requested_by,omitempty" db:"requested_by"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// CreatePurchaseOrderRequest represents the request to register a draft order
type CreatePurchaseOrderRequest struct {
	Number      string  `json:"number" validate:"required"`
	Description *string `json:"description,omitempty"`
	Amount      float64 `json:"monto" validate:"required,gt=0"`
}

// ApproveRequest approves the order at one workflow level
type ApproveRequest struct {
	Level   int     `json:"level" validate:"required,gte=1"`
	Comment *string `json:"comment,omitempty"`
}

// RejectRequest rejects the order at one workflow level
type RejectRequest struct {
	Level  int    `json:"level" validate:"required,gte=1"`
	Reason string `json:"reason" validate:"required"`
}
