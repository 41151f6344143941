package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
	"github.com/fleetworks/fleet-maintenance/pkg/config"
)

// PurchaseOrderRepository persists purchase orders
type PurchaseOrderRepository struct {
	db dbtx
}

func (r *PurchaseOrderRepository) Create(ctx context.Context, po *models.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (
			id, number, description, monto, estado, nivel_aprobacion_actual,
			requested_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`

	now := time.Now()
	po.CreatedAt = now
	po.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		po.ID, po.Number, po.Description, po.Amount, po.Status,
		po.CurrentLevel, po.RequestedBy, now,
	)
	if err != nil {
		return apperrors.Store(err, "failed to create purchase order")
	}
	return nil
}

func (r *PurchaseOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	query := `
		SELECT id, number, description, monto, estado, nivel_aprobacion_actual,
		       rejection_reason, requested_by, created_at, updated_at
		FROM purchase_orders
		WHERE id = $1`

	var po models.PurchaseOrder
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&po.ID, &po.Number, &po.Description, &po.Amount, &po.Status,
		&po.CurrentLevel, &po.RejectionReason, &po.RequestedBy,
		&po.CreatedAt, &po.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("purchase order", id.String())
	}
	if err != nil {
		return nil, apperrors.Store(err, "failed to get purchase order")
	}
	return &po, nil
}

// Update writes the order conditionally on the status and level it was read
// in. The guard is what keeps two racing approvers from both landing on the
// same level.
func (r *PurchaseOrderRepository) Update(ctx context.Context, po *models.PurchaseOrder, fromStatus string, fromLevel int) error {
	query := `
		UPDATE purchase_orders SET
			estado = $4, nivel_aprobacion_actual = $5, rejection_reason = $6,
			updated_at = $7
		WHERE id = $1 AND estado = $2 AND nivel_aprobacion_actual = $3`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		po.ID, fromStatus, fromLevel,
		po.Status, po.CurrentLevel, po.RejectionReason, now,
	)
	if err != nil {
		return apperrors.Store(err, "failed to update purchase order")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Store(err, "failed to check purchase order update result")
	}
	if affected == 0 {
		return apperrors.Conflict("purchase order %s was modified concurrently", po.ID)
	}
	po.UpdatedAt = now
	return nil
}

func (r *PurchaseOrderRepository) ListInApproval(ctx context.Context, limit, offset int) ([]models.PurchaseOrder, error) {
	query := `
		SELECT id, number, description, monto, estado, nivel_aprobacion_actual,
		       rejection_reason, requested_by, created_at, updated_at
		FROM purchase_orders
		WHERE estado NOT IN ($1, $2)
		ORDER BY created_at
		LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query, config.POStatusDraft, config.POStatusRejected, limit, offset)
	if err != nil {
		return nil, apperrors.Store(err, "failed to list purchase orders in approval")
	}
	defer rows.Close()

	orders := []models.PurchaseOrder{}
	for rows.Next() {
		var po models.PurchaseOrder
		if err := rows.Scan(
			&po.ID, &po.Number, &po.Description, &po.Amount, &po.Status,
			&po.CurrentLevel, &po.RejectionReason, &po.RequestedBy,
			&po.CreatedAt, &po.UpdatedAt,
		); err != nil {
			return nil, apperrors.Store(err, "failed to scan purchase order")
		}
		orders = append(orders, po)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store(err, "failed to iterate purchase orders")
	}
	return orders, nil
}
