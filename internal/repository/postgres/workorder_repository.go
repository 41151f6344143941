package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
)

// WorkOrderRepository persists work orders
type WorkOrderRepository struct {
	db dbtx
}

const workOrderColumns = `
	id, asset_id, title, description, type, priority, state,
	assignee_id, pause_reason, cancel_reason, closing_notes, technician,
	actual_hours, actual_cost, parts_used,
	created_at, assigned_at, started_at, closed_at, updated_at`

func (r *WorkOrderRepository) Create(ctx context.Context, wo *models.WorkOrder) error {
	query := `
		INSERT INTO work_orders (
			id, asset_id, title, description, type, priority, state,
			parts_used, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`

	now := time.Now()
	wo.CreatedAt = now
	wo.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		wo.ID, wo.AssetID, wo.Title, wo.Description, wo.Type, wo.Priority,
		wo.State, wo.PartsUsed, now,
	)
	if err != nil {
		return apperrors.Store(err, "failed to create work order")
	}
	return nil
}

func (r *WorkOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_orders WHERE id = $1`, workOrderColumns)

	wo, err := scanWorkOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("work order", id.String())
	}
	if err != nil {
		return nil, apperrors.Store(err, "failed to get work order")
	}
	return wo, nil
}

func (r *WorkOrderRepository) List(ctx context.Context, assetID *uuid.UUID, state *models.WorkOrderState, limit, offset int) ([]models.WorkOrder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM work_orders
		WHERE ($1::uuid IS NULL OR asset_id = $1)
		  AND ($2::text IS NULL OR state = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, workOrderColumns)

	rows, err := r.db.QueryContext(ctx, query, assetID, state, limit, offset)
	if err != nil {
		return nil, apperrors.Store(err, "failed to list work orders")
	}
	defer rows.Close()

	orders := []models.WorkOrder{}
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, apperrors.Store(err, "failed to scan work order")
		}
		orders = append(orders, *wo)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store(err, "failed to iterate work orders")
	}
	return orders, nil
}

func (r *WorkOrderRepository) CountActiveForAsset(ctx context.Context, assetID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM work_orders
		WHERE asset_id = $1 AND state NOT IN ($2, $3)`

	var count int
	err := r.db.QueryRowContext(ctx, query, assetID,
		models.WorkOrderStateCompleted, models.WorkOrderStateCanceled,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Store(err, "failed to count active work orders")
	}
	return count, nil
}

// Update writes the order conditionally on the state it was read in. Zero
// rows affected means another writer got there first.
func (r *WorkOrderRepository) Update(ctx context.Context, wo *models.WorkOrder, fromState models.WorkOrderState) error {
	query := `
		UPDATE work_orders SET
			state = $3, assignee_id = $4, pause_reason = $5, cancel_reason = $6,
			closing_notes = $7, technician = $8, actual_hours = $9, actual_cost = $10,
			parts_used = $11, assigned_at = $12, started_at = $13, closed_at = $14,
			updated_at = $15
		WHERE id = $1 AND state = $2`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		wo.ID, fromState,
		wo.State, wo.AssigneeID, wo.PauseReason, wo.CancelReason,
		wo.ClosingNotes, wo.Technician, wo.ActualHours, wo.ActualCost,
		wo.PartsUsed, wo.AssignedAt, wo.StartedAt, wo.ClosedAt, now,
	)
	if err != nil {
		return apperrors.Store(err, "failed to update work order")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Store(err, "failed to check work order update result")
	}
	if affected == 0 {
		return apperrors.Conflict("work order %s was modified concurrently", wo.ID)
	}
	wo.UpdatedAt = now
	return nil
}

// scannable covers *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...interface{}) error
}

func scanWorkOrder(row scannable) (*models.WorkOrder, error) {
	var wo models.WorkOrder
	err := row.Scan(
		&wo.ID, &wo.AssetID, &wo.Title, &wo.Description, &wo.Type, &wo.Priority, &wo.State,
		&wo.AssigneeID, &wo.PauseReason, &wo.CancelReason, &wo.ClosingNotes, &wo.Technician,
		&wo.ActualHours, &wo.ActualCost, &wo.PartsUsed,
		&wo.CreatedAt, &wo.AssignedAt, &wo.StartedAt, &wo.ClosedAt, &wo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wo, nil
}
