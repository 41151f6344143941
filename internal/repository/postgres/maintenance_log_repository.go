package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
)

// MaintenanceLogRepository persists the append-only maintenance log.
// There is no update or delete path on this table.
type MaintenanceLogRepository struct {
	db dbtx
}

func (r *MaintenanceLogRepository) Append(ctx context.Context, entry *models.MaintenanceLogEntry) error {
	query := `
		INSERT INTO maintenance_logs (id, ficha, work_order_id, detail, cost, technician, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.AssetCode, entry.WorkOrderID, entry.Detail,
		entry.Cost, entry.Technician, entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Store(err, "failed to append maintenance log entry")
	}
	return nil
}

func (r *MaintenanceLogRepository) ListByAssetCode(ctx context.Context, code string) ([]models.MaintenanceLogEntry, error) {
	query := `
		SELECT id, ficha, work_order_id, detail, cost, technician, created_at
		FROM maintenance_logs
		WHERE ficha = $1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, code)
	if err != nil {
		return nil, apperrors.Store(err, "failed to list maintenance log")
	}
	defer rows.Close()

	entries := []models.MaintenanceLogEntry{}
	for rows.Next() {
		var e models.MaintenanceLogEntry
		if err := rows.Scan(&e.ID, &e.AssetCode, &e.WorkOrderID, &e.Detail, &e.Cost, &e.Technician, &e.CreatedAt); err != nil {
			return nil, apperrors.Store(err, "failed to scan maintenance log entry")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store(err, "failed to iterate maintenance log")
	}
	return entries, nil
}
