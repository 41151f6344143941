package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
)

// ApprovalHistoryRepository persists the append-only approval audit trail.
type ApprovalHistoryRepository struct {
	db dbtx
}

func (r *ApprovalHistoryRepository) Append(ctx context.Context, entry *models.ApprovalHistoryEntry) error {
	query := `
		INSERT INTO approval_history (
			id, entity_type, entity_id, level, level_name,
			approver_id, approver_name, action, comment, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.EntityType, entry.EntityID, entry.Level, entry.LevelName,
		entry.ApproverID, entry.ApproverName, entry.Action, entry.Comment, entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Store(err, "failed to append approval history entry")
	}
	return nil
}

func (r *ApprovalHistoryRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]models.ApprovalHistoryEntry, error) {
	query := `
		SELECT id, entity_type, entity_id, level, level_name,
		       approver_id, approver_name, action, comment, created_at
		FROM approval_history
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at, level`

	rows, err := r.db.QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		return nil, apperrors.Store(err, "failed to list approval history")
	}
	defer rows.Close()

	entries := []models.ApprovalHistoryEntry{}
	for rows.Next() {
		var e models.ApprovalHistoryEntry
		if err := rows.Scan(
			&e.ID, &e.EntityType, &e.EntityID, &e.Level, &e.LevelName,
			&e.ApproverID, &e.ApproverName, &e.Action, &e.Comment, &e.CreatedAt,
		); err != nil {
			return nil, apperrors.Store(err, "failed to scan approval history entry")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store(err, "failed to iterate approval history")
	}
	return entries, nil
}
