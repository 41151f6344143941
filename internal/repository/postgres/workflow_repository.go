package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
)

// WorkflowRepository persists approval workflow definitions
type WorkflowRepository struct {
	db dbtx
}

// GetActiveByEntityType resolves the single active definition. Zero or
// multiple active rows is a configuration problem, not a lookup miss.
func (r *WorkflowRepository) GetActiveByEntityType(ctx context.Context, entityType string) (*models.ApprovalWorkflow, error) {
	query := `
		SELECT id, entity_type, name, active, levels, created_at, updated_at
		FROM approval_workflows
		WHERE entity_type = $1 AND active = true`

	rows, err := r.db.QueryContext(ctx, query, entityType)
	if err != nil {
		return nil, apperrors.Store(err, "failed to query approval workflows")
	}
	defer rows.Close()

	var found []models.ApprovalWorkflow
	for rows.Next() {
		var wf models.ApprovalWorkflow
		if err := rows.Scan(&wf.ID, &wf.EntityType, &wf.Name, &wf.Active, &wf.Levels, &wf.CreatedAt, &wf.UpdatedAt); err != nil {
			return nil, apperrors.Store(err, "failed to scan approval workflow")
		}
		found = append(found, wf)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store(err, "failed to iterate approval workflows")
	}

	if len(found) == 0 {
		return nil, apperrors.Configuration("no active approval workflow for entity type %q", entityType)
	}
	if len(found) > 1 {
		return nil, apperrors.Configuration("multiple active approval workflows for entity type %q", entityType)
	}
	return &found[0], nil
}

func (r *WorkflowRepository) Create(ctx context.Context, wf *models.ApprovalWorkflow) error {
	query := `
		INSERT INTO approval_workflows (id, entity_type, name, active, levels, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`

	now := time.Now()
	if wf.ID == uuid.Nil {
		wf.ID = uuid.New()
	}
	wf.CreatedAt = now
	wf.UpdatedAt = now

	if _, err := r.db.ExecContext(ctx, query, wf.ID, wf.EntityType, wf.Name, wf.Active, wf.Levels, now); err != nil {
		return apperrors.Store(err, "failed to create approval workflow")
	}
	return nil
}
