package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
)

// AssetRepository persists fleet assets
type AssetRepository struct {
	db dbtx
}

func (r *AssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	query := `
		SELECT id, ficha, name, category, status, created_at, updated_at
		FROM assets
		WHERE id = $1`

	var a models.Asset
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Code, &a.Name, &a.Category, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("asset", id.String())
	}
	if err != nil {
		return nil, apperrors.Store(err, "failed to get asset")
	}
	return &a, nil
}

func (r *AssetRepository) List(ctx context.Context, limit, offset int) ([]models.Asset, error) {
	query := `
		SELECT id, ficha, name, category, status, created_at, updated_at
		FROM assets
		ORDER BY ficha
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Store(err, "failed to list assets")
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Category, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, apperrors.Store(err, "failed to scan asset")
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store(err, "failed to iterate assets")
	}
	return assets, nil
}

func (r *AssetRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AssetStatus) error {
	query := `
		UPDATE assets
		SET status = $2, updated_at = $3
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		return apperrors.Store(err, "failed to update asset status")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Store(err, "failed to check asset update result")
	}
	if affected == 0 {
		return apperrors.NotFound("asset", id.String())
	}
	return nil
}

// Create inserts an asset. Used by the seeder and the admin surface.
func (r *AssetRepository) Create(ctx context.Context, a *models.Asset) error {
	query := `
		INSERT INTO assets (id, ficha, name, category, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`

	now := time.Now()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := r.db.ExecContext(ctx, query, a.ID, a.Code, a.Name, a.Category, a.Status, now); err != nil {
		return apperrors.Store(err, "failed to create asset")
	}
	return nil
}
