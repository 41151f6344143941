package seeds

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/pkg/auth"
)

// Seeder loads the baseline data a fresh installation needs: the active
// approval workflow, demo users for every approval role, and a handful of
// fleet assets.
type Seeder struct {
	db *sql.DB
}

// NewSeeder creates a new seeder
func NewSeeder(db *sql.DB) *Seeder {
	return &Seeder{db: db}
}

// Run seeds everything. Existing rows are left alone unless force is set.
func (s *Seeder) Run(ctx context.Context, force bool) error {
	if err := s.seedWorkflow(ctx, force); err != nil {
		return fmt.Errorf("seed workflow: %w", err)
	}
	if err := s.seedUsers(ctx); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := s.seedAssets(ctx); err != nil {
		return fmt.Errorf("seed assets: %w", err)
	}
	return nil
}

// DefaultWorkflowLevels returns the built-in five-level procurement chain.
func DefaultWorkflowLevels() models.ApprovalLevels {
	return models.ApprovalLevels{
		{Level: 1, Name: "Supervisor", Description: "Workshop supervisor sign-off", Threshold: 0, Roles: []string{"supervisor"}},
		{Level: 2, Name: "Gerencia", Description: "Management sign-off", Threshold: 10000, Roles: []string{"gerente"}},
		{Level: 3, Name: "Direccion", Description: "Directorate sign-off", Threshold: 50000, Roles: []string{"director"}},
		{Level: 4, Name: "Cotizacion", Description: "Quote selection by purchasing", Threshold: 100000, Roles: []string{"compras"}},
		{Level: 5, Name: "Firma", Description: "Final quote signature", Threshold: 250000, Roles: []string{"gerente", "director"}},
	}
}

func (s *Seeder) seedWorkflow(ctx context.Context, force bool) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM approval_workflows WHERE entity_type = $1 AND active`,
		"purchase_order",
	).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 && !force {
		log.Println("Active purchase order workflow already present, skipping")
		return nil
	}

	if force {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE approval_workflows SET active = false WHERE entity_type = $1`,
			"purchase_order",
		); err != nil {
			return err
		}
	}

	levels := DefaultWorkflowLevels()
	now := time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO approval_workflows (id, entity_type, name, active, levels, created_at, updated_at)
		VALUES ($1, $2, $3, true, $4, $5, $5)`,
		uuid.New(), "purchase_order", "Fleet procurement approvals", levels, now,
	)
	if err != nil {
		return err
	}
	log.Println("Seeded active purchase order workflow with 5 levels")
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	users := []struct {
		name  string
		email string
		role  string
	}{
		{"Laura Vargas", "supervisor@fleet.local", "supervisor"},
		{"Ricardo Campos", "gerente@fleet.local", "gerente"},
		{"Sofia Mora", "director@fleet.local", "director"},
		{"Karla Jimenez", "compras@fleet.local", "compras"},
		{"Mario Duarte", "tecnico@fleet.local", "tecnico"},
	}

	hash, err := auth.HashPassword("fleet-demo-password")
	if err != nil {
		return err
	}

	for _, u := range users {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO users (id, name, email, role, password_hash, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (email) DO NOTHING`,
			uuid.New(), u.name, u.email, u.role, hash, time.Now(),
		)
		if err != nil {
			return err
		}
	}
	log.Printf("Seeded %d demo users", len(users))
	return nil
}

func (s *Seeder) seedAssets(ctx context.Context) error {
	truck := "truck"
	loader := "loader"
	pickup := "pickup"

	assets := []models.Asset{
		{Code: "F-0117", Name: "Volvo FH16 tractor", Category: &truck},
		{Code: "F-0220", Name: "CAT 950 wheel loader", Category: &loader},
		{Code: "F-0305", Name: "Toyota Hilux crew cab", Category: &pickup},
	}

	for _, a := range assets {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO assets (id, ficha, name, category, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			ON CONFLICT (ficha) DO NOTHING`,
			uuid.New(), a.Code, a.Name, a.Category, models.AssetStatusOperational, time.Now(),
		)
		if err != nil {
			return err
		}
	}
	log.Printf("Seeded %d fleet assets", len(assets))
	return nil
}

// Stats prints row counts for the seeded tables.
func (s *Seeder) Stats(ctx context.Context) error {
	for _, table := range []string{"approval_workflows", "users", "assets", "purchase_orders", "work_orders"} {
		var count int
		if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return err
		}
		log.Printf("%-20s %d rows", table, count)
	}
	return nil
}

// Verify checks the invariants the approval engine depends on.
func (s *Seeder) Verify(ctx context.Context) error {
	var active int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM approval_workflows WHERE entity_type = $1 AND active`,
		"purchase_order",
	).Scan(&active)
	if err != nil {
		return err
	}
	if active != 1 {
		return fmt.Errorf("expected exactly 1 active purchase order workflow, found %d", active)
	}
	log.Println("Workflow configuration verified")
	return nil
}
