package postgres

import (
	"context"
	"database/sql"

	"github.com/fleetworks/fleet-maintenance/internal/services"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
	"github.com/fleetworks/fleet-maintenance/pkg/database"
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
)

// dbtx is the query surface shared by *database.PostgresDB and *sql.Tx, so
// every repository works identically inside and outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// txBeginner starts transactions for WithinTx.
type txBeginner interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
}

// Store implements services.Store on PostgreSQL.
type Store struct {
	db     dbtx
	root   txBeginner // nil while inside a transaction
	logger *logger.Logger
}

// NewStore creates a PostgreSQL-backed store
func NewStore(db *database.PostgresDB, log *logger.Logger) *Store {
	return &Store{
		db:     db,
		root:   db,
		logger: log,
	}
}

// NewStoreFromSQL wraps a plain connection without the circuit breaker.
// Intended for tests and one-off tooling.
func NewStoreFromSQL(db *sql.DB, log *logger.Logger) *Store {
	return &Store{
		db:     db,
		root:   sqlBeginner{db},
		logger: log,
	}
}

type sqlBeginner struct {
	db *sql.DB
}

func (b sqlBeginner) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return b.db.BeginTx(ctx, nil)
}

var _ services.Store = (*Store)(nil)

func (s *Store) Assets() services.AssetRepository           { return &AssetRepository{db: s.db} }
func (s *Store) WorkOrders() services.WorkOrderRepository   { return &WorkOrderRepository{db: s.db} }
func (s *Store) MaintenanceLogs() services.MaintenanceLogRepository {
	return &MaintenanceLogRepository{db: s.db}
}
func (s *Store) PurchaseOrders() services.PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: s.db}
}
func (s *Store) Workflows() services.WorkflowRepository { return &WorkflowRepository{db: s.db} }
func (s *Store) ApprovalHistory() services.ApprovalHistoryRepository {
	return &ApprovalHistoryRepository{db: s.db}
}

// Users returns the user repository. It sits outside the services.Store
// interface because authentication never shares a transaction with the
// domain writes.
func (s *Store) Users() *UserRepository {
	return &UserRepository{db: s.db}
}

// WithinTx runs fn against a transactional store. Nested calls reuse the
// open transaction rather than starting a second one.
func (s *Store) WithinTx(ctx context.Context, fn func(services.Store) error) error {
	if s.root == nil {
		return fn(s)
	}

	tx, err := s.root.BeginTx(ctx)
	if err != nil {
		return apperrors.Store(err, "failed to begin transaction")
	}

	txStore := &Store{db: tx, logger: s.logger}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			s.logger.Errorf("Transaction rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Store(err, "failed to commit transaction")
	}
	return nil
}
