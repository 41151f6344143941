package integration

import (
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetworks/fleet-maintenance/pkg/testutil"
)

// IntegrationSuite holds the test suite configuration
type IntegrationSuite struct {
	DB   *testutil.TestDB
	Pool *pgxpool.Pool
}

var suite *IntegrationSuite

// TestMain gates the suite behind INTEGRATION_TESTS so unit runs stay fast.
func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION_TESTS") == "" {
		fmt.Println("Skipping integration tests. Set INTEGRATION_TESTS=1 to run.")
		os.Exit(0)
	}

	code := m.Run()
	os.Exit(code)
}

// SetupSuite creates the test database and applies migrations
func SetupSuite(t *testing.T) *IntegrationSuite {
	t.Helper()

	if suite != nil {
		return suite
	}

	db := testutil.SetupTestDB(t)
	testutil.RunMigrations(t, db, "../../migrations")

	suite = &IntegrationSuite{
		DB:   db,
		Pool: db.Pool,
	}
	return suite
}

// TeardownSuite drops the test database
func TeardownSuite(t *testing.T) {
	t.Helper()

	if suite != nil && suite.DB != nil {
		suite.DB.Teardown()
		suite = nil
	}
}

// ResetDatabase truncates all tables between tests
func (s *IntegrationSuite) ResetDatabase(t *testing.T) {
	t.Helper()
	s.DB.Truncate(
		"approval_history",
		"purchase_orders",
		"approval_workflows",
		"maintenance_logs",
		"work_orders",
		"assets",
		"users",
	)
}
