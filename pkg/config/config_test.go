package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "fleet", cfg.Database.Database)
	assert.Equal(t, "purchase_order", cfg.Approval.EntityType)
	assert.Equal(t, 5*time.Minute, cfg.Approval.CacheTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "fleet_test")
	t.Setenv("JWT_ACCESS_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "fleet_test", cfg.Database.Database)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL)
}

func TestValidateRejectsBadPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "99999")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRequiresJWTSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "db.internal",
			Port:     5433,
			User:     "fleet",
			Password: "secret",
			Database: "fleet",
			SSLMode:  "require",
		},
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=fleet password=secret dbname=fleet sslmode=require",
		cfg.DatabaseDSN(),
	)
}

func TestDefaultStatusByLevelGap(t *testing.T) {
	m := DefaultStatusByLevel()

	assert.Equal(t, POStatusSupervisor, m[1])
	assert.Equal(t, POStatusManagement, m[2])
	assert.Equal(t, POStatusQuoting, m[4])
	assert.Equal(t, POStatusQuoteSigned, m[5])

	// Level 3 is an intentional pass-through in the procurement policy.
	_, ok := m[3]
	assert.False(t, ok)
}
