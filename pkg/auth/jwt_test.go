package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "Ana Supervisor", "ana@fleet.test", "supervisor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "supervisor", claims.Role)
	assert.Equal(t, "fleet-maintenance", claims.Issuer)
}

func TestValidateAccessTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)

	token, err := issuer.GenerateAccessToken(uuid.New(), "n", "e", "mechanic")
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessTokenRejectsExpired(t *testing.T) {
	m := NewJWTManager("test-secret", time.Nanosecond)

	token, err := m.GenerateAccessToken(uuid.New(), "n", "e", "mechanic")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)

	assert.NoError(t, VerifyPassword("hunter2hunter2", hash))
	assert.Error(t, VerifyPassword("wrong-password", hash))
}
