package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	err := Validation("title is required")
	assert.Equal(t, CodeValidation, CodeOf(err))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.Equal(t, CodeValidation, CodeOf(wrapped))

	assert.Equal(t, CodeStore, CodeOf(errors.New("driver: connection reset")))
}

func TestIsCode(t *testing.T) {
	err := Conflict("work order modified concurrently")
	assert.True(t, IsCode(err, CodeConflict))
	assert.False(t, IsCode(err, CodeInvalidState))

	wrapped := fmt.Errorf("service: %w", err)
	assert.True(t, IsCode(wrapped, CodeConflict))
}

func TestStoreWrapsCause(t *testing.T) {
	cause := errors.New("pq: deadlock detected")
	err := Store(cause, "failed to update asset")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, CodeStore, CodeOf(err))
	assert.Contains(t, err.Error(), "failed to update asset")
	assert.Contains(t, err.Error(), "deadlock")
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("asset", "A-100"))
	assert.True(t, errors.Is(err, New(CodeNotFound, "")))
	assert.False(t, errors.Is(err, New(CodeConflict, "")))
}
