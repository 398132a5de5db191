package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	base := errors.New("disk full")
	err := InternalServerError("Failed to save", base).WithContext("table", "users")

	assert.Equal(t, 500, err.Code)
	assert.Equal(t, "Failed to save: disk full", err.Error())
	assert.Equal(t, "users", err.Context["table"])
	assert.ErrorIs(t, err, base)

	wrapped := fmt.Errorf("handler: %w", err)
	got, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, 500, got.Code)

	_, ok = AsAppError(base)
	assert.False(t, ok)
	assert.Equal(t, "Access denied", ForbiddenError("Access denied", nil).Error())
}
