package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrors(t *testing.T) {
	t.Run("not found survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("predict: %w", NewNotFoundError("deal"))

		assert.True(t, IsNotFound(err))
		assert.False(t, IsValidation(err))
		assert.Equal(t, ErrCodeNotFound, GetErrorCode(err))
		assert.Contains(t, err.Error(), "deal not found")
	})

	t.Run("internal error unwraps cause", func(t *testing.T) {
		cause := errors.New("disk full")
		err := NewInternalError(cause)

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "INTERNAL_ERROR: An internal error occurred: disk full", err.Error())
	})

	t.Run("plain errors map to internal", func(t *testing.T) {
		assert.Equal(t, ErrCodeInternal, GetErrorCode(errors.New("x")))
		assert.False(t, IsConflict(nil))
	})

	t.Run("unavailable integration", func(t *testing.T) {
		err := NewUnavailableError("LLM")
		assert.True(t, IsUnavailable(err))
		assert.Equal(t, "UNAVAILABLE: LLM is not configured", err.Error())
	})
}
