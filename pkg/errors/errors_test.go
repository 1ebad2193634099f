package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("verify: %w", ErrOTPExpired)

	got := FromError(wrapped)

	assert.Equal(t, ErrOTPExpired.Code, got.Code)
	assert.Equal(t, http.StatusUnauthorized, got.Status)
}

func TestFromErrorFallsBackToInternal(t *testing.T) {
	got := FromError(errors.New("boom"))

	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, "internal server error: boom", got.Error())
}

func TestCloneDoesNotMutateSentinel(t *testing.T) {
	clone := Clone(ErrValidation, "startDate must be YYYY-MM-DD")

	assert.Equal(t, "startDate must be YYYY-MM-DD", clone.Message)
	assert.Equal(t, "validation failed", ErrValidation.Message)
	assert.True(t, errors.Is(Wrap(clone, clone.Code, clone.Status, clone.Message), clone))
}
