package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("load meal: %w", ErrNotFound.Wrap(errors.New("record not found")))

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrConflict))
	assert.True(t, errors.Is(ErrInvalidRequest.WithMessage("name is required"), ErrInvalidRequest))
}

func TestToResponse(t *testing.T) {
	status, body := ToResponse(ErrInvalidRequest.WithMessage("meal_type is required"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, ErrCodeInvalidRequest, body.Code)
	assert.Equal(t, "meal_type is required", body.Message)

	status, body = ToResponse(NewValidationError("bad date"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "bad date", body.Message)

	status, body = ToResponse(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, ErrCodeInternalError, body.Code)
}

func TestCustomErrorMessage(t *testing.T) {
	err := ErrAIServiceError.Wrap(errors.New("timeout"))
	assert.Equal(t, "AI service unavailable: timeout", err.Error())
	assert.Equal(t, "AI service unavailable", ErrAIServiceError.Error())
}
