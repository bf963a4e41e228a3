package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_CodesAndReason(t *testing.T) {
	tests := []struct {
		err  *AppError
		code int
		typ  ErrorType
	}{
		{NewValidationError("bad"), http.StatusBadRequest, ErrorTypeValidation},
		{NewNotFoundError("missing"), http.StatusNotFound, ErrorTypeNotFound},
		{NewInvalidStateError("state"), http.StatusConflict, ErrorTypeInvalidState},
		{NewPolicyViolationError("policy"), http.StatusUnprocessableEntity, ErrorTypePolicyViolation},
		{NewConflictError("conflict"), http.StatusConflict, ErrorTypeConflict},
		{NewUnauthorizedError("who"), http.StatusUnauthorized, ErrorTypeUnauthorized},
		{NewInternalError("boom"), http.StatusInternalServerError, ErrorTypeInternal},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.typ, tt.err.Type)
		})
	}

	err := NewInvalidStateError("not matured", "matures on 2026-05-01").WithReason("not_yet_matured")
	assert.Equal(t, "not_yet_matured", err.Reason)
	assert.Equal(t, "invalid_state: not matured (matures on 2026-05-01)", err.Error())
}

func TestGetAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewValidationError("bad"))

	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsValidationError(wrapped))
	assert.Equal(t, "bad", GetAppError(wrapped).Message)
	assert.Nil(t, GetAppError(errors.New("plain")))
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(errors.New("Error 1062: Duplicate entry 'x' for key 'uk_request_id'")))
	assert.True(t, IsDuplicateError(errors.New("UNIQUE constraint failed: wallet_transactions.request_id")))
	assert.False(t, IsDuplicateError(errors.New("connection refused")))
	assert.False(t, IsDuplicateError(nil))
}
