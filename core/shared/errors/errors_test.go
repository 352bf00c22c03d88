package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_DefaultStatus(t *testing.T) {
	tests := []struct {
		code       ErrorCode
		wantStatus int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeTimeout, http.StatusRequestTimeout},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeQueryFailed, http.StatusInternalServerError},
		{ErrCodeConnectionFailed, http.StatusInternalServerError},
		{ErrCodeInternalError, http.StatusInternalServerError},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.wantStatus, err.Status)
		})
	}
}

func TestNewWithStatus(t *testing.T) {
	err := NewWithStatus(ErrCodeQueryFailed, "rejected", http.StatusTooManyRequests, nil)
	assert.Equal(t, http.StatusTooManyRequests, err.Status)

	// zero status falls back to the code default
	err = NewWithStatus(ErrCodeQueryFailed, "rejected", 0, nil)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := stderrors.New("socket closed")
	err := New(ErrCodeConnectionFailed, "failed to reach the store", cause)

	assert.Equal(t, "CONNECTION_FAILED: failed to reach the store (socket closed)", err.Error())
	assert.Equal(t, cause, stderrors.Unwrap(err))

	bare := New(ErrCodeInvalidInput, "missing query", nil)
	assert.Equal(t, "INVALID_INPUT: missing query", bare.Error())
}

func TestWithDetails(t *testing.T) {
	err := New(ErrCodeQueryFailed, "rejected", nil).WithDetails("syntax error near SELECT")
	assert.Equal(t, "syntax error near SELECT", err.Details)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(New(ErrCodeInvalidInput, "bad", nil)))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(stderrors.New("plain error")))

	// wrapped AppError is still recognized
	wrapped := fmt.Errorf("handler: %w", New(ErrCodeNotFound, "missing", nil))
	assert.Equal(t, http.StatusNotFound, StatusOf(wrapped))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(New(ErrCodeInvalidInput, "bad", nil)))
	assert.False(t, IsClientError(New(ErrCodeQueryFailed, "rejected", nil)))
	assert.False(t, IsClientError(stderrors.New("plain error")))
}
