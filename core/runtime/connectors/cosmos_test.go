package connectors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cosmosgate/cosmosgate/core/shared/errors"
)

// Well-known emulator credentials; the client constructor performs no I/O.
const emulatorConnectionString = "AccountEndpoint=https://localhost:8081/;AccountKey=C2y6yDjf5/R+ob0N8A7Cgv30VRDJIWEHLM+4QDU5DE2nQ9nDuVTqobD4b8mGGyPMbIZnqyMsEcaGQy67XIw/Jw==;"

func TestNewCosmosConnector(t *testing.T) {
	conn, err := NewCosmosConnector(emulatorConnectionString)
	require.NoError(t, err)
	require.NotNil(t, conn)
	assert.NoError(t, conn.Close(context.Background()))
}

func TestNewCosmosConnector_InvalidConnectionString(t *testing.T) {
	_, err := NewCosmosConnector("not a connection string")
	require.Error(t, err)
}

func TestMapCosmosError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantCode   apperrors.ErrorCode
		wantStatus int
	}{
		{name: "not found", status: http.StatusNotFound, wantCode: apperrors.ErrCodeNotFound, wantStatus: http.StatusNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, wantCode: apperrors.ErrCodeUnauthorized, wantStatus: http.StatusUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantCode: apperrors.ErrCodeUnauthorized, wantStatus: http.StatusForbidden},
		{name: "timeout", status: http.StatusRequestTimeout, wantCode: apperrors.ErrCodeTimeout, wantStatus: http.StatusRequestTimeout},
		{name: "bad query", status: http.StatusBadRequest, wantCode: apperrors.ErrCodeQueryFailed, wantStatus: http.StatusBadRequest},
		{name: "throttled", status: http.StatusTooManyRequests, wantCode: apperrors.ErrCodeQueryFailed, wantStatus: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			respErr := &azcore.ResponseError{StatusCode: tt.status, ErrorCode: "StoreError"}
			err := mapCosmosError(respErr)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.Status)
			assert.Equal(t, "StoreError", appErr.Details)
		})
	}
}

func TestMapCosmosError_WrappedResponseError(t *testing.T) {
	respErr := &azcore.ResponseError{StatusCode: http.StatusNotFound, ErrorCode: "NotFound"}
	wrapped := fmt.Errorf("page fetch: %w", respErr)

	err := mapCosmosError(wrapped)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestMapCosmosError_DeadlineExceeded(t *testing.T) {
	err := mapCosmosError(context.DeadlineExceeded)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrCodeTimeout, appErr.Code)
	assert.Equal(t, http.StatusRequestTimeout, appErr.Status)
}

func TestMapCosmosError_TransportFailure(t *testing.T) {
	err := mapCosmosError(errors.New("dial tcp: connection refused"))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrCodeConnectionFailed, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}
