package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/drivecreds/internal/model"
	"github.com/mcoot/drivecreds/internal/services/auth"
)

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing fields", auth.ErrMissingFields, http.StatusBadRequest, CodeMissingFields},
		{"invalid username", model.ErrInvalidUsername, http.StatusBadRequest, CodeInvalidUsername},
		{"password too long", auth.ErrPasswordTooLong, http.StatusBadRequest, CodePasswordTooLong},
		{"exists", auth.ErrUsernameExists, http.StatusConflict, CodeUsernameExists},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeUnauthorized},
		{"wrapped", fmt.Errorf("register: %w", auth.ErrUsernameExists), http.StatusConflict, CodeUsernameExists},
		{"invalid request", NewInvalidRequestError("bad json"), http.StatusBadRequest, CodeInvalidRequest},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.status, Status(tt.err))
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("pq: connection refused to 10.0.0.5"))

	assert.NotContains(t, rr.Body.String(), "10.0.0.5")
	assert.Contains(t, rr.Body.String(), "Internal server error")
}

func TestWriteLegacyErrorIsFlat(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteLegacyError(rr, auth.ErrInvalidCredentials)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rr.Body.String())
}

func TestMethodNotAllowedHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	MethodNotAllowedHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/login", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, CodeMethodNotAllowed, resp.Error.Code)
}
