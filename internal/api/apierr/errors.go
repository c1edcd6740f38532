package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/drivecreds/internal/model"
	"github.com/mcoot/drivecreds/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// LegacyErrorResponse is the flat body the dashboard's un-versioned routes expect
type LegacyErrorResponse struct {
	Error string `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeMissingFields    = "MISSING_FIELDS"
	CodeInvalidUsername  = "INVALID_USERNAME"
	CodePasswordTooLong  = "PASSWORD_TOO_LONG"
	CodeUsernameExists   = "USERNAME_EXISTS"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// WriteLegacyError writes err as {"error": message} with the same status WriteError uses
func WriteLegacyError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(LegacyErrorResponse{Error: he.apiError.Message})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, auth.ErrMissingFields):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingFields, "Missing required fields"}}
	case errors.Is(err, model.ErrInvalidUsername):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidUsername, "Invalid username: use a-z, 0-9, '.', '_', '-' (3-32 chars)"}}
	case errors.Is(err, auth.ErrPasswordTooLong):
		return &httpError{http.StatusBadRequest, APIError{CodePasswordTooLong, "Password must be at most 72 bytes"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "User already exists"}}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid credentials"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NotFoundHandler answers unmatched paths with a JSON 404
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}})
	})
}

// MethodNotAllowedHandler answers known paths hit with the wrong method with a JSON 405
func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, &httpError{http.StatusMethodNotAllowed, APIError{CodeMethodNotAllowed, "Method not allowed"}})
	})
}
