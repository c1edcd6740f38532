package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/drivecreds/internal/api/apierr"
	"github.com/mcoot/drivecreds/internal/api/request"
	"github.com/mcoot/drivecreds/internal/api/response"
	"github.com/mcoot/drivecreds/internal/middleware"
	"github.com/mcoot/drivecreds/internal/services/auth"
)

// CredentialHandler handles registration and login endpoints
type CredentialHandler struct {
	authService *auth.Service
	logger      *slog.Logger
	write       func(http.ResponseWriter, error)
}

// NewCredentialHandler creates a new credential handler
func NewCredentialHandler(authService *auth.Service, logger *slog.Logger) *CredentialHandler {
	return &CredentialHandler{
		authService: authService,
		logger:      logger,
		write:       WriteError,
	}
}

// NewLegacyCredentialHandler serves the dashboard's un-versioned routes,
// which report failures as {"error": message}
func NewLegacyCredentialHandler(authService *auth.Service, logger *slog.Logger) *CredentialHandler {
	return &CredentialHandler{
		authService: authService,
		logger:      logger,
		write:       apierr.WriteLegacyError,
	}
}

// Register handles POST /api/v1/register
func (h *CredentialHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.write(w, err)
		return
	}
	req.Normalize()

	reg, err := h.authService.Register(r.Context(), req.Username, req.DisplayName, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Registered{
		OK:          true,
		User:        string(reg.Username),
		DisplayName: reg.DisplayName,
	})
}

// Login handles POST /api/v1/login
func (h *CredentialHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.write(w, err)
		return
	}
	req.Normalize()

	user, err := h.authService.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LoggedIn{
		OK:   true,
		User: string(user),
	})
}

// writeError logs failures that will be reported as internal before writing them
func (h *CredentialHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apierr.Status(err) >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
			slog.String("error", err.Error()),
		)
	}
	h.write(w, err)
}
