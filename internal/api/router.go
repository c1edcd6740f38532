package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/drivecreds/internal/api/apierr"
	"github.com/mcoot/drivecreds/internal/api/handler"
	"github.com/mcoot/drivecreds/internal/api/middleware"
	"github.com/mcoot/drivecreds/internal/api/response"
	basemw "github.com/mcoot/drivecreds/internal/middleware"
	"github.com/mcoot/drivecreds/internal/services/auth"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	credentialHandler := handler.NewCredentialHandler(cfg.AuthService, cfg.Logger)
	legacyHandler := handler.NewLegacyCredentialHandler(cfg.AuthService, cfg.Logger)

	r.NotFoundHandler = apierr.NotFoundHandler()
	r.MethodNotAllowedHandler = apierr.MethodNotAllowedHandler()

	r.Use(basemw.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(basemw.Logging(cfg.Logger))

	// Un-versioned paths the drive dashboard already posts to
	r.HandleFunc("/api/register", legacyHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/login", legacyHandler.Login).Methods(http.MethodPost)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.MethodNotAllowedHandler = apierr.MethodNotAllowedHandler()
	api.HandleFunc("/register", credentialHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", credentialHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
