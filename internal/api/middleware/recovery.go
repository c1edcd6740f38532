package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/drivecreds/internal/api/apierr"
	"github.com/mcoot/drivecreds/internal/middleware"
)

// Recovery creates panic recovery middleware for the API.
// Panics become the same INTERNAL_ERROR body any other internal failure gets.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
