package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/potatofarm/internal/middleware"
)

// Logging creates logging middleware for the web interface. Page requests
// carry a request id like API requests do.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	logging := middleware.Logging(logger.With(slog.String("surface", "web")))
	return func(next http.Handler) http.Handler {
		return middleware.RequestID(logging(next))
	}
}
