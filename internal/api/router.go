package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/potatofarm/internal/api/apierr"
	"github.com/mcoot/potatofarm/internal/api/handler"
	"github.com/mcoot/potatofarm/internal/api/middleware"
	"github.com/mcoot/potatofarm/internal/api/response"
	sharedmw "github.com/mcoot/potatofarm/internal/middleware"
	"github.com/mcoot/potatofarm/internal/services/auth"
	"github.com/mcoot/potatofarm/internal/services/saves"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	SaveService *saves.Service
}

// Register mounts the API routes on r
func Register(r *mux.Router, cfg RouterConfig) {
	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.AuthService)
	saveHandler := handler.NewSaveHandler(cfg.SaveService, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := sharedmw.Recovery(cfg.Logger, writePanicError)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(sharedmw.RequestID)
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account routes (no auth required for creating accounts/logging in)
	api.HandleFunc("/auth/signup", accountHandler.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", accountHandler.Login).Methods(http.MethodPost)

	// Protected account and save routes
	protected := api.PathPrefix("/auth").Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/me", accountHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/save", saveHandler.Save).Methods(http.MethodPost)
	protected.HandleFunc("/load", saveHandler.Load).Methods(http.MethodGet)

	// Leaderboard is public; an authenticated caller also gets their rank
	api.Handle("/leaderboard", optionalAuthMiddleware(http.HandlerFunc(saveHandler.Leaderboard))).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}

// writePanicError answers a panicking API request with the standard JSON error
func writePanicError(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
