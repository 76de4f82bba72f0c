package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	sharedmw "github.com/mcoot/potatofarm/internal/middleware"
	"github.com/mcoot/potatofarm/internal/services/auth"
	"github.com/mcoot/potatofarm/internal/services/saves"
	"github.com/mcoot/potatofarm/internal/web/handler"
	"github.com/mcoot/potatofarm/internal/web/middleware"
	"github.com/mcoot/potatofarm/internal/web/templates"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	SaveService *saves.Service
	StaticDir   string // Path to static files directory
}

// Register mounts the HTML routes on r
func Register(r *mux.Router, cfg RouterConfig) {
	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := sharedmw.Recovery(cfg.Logger, renderPanicPage)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Create handlers
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.SaveService, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Public pages (optional auth to highlight the viewer's rank)
	public := r.NewRoute().Subrouter()
	public.Use(recoveryMiddleware)
	public.Use(loggingMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/leaderboard", http.StatusSeeOther)
	}).Methods(http.MethodGet)
	public.HandleFunc("/leaderboard", leaderboardHandler.View).Methods(http.MethodGet)
	public.HandleFunc("/leaderboard/fragment", leaderboardHandler.Fragment).Methods(http.MethodGet)
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

func renderPanicPage(w http.ResponseWriter, r *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = templates.ErrorPage().Render(r.Context(), w)
}
