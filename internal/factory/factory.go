package factory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/potatofarm/internal/api"
	"github.com/mcoot/potatofarm/internal/dependencies/clock"
	"github.com/mcoot/potatofarm/internal/services/auth"
	"github.com/mcoot/potatofarm/internal/services/saves"
	"github.com/mcoot/potatofarm/internal/storage"
	"github.com/mcoot/potatofarm/internal/storage/memory"
	redisstorage "github.com/mcoot/potatofarm/internal/storage/redis"
	"github.com/mcoot/potatofarm/internal/web"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired server components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Logger *slog.Logger

	// Services
	AuthService *auth.Service
	SaveService *saves.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// Zero fields default to auth.DefaultConfig()
	AuthConfig auth.Config
	// SaveConfig holds configuration for the save service (optional)
	SaveConfig saves.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), cfg.AuthConfig, cfg.SaveConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, authCfg auth.Config, saveCfg saves.Config, logger *slog.Logger) *App {
	return &App{
		Storage:     store,
		Clock:       clk,
		Logger:      logger,
		AuthService: auth.New(store, clk, authCfg),
		SaveService: saves.New(store, logger, saveCfg),
	}
}

// Handler returns the HTTP handler serving the JSON API and the HTML pages
func (a *App) Handler(staticDir string) http.Handler {
	r := mux.NewRouter()
	api.Register(r, api.RouterConfig{
		Logger:      a.Logger,
		AuthService: a.AuthService,
		SaveService: a.SaveService,
	})
	web.Register(r, web.RouterConfig{
		Logger:      a.Logger,
		AuthService: a.AuthService,
		SaveService: a.SaveService,
		StaticDir:   staticDir,
	})
	return r
}

// Close releases storage connections
func (a *App) Close() error {
	if c, ok := a.Storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
