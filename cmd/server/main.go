package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/potatofarm/internal/api"
	"github.com/mcoot/potatofarm/internal/factory"
	"github.com/mcoot/potatofarm/internal/services/auth"
	"github.com/mcoot/potatofarm/internal/services/saves"
	redisstorage "github.com/mcoot/potatofarm/internal/storage/redis"
	"github.com/mcoot/potatofarm/internal/telemetry"
)

// config is read from POTATO_* environment variables
type config struct {
	Server api.ServerConfig

	LogLevel    slog.Level `env:"LOG_LEVEL"`
	StorageType string     `env:"STORAGE_TYPE"`
	RedisURL    string     `env:"REDIS_URL"`
	StaticDir   string     `env:"STATIC_DIR"`

	// JWTSecret signs session tokens; sessions do not survive a restart without it
	JWTSecret       string        `env:"JWT_SECRET"`
	SessionDuration time.Duration `env:"SESSION_DURATION"`
	LeaderboardSize int           `env:"LEADERBOARD_SIZE"`

	Otel telemetry.Config `envPrefix:"OTEL_"`
}

func main() {
	cfg := config{
		Server:      api.DefaultServerConfig(),
		LogLevel:    slog.LevelInfo,
		StorageType: factory.StorageTypeMemory,
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "POTATO_"}); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	shutdownTracing, err := telemetry.Setup(context.Background(), "potatofarm-server", cfg.Otel)
	if err != nil {
		logger.Warn("tracing disabled", slog.String("error", err.Error()))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	// Build factory config from environment
	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		AuthConfig: auth.Config{
			SessionDuration: cfg.SessionDuration,
			SigningKey:      []byte(cfg.JWTSecret),
		},
		SaveConfig: saves.Config{LeaderboardSize: cfg.LeaderboardSize},
	}
	if cfg.JWTSecret == "" {
		logger.Warn("POTATO_JWT_SECRET not set, sessions will not survive a restart")
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		if cfg.RedisURL == "" {
			logger.Error("POTATO_REDIS_URL required when POTATO_STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findStaticDir()
	}

	// Create server
	server := api.NewServer(app.Handler(staticDir), cfg.Server, logger)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// findStaticDir looks for the static files directory. An empty result
// disables static serving.
func findStaticDir() string {
	candidates := []string{
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
