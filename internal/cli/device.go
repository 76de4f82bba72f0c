package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mcoot/potatofarm/internal/factory"
	"github.com/mcoot/potatofarm/internal/storage"
	redisstorage "github.com/mcoot/potatofarm/internal/storage/redis"
	"github.com/mcoot/potatofarm/internal/storage/sqlite"
)

// openLocal opens the device store: Redis when configured, SQLite otherwise
func openLocal(c *Config) (storage.Local, error) {
	if c.LocalRedisURL != "" {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.LocalRedisURL
		redisCfg.DeviceID = c.DeviceID
		local, err := redisstorage.NewLocal(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis device store: %w", err)
		}
		return local, nil
	}

	if err := os.MkdirAll(c.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	local, err := sqlite.Open(c.DevicePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open device store: %w", err)
	}
	return local, nil
}

// openDevice wires a device against the configured server
func openDevice(c *Config, logger *slog.Logger) (*factory.Device, error) {
	local, err := openLocal(c)
	if err != nil {
		return nil, err
	}
	return factory.NewDevice(factory.DeviceConfig{
		BaseURL:       c.ServerURL,
		Local:         local,
		RemoteTimeout: c.RemoteTimeout,
		Logger:        logger,
	}), nil
}
