package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mcoot/potatofarm/internal/telemetry"
)

// EnvPrefix prefixes every environment variable the CLI reads
const EnvPrefix = "POTATO_"

// Config holds CLI configuration
type Config struct {
	ServerURL string `env:"SERVER" yaml:"server"`
	// DataDir holds the SQLite device store
	DataDir string `env:"DATA_DIR" yaml:"data_dir"`
	// LocalRedisURL switches the device store to Redis when set
	LocalRedisURL string `env:"LOCAL_REDIS_URL" yaml:"local_redis_url"`
	// DeviceID namespaces the device store in Redis
	DeviceID      string        `env:"DEVICE_ID" yaml:"device_id"`
	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT" yaml:"remote_timeout"`
	Output        string        `env:"OUTPUT" yaml:"output"`
	Verbose       bool          `env:"VERBOSE" yaml:"verbose"`

	Otel telemetry.Config `envPrefix:"OTEL_" yaml:"otel"`

	ConfigFile string `env:"CONFIG" yaml:"-"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	dir := defaultDataDir()
	return &Config{
		ServerURL:     "http://localhost:8080",
		DataDir:       dir,
		DeviceID:      "default",
		RemoteTimeout: 5 * time.Second,
		Output:        "text",
		ConfigFile:    filepath.Join(dir, "config.yaml"),
	}
}

// LoadFile overlays values from a YAML file. A missing file is not an error.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// LoadEnv overlays POTATO_* environment variables
func (c *Config) LoadEnv() error {
	return env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix})
}

// DevicePath is the SQLite file backing the device store
func (c *Config) DevicePath() string {
	return filepath.Join(c.DataDir, "device.db")
}

// Validate checks values a user may have mistyped
func (c *Config) Validate() error {
	if c.Output != "text" && c.Output != "json" {
		return fmt.Errorf("invalid output format %q: must be text or json", c.Output)
	}
	if c.RemoteTimeout <= 0 {
		return fmt.Errorf("remote timeout must be positive, got %s", c.RemoteTimeout)
	}
	return nil
}

// resolve builds the effective configuration: defaults, then the YAML file,
// then the environment, then any flag the user set explicitly. flagged holds
// the values cobra parsed.
func resolve(cmd *cobra.Command, flagged *Config) (*Config, error) {
	c := DefaultConfig()

	path := c.ConfigFile
	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		path = p
	}
	if cmd.Flags().Changed("config") {
		path = flagged.ConfigFile
	}
	if err := c.LoadFile(path); err != nil {
		return nil, err
	}
	if err := c.LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	c.ConfigFile = path

	overrides := map[string]func(){
		"server":         func() { c.ServerURL = flagged.ServerURL },
		"data-dir":       func() { c.DataDir = flagged.DataDir },
		"local-redis":    func() { c.LocalRedisURL = flagged.LocalRedisURL },
		"device":         func() { c.DeviceID = flagged.DeviceID },
		"remote-timeout": func() { c.RemoteTimeout = flagged.RemoteTimeout },
		"output":         func() { c.Output = flagged.Output },
		"verbose":        func() { c.Verbose = flagged.Verbose },
	}
	for name, apply := range overrides {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".potato"
	}
	return filepath.Join(home, ".potato")
}
