package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/potatofarm/internal/authapi"
	"github.com/mcoot/potatofarm/internal/credential"
	"github.com/mcoot/potatofarm/internal/dependencies/clock"
	"github.com/mcoot/potatofarm/internal/model"
	"github.com/mcoot/potatofarm/internal/services/account"
	"github.com/mcoot/potatofarm/internal/services/reconciler"
	"github.com/mcoot/potatofarm/internal/storage"
)

// Device is one client installation: a local store, its credential and the
// live game state, wired to a remote store.
type Device struct {
	Local      storage.Local
	Gate       *credential.Gate
	Client     *authapi.Client
	State      *model.State
	Reconciler *reconciler.Reconciler
	Accounts   *account.Service
	Logger     *slog.Logger
}

// DeviceConfig holds configuration for a device
type DeviceConfig struct {
	// BaseURL is the remote store's root URL
	BaseURL string
	// Local is the on-device store (required)
	Local storage.Local
	// RemoteTimeout bounds remote loads and saves (optional)
	RemoteTimeout time.Duration
	// Clock stamps saves (optional, defaults to the system clock)
	Clock clock.Clock
	// Logger is the device logger (optional)
	Logger *slog.Logger
}

// NewDevice wires a device
func NewDevice(cfg DeviceConfig) *Device {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	recCfg := reconciler.DefaultConfig()
	if cfg.RemoteTimeout > 0 {
		recCfg.RemoteTimeout = cfg.RemoteTimeout
	}

	gate := credential.New(cfg.Local, logger)
	client := authapi.NewClient(cfg.BaseURL, gate, logger)
	state := model.NewState()
	rec := reconciler.New(gate, client, cfg.Local, state, clk, logger, recCfg)

	return &Device{
		Local:      cfg.Local,
		Gate:       gate,
		Client:     client,
		State:      state,
		Reconciler: rec,
		Accounts:   account.New(client, gate, rec, logger),
		Logger:     logger,
	}
}

// Close releases the local store if it holds resources
func (d *Device) Close() error {
	if c, ok := d.Local.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
