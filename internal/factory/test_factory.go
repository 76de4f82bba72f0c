package factory

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"time"

	"github.com/mcoot/potatofarm/internal/dependencies/mocks"
	"github.com/mcoot/potatofarm/internal/services/auth"
	"github.com/mcoot/potatofarm/internal/services/saves"
	"github.com/mcoot/potatofarm/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	authCfg := auth.DefaultConfig()
	authCfg.SigningKey = []byte("test-signing-key-0123456789abcdef")
	app := newWithDependencies(store, mockClock, authCfg, saves.DefaultConfig(), logger)

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}

// Serve starts an httptest server for the app. The caller closes it.
func (t *TestApp) Serve() *httptest.Server {
	return httptest.NewServer(t.Handler(""))
}

// NewTestDevice creates a device with an in-memory local store pointed at baseURL
func (t *TestApp) NewTestDevice(baseURL string) *Device {
	return NewDevice(DeviceConfig{
		BaseURL: baseURL,
		Local:   memory.NewLocal(),
		Clock:   t.MockClock,
		Logger:  t.Logger,
	})
}
