// Package reconciler moves game progress between the live State and the
// remote and local stores. It is the only component that reads or writes
// the persisted save blobs.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/potatofarm/internal/dependencies/clock"
	"github.com/mcoot/potatofarm/internal/model"
	"github.com/mcoot/potatofarm/internal/storage"
)

const tracerName = "github.com/mcoot/potatofarm/internal/services/reconciler"

// Remote is the authenticated save backend
type Remote interface {
	LoadGame(ctx context.Context) (model.GameSave, error)
	SaveGame(ctx context.Context, save model.GameSave) error
}

// Credentials reports whether a remote identity is available
type Credentials interface {
	Present(ctx context.Context) bool
}

// Source names where a load took its candidate save from
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
	SourceNone   Source = "none"
)

// Config holds configuration for the reconciler
type Config struct {
	// RemoteTimeout bounds each remote load or save
	RemoteTimeout time.Duration
}

// DefaultConfig returns default reconciler configuration
func DefaultConfig() Config {
	return Config{
		RemoteTimeout: 5 * time.Second,
	}
}

// Reconciler implements LoadGame and SaveGame over a credential-selected
// backend. At most one reconciliation runs at a time.
type Reconciler struct {
	credentials Credentials
	remote      Remote
	local       storage.Local
	state       *model.State
	clock       clock.Clock
	logger      *slog.Logger
	tracer      trace.Tracer
	cfg         Config

	mu    sync.Mutex
	epoch atomic.Uint64
}

// New creates a new Reconciler
func New(
	credentials Credentials,
	remote Remote,
	local storage.Local,
	state *model.State,
	clock clock.Clock,
	logger *slog.Logger,
	cfg Config,
) *Reconciler {
	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = DefaultConfig().RemoteTimeout
	}
	return &Reconciler{
		credentials: credentials,
		remote:      remote,
		local:       local,
		state:       state,
		clock:       clock,
		logger:      logger,
		tracer:      otel.Tracer(tracerName),
		cfg:         cfg,
	}
}

// State returns the game state this reconciler publishes into
func (r *Reconciler) State() *model.State {
	return r.state
}

// Abandon invalidates every load currently in flight. A load that started
// before the call discards its result instead of publishing it.
func (r *Reconciler) Abandon() {
	r.epoch.Add(1)
}

// LoadGame selects a backend, reconciles the all-time counter against every
// local record of it, publishes the result into the game state and writes it
// back locally. Remote failures degrade to local data and are not returned.
// A local store that fails to answer leaves the device records unknown: the
// write-back is skipped, and without a remote save the load fails with
// ErrLocalRead. ErrStaleLoad and context cancellation are the other errors.
// Nothing is published when an error is returned.
func (r *Reconciler) LoadGame(ctx context.Context) (model.GameSave, error) {
	epoch := r.epoch.Load()

	ctx, span := r.tracer.Start(ctx, "reconciler.LoadGame")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		candidate *model.GameSave
		source    = SourceNone
	)

	if r.credentials.Present(ctx) {
		save, err := r.loadRemote(ctx)
		if err != nil {
			r.logger.Warn("remote load failed, falling back to local save",
				slog.String("kind", model.KindOf(err).String()),
				slog.String("error", err.Error()),
			)
		} else {
			candidate = &save
			source = SourceRemote
		}
	}

	localSave, hasLocal, saveReadErr := r.readLocalSave(ctx)
	if candidate == nil && hasLocal {
		candidate = &localSave
		source = SourceLocal
	}

	legacy, legacyReadErr := r.readLegacyAllTime(ctx)
	readErr := errors.Join(saveReadErr, legacyReadErr)

	best := legacy
	if candidate != nil {
		best = math.Max(best, nonNegative(candidate.AllTimePotatoes))
	}
	if hasLocal {
		best = math.Max(best, nonNegative(localSave.AllTimePotatoes))
	}

	if err := r.current(ctx, epoch); err != nil {
		span.SetStatus(codes.Error, err.Error())
		r.logger.Debug("discarding load result", slog.String("error", err.Error()))
		return model.GameSave{}, err
	}

	if readErr != nil && candidate == nil {
		err := fmt.Errorf("%w: %w", model.ErrLocalRead, readErr)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("local store unreadable, keeping current game", slog.String("error", err.Error()))
		return model.GameSave{}, err
	}

	next := model.NewGameSave()
	if candidate != nil {
		next = candidate.Clone().Normalized()
	}
	next.AllTimePotatoes = best
	next.LastSaved = nil

	r.state.Replace(next)

	if readErr != nil {
		r.logger.Warn("skipping write-back, local records were unreadable", slog.String("error", readErr.Error()))
	} else if err := r.writeLocal(ctx, next); err != nil {
		r.logger.Warn("failed to write back reconciled save", slog.String("error", err.Error()))
	}

	span.SetAttributes(
		attribute.String("source", string(source)),
		attribute.Float64("all_time_potatoes", best),
	)
	r.logger.Debug("game loaded",
		slog.String("source", string(source)),
		slog.Float64("all_time_potatoes", best),
	)

	return r.state.Snapshot(), nil
}

// SaveGame snapshots the game state and persists it remotely when a
// credential is present, locally otherwise. A failed remote save falls back
// to a local write. The returned error means progress could not be persisted
// anywhere.
func (r *Reconciler) SaveGame(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "reconciler.SaveGame")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	save := r.state.Snapshot()
	now := r.clock.Now().UTC()
	save.LastSaved = &now

	if r.credentials.Present(ctx) {
		err := r.saveRemote(ctx, save)
		if err == nil {
			span.SetAttributes(attribute.String("target", string(SourceRemote)))
			return nil
		}
		r.logger.Warn("remote save failed, saving locally",
			slog.String("kind", model.KindOf(err).String()),
			slog.String("error", err.Error()),
		)
	}

	span.SetAttributes(attribute.String("target", string(SourceLocal)))
	if err := r.writeLocal(ctx, save); err != nil {
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("failed to save game", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func (r *Reconciler) loadRemote(ctx context.Context) (model.GameSave, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.RemoteTimeout)
	defer cancel()
	return r.remote.LoadGame(ctx)
}

func (r *Reconciler) saveRemote(ctx context.Context, save model.GameSave) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.RemoteTimeout)
	defer cancel()
	return r.remote.SaveGame(ctx, save)
}

// current reports whether a load that started at epoch may still publish
func (r *Reconciler) current(ctx context.Context, epoch uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.epoch.Load() != epoch {
		return model.ErrStaleLoad
	}
	return nil
}

// readLocalSave returns the locally stored save. Missing and corrupt saves
// count as no local data; a failed read is reported so the caller can tell
// "absent" from "unknown".
func (r *Reconciler) readLocalSave(ctx context.Context) (model.GameSave, bool, error) {
	raw, ok, err := r.local.Get(ctx, storage.SaveKey)
	if err != nil {
		r.logger.Warn("failed to read local save", slog.String("error", err.Error()))
		return model.GameSave{}, false, fmt.Errorf("read %s: %w", storage.SaveKey, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return model.GameSave{}, false, nil
	}

	save, err := model.DecodeGameSave([]byte(raw))
	if err != nil {
		r.logger.Warn("corrupt local save, ignoring",
			slog.String("kind", model.KindOf(err).String()),
			slog.String("error", err.Error()),
		)
		return model.GameSave{}, false, nil
	}
	return save, true, nil
}

// readLegacyAllTime returns the standalone all-time key, or 0 when it is
// absent or not a non-negative finite number. A failed read is reported.
func (r *Reconciler) readLegacyAllTime(ctx context.Context) (float64, error) {
	raw, ok, err := r.local.Get(ctx, storage.LegacyAllTimeKey)
	if err != nil {
		r.logger.Warn("failed to read legacy all-time counter", slog.String("error", err.Error()))
		return 0, fmt.Errorf("read %s: %w", storage.LegacyAllTimeKey, err)
	}
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, nil
	}
	return nonNegative(v), nil
}

// writeLocal stores the full save and mirrors its all-time counter into the
// legacy key. Only a failure to store the full save is returned.
func (r *Reconciler) writeLocal(ctx context.Context, save model.GameSave) error {
	data, err := save.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode save: %w", err)
	}

	saveErr := r.local.Set(ctx, storage.SaveKey, string(data))
	legacyErr := r.local.Set(ctx, storage.LegacyAllTimeKey, FormatAllTime(save.AllTimePotatoes))
	if legacyErr != nil {
		r.logger.Warn("failed to write legacy all-time counter", slog.String("error", legacyErr.Error()))
	}
	if saveErr != nil {
		return fmt.Errorf("failed to write local save: %w", saveErr)
	}
	return nil
}

// FormatAllTime renders a counter the way the legacy key stores it
func FormatAllTime(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// IsStale reports whether err means a load was discarded rather than failed
func IsStale(err error) bool {
	return errors.Is(err, model.ErrStaleLoad) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
