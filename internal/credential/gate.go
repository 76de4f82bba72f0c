// Package credential holds the bearer token that links this device to a
// remote identity.
package credential

import (
	"context"
	"log/slog"

	"github.com/mcoot/potatofarm/internal/storage"
)

// Gate stores and retrieves the bearer credential in the local store.
// An empty token means "guest / local only".
type Gate struct {
	local  storage.Local
	logger *slog.Logger
}

// New creates a Gate over the given device store
func New(local storage.Local, logger *slog.Logger) *Gate {
	return &Gate{local: local, logger: logger}
}

// Set stores token, or clears the credential when token is empty.
// Store failures are logged; the gate never fails its caller.
func (g *Gate) Set(ctx context.Context, token string) {
	var err error
	if token == "" {
		err = g.local.Remove(ctx, storage.CredentialKey)
	} else {
		err = g.local.Set(ctx, storage.CredentialKey, token)
	}
	if err != nil {
		g.logger.Warn("failed to persist credential",
			slog.Bool("clearing", token == ""),
			slog.String("error", err.Error()),
		)
	}
}

// Clear removes the stored credential
func (g *Gate) Clear(ctx context.Context) {
	g.Set(ctx, "")
}

// Get returns the stored token; ok is false when none is set or the store
// cannot be read.
func (g *Gate) Get(ctx context.Context) (string, bool) {
	token, ok, err := g.local.Get(ctx, storage.CredentialKey)
	if err != nil {
		g.logger.Warn("failed to read credential", slog.String("error", err.Error()))
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Present reports whether a remote identity is available
func (g *Gate) Present(ctx context.Context) bool {
	_, ok := g.Get(ctx)
	return ok
}

// Token implements the remote client's token source
func (g *Gate) Token(ctx context.Context) string {
	token, _ := g.Get(ctx)
	return token
}
