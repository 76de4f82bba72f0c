package testutil

import (
	"context"
	"sync"

	"github.com/mcoot/potatofarm/internal/storage"
	"github.com/mcoot/potatofarm/internal/storage/memory"
)

// FailingLocal is a device store whose every operation fails with Err
type FailingLocal struct {
	Err error
}

var _ storage.Local = (*FailingLocal)(nil)

func (f *FailingLocal) Get(context.Context, string) (string, bool, error) { return "", false, f.Err }
func (f *FailingLocal) Set(context.Context, string, string) error        { return f.Err }
func (f *FailingLocal) Remove(context.Context, string) error             { return f.Err }

// WriteFailingLocal serves reads from an in-memory store but fails writes
// to the listed keys (all keys when none are listed).
type WriteFailingLocal struct {
	*memory.Local
	Err  error
	Keys []string
}

var _ storage.Local = (*WriteFailingLocal)(nil)

func (w *WriteFailingLocal) Set(ctx context.Context, key, value string) error {
	if w.fails(key) {
		return w.Err
	}
	return w.Local.Set(ctx, key, value)
}

func (w *WriteFailingLocal) fails(key string) bool {
	if len(w.Keys) == 0 {
		return true
	}
	for _, k := range w.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// FlakyReadLocal wraps a device store so the first read of each key fails
// with Err. Writes always go through.
type FlakyReadLocal struct {
	storage.Local
	Err error

	mu     sync.Mutex
	failed map[string]bool
}

var _ storage.Local = (*FlakyReadLocal)(nil)

func (f *FlakyReadLocal) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	if f.failed == nil {
		f.failed = make(map[string]bool)
	}
	first := !f.failed[key]
	f.failed[key] = true
	f.mu.Unlock()

	if first {
		return "", false, f.Err
	}
	return f.Local.Get(ctx, key)
}
