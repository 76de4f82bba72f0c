package memory

import (
	"context"
	"sync"

	"github.com/mcoot/potatofarm/internal/storage"
)

// Local is an in-memory device store
type Local struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewLocal creates an empty in-memory device store
func NewLocal() *Local {
	return &Local{values: make(map[string]string)}
}

var _ storage.Local = (*Local)(nil)

func (l *Local) Get(ctx context.Context, key string) (string, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.values[key]
	return v, ok, nil
}

func (l *Local) Set(ctx context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values[key] = value
	return nil
}

func (l *Local) Remove(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.values, key)
	return nil
}

// Len returns the number of stored keys
func (l *Local) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.values)
}
