package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/potatofarm/internal/storage"
)

// Local is a device store kept in Redis under a per-device namespace
type Local struct {
	client   *redis.Client
	deviceID string
}

// NewLocal connects to Redis and returns a device store for cfg.DeviceID
func NewLocal(cfg Config) (*Local, error) {
	client, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	return NewLocalWithClient(client, cfg.DeviceID), nil
}

// NewLocalWithClient creates a device store with an existing client (for testing)
func NewLocalWithClient(client *redis.Client, deviceID string) *Local {
	if deviceID == "" {
		deviceID = DefaultConfig().DeviceID
	}
	return &Local{client: client, deviceID: deviceID}
}

var _ storage.Local = (*Local)(nil)

func (l *Local) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := l.client.Get(ctx, deviceKey(l.deviceID, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (l *Local) Set(ctx context.Context, key, value string) error {
	return l.client.Set(ctx, deviceKey(l.deviceID, key), value, 0).Err()
}

func (l *Local) Remove(ctx context.Context, key string) error {
	return l.client.Del(ctx, deviceKey(l.deviceID, key)).Err()
}

// Close closes the Redis connection
func (l *Local) Close() error {
	return l.client.Close()
}
