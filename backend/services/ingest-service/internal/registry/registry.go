package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "devices:"

// Registry looks up known devices in the redis-backed device registry.
type Registry struct {
	client    *redis.Client
	keyPrefix string
	timeout   time.Duration
}

// NewRegistry returns a device registry over the given redis client.
func NewRegistry(client *redis.Client, keyPrefix string, timeout time.Duration) *Registry {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Registry{client: client, keyPrefix: keyPrefix, timeout: timeout}
}

// Known reports whether the device identifier exists in the registry.
func (r *Registry) Known(ctx context.Context, deviceID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	n, err := r.client.Exists(ctx, r.keyPrefix+deviceID).Result()
	if err != nil {
		return false, fmt.Errorf("registry: lookup %s: %w", deviceID, err)
	}
	return n > 0, nil
}
