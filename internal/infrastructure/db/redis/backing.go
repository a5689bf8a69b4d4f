package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

// Backing persists session snapshots as plain string values. Each write
// refreshes the key's TTL; a zero TTL keeps keys forever.
type Backing struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.Backing = (*Backing)(nil)

func NewBacking(client *redis.Client, ttl time.Duration) *Backing {
	return &Backing{client: client, ttl: ttl}
}

func (b *Backing) Read(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("backing read %s: %w", key, err)
	}
	return data, true, nil
}

func (b *Backing) Write(ctx context.Context, key string, data []byte) error {
	if err := b.client.Set(ctx, key, data, b.ttl).Err(); err != nil {
		return fmt.Errorf("backing write %s: %w", key, err)
	}
	return nil
}
