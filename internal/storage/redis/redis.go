// Package redis keeps the storefront cart in Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/xenking/handmade-storefront/internal/cart"
)

const keyPrefix = "cart:"

var _ cart.Storage = (*CartStorage)(nil)

// CartStorage implements cart.Storage on a Redis string key per cart.
type CartStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartStorage returns a CartStorage. A zero ttl keeps carts forever.
func NewCartStorage(client *redis.Client, ttl time.Duration) *CartStorage {
	return &CartStorage{client: client, ttl: ttl}
}

func (s *CartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return data, nil
}

func (s *CartStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}
