package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisWatchlist stores per-user watchlists as Redis sets.
type RedisWatchlist struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisWatchlist creates a watchlist store.
func NewRedisWatchlist(client *redis.Client) *RedisWatchlist {
	return &RedisWatchlist{client: client, keyPrefix: "stockpulse:watchlist"}
}

func (w *RedisWatchlist) key(user string) string {
	return w.keyPrefix + ":" + user
}

func (w *RedisWatchlist) Add(ctx context.Context, user, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return fmt.Errorf("empty code")
	}
	if err := w.client.SAdd(ctx, w.key(user), code).Err(); err != nil {
		return fmt.Errorf("watchlist add: %w", err)
	}
	return nil
}

func (w *RedisWatchlist) Remove(ctx context.Context, user, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := w.client.SRem(ctx, w.key(user), code).Err(); err != nil {
		return fmt.Errorf("watchlist remove: %w", err)
	}
	return nil
}

func (w *RedisWatchlist) List(ctx context.Context, user string) ([]string, error) {
	codes, err := w.client.SMembers(ctx, w.key(user)).Result()
	if err != nil {
		return nil, fmt.Errorf("watchlist list: %w", err)
	}
	return codes, nil
}
