package cooldown

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plankit/plankit/pkg/logger"
)

const defaultKeyPrefix = "plankit:cooldown:"

// RedisStore implements Store on Redis so that multiple service
// instances share one cooldown view. Entry expiry is delegated to
// Redis TTLs, so no janitor is needed.
//
// All Redis failures fail open (ShouldSync returns true): a broken
// cache must cost extra provider fetches, never stale plan state.
type RedisStore struct {
	client    redis.UniversalClient
	window    time.Duration
	keyPrefix string
	log       *slog.Logger
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisWindow overrides the cooldown window.
func WithRedisWindow(window time.Duration) RedisStoreOption {
	return func(rs *RedisStore) {
		if window > 0 {
			rs.window = window
		}
	}
}

// WithKeyPrefix overrides the Redis key prefix, e.g. to namespace
// environments sharing one Redis.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) {
		if prefix != "" {
			rs.keyPrefix = prefix
		}
	}
}

// WithRedisLogger sets the logger for cache failures.
func WithRedisLogger(log *slog.Logger) RedisStoreOption {
	return func(rs *RedisStore) {
		if log != nil {
			rs.log = log
		}
	}
}

// NewRedisStore creates a Redis-backed cooldown store.
// Panics if client is nil to fail fast during initialization.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	if client == nil {
		panic("cooldown: redis client is required")
	}

	rs := &RedisStore{
		client:    client,
		window:    DefaultWindow,
		keyPrefix: defaultKeyPrefix,
		log:       slog.Default(),
	}

	for _, opt := range opts {
		opt(rs)
	}

	return rs
}

func (rs *RedisStore) ShouldSync(ctx context.Context, accountID string) bool {
	exists, err := rs.client.Exists(ctx, rs.key(accountID)).Result()
	if err != nil {
		rs.log.LogAttrs(ctx, slog.LevelWarn, "cooldown check failed, allowing sync",
			logger.AccountID(accountID),
			logger.Error(err),
		)
		return true
	}
	return exists == 0
}

func (rs *RedisStore) MarkSynced(ctx context.Context, accountID string) {
	err := rs.client.Set(ctx, rs.key(accountID), time.Now().UTC().Format(time.RFC3339), rs.window).Err()
	if err != nil {
		rs.log.LogAttrs(ctx, slog.LevelWarn, "failed to record sync time",
			logger.AccountID(accountID),
			logger.Error(err),
		)
	}
}

func (rs *RedisStore) Clear(ctx context.Context, accountID string) {
	if err := rs.client.Del(ctx, rs.key(accountID)).Err(); err != nil {
		rs.log.LogAttrs(ctx, slog.LevelWarn, "failed to clear cooldown",
			logger.AccountID(accountID),
			logger.Error(err),
		)
	}
}

func (rs *RedisStore) key(accountID string) string {
	return rs.keyPrefix + accountID
}
