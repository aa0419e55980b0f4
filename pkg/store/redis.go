package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares app state between processes through redis.
// The token key expires with the token when it is a JWT carrying an exp claim.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

// RedisConfig configures NewRedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisStore connects to redis and checks the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return NewRedisStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "netservice:app"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) tokenKey() string  { return r.prefix + ":token" }
func (r *RedisStore) appURLKey() string { return r.prefix + ":app_url" }

func (r *RedisStore) State(ctx context.Context) (AppState, error) {
	vals, err := r.client.MGet(ctx, r.tokenKey(), r.appURLKey()).Result()
	if err != nil {
		return AppState{}, fmt.Errorf("read app state: %w", err)
	}
	return AppState{
		Token:  stringValue(vals[0]),
		AppURL: stringValue(vals[1]),
	}, nil
}

func stringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func (r *RedisStore) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return r.ClearToken(ctx)
	}
	var ttl time.Duration
	if exp, ok := TokenExpiry(token); ok {
		ttl = time.Until(exp)
		if ttl <= 0 {
			// already expired; keep it so the next call hits 401 and refreshes
			ttl = time.Second
		}
	}
	if err := r.client.Set(ctx, r.tokenKey(), token, ttl).Err(); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

func (r *RedisStore) SetAppURL(ctx context.Context, appURL string) error {
	if err := r.client.Set(ctx, r.appURLKey(), appURL, 0).Err(); err != nil {
		return fmt.Errorf("store app url: %w", err)
	}
	return nil
}

func (r *RedisStore) ClearToken(ctx context.Context) error {
	if err := r.client.Del(ctx, r.tokenKey()).Err(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Close releases the redis connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
