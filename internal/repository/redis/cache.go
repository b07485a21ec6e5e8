// Package redisrepo holds the redis-backed read cache, idempotency records,
// rate limiting and token revocation.
package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	redisx "github.com/kirinyoku/eventhub/internal/redis"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	rdb *redis.Client
	sf  singleflight.Group
}

func New(client *redis.Client) *Cache {
	return &Cache{rdb: client}
}

func (c *Cache) GetString(ctx context.Context, key string) (string, bool, error) {
	s, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return s, true, nil
}

func (c *Cache) SetString(
	ctx context.Context,
	key string,
	val string,
	ttl time.Duration,
) error {
	return c.rdb.Set(ctx, key, val, ttl).Err()
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}

	return c.rdb.Del(ctx, keys...).Err()
}

func GetJSON[T any](ctx context.Context, c *Cache, key string) (T, bool, error) {
	var zero T

	s, ok, err := c.GetString(ctx, key)
	if err != nil || !ok {
		return zero, ok, err
	}

	var out T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return zero, false, err
	}

	return out, true, nil
}

func SetJSON(
	ctx context.Context,
	c *Cache,
	key string,
	val any,
	ttl time.Duration,
) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	return c.SetString(ctx, key, string(b), ttl)
}

// GetOrSetJSON reads key or fills it from loader, collapsing concurrent misses
// into one loader call. A nil cache calls loader directly. Redis read errors
// degrade to the loader instead of failing the request.
func GetOrSetJSON[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	if c == nil {
		return loader(ctx)
	}

	v, ok, err := GetJSON[T](ctx, c, key)
	if err != nil {
		slog.Warn("cache read failed", "key", key, "err", err)
	} else if ok {
		return v, nil
	}

	vAny, err, _ := c.sf.Do(key, func() (any, error) {
		if v2, ok2, err2 := GetJSON[T](ctx, c, key); err2 == nil && ok2 {
			return v2, nil
		}
		v3, err3 := loader(ctx)
		if err3 != nil {
			return nil, err3
		}
		if err := SetJSON(ctx, c, key, v3, ttl); err != nil {
			slog.Warn("cache write failed", "key", key, "err", err)
		}
		return v3, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	out, ok := vAny.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: unexpected type %T for key %s", vAny, key)
	}

	return out, nil
}

// InvalidateEvent drops the event entry and every list view that may include it.
func (c *Cache) InvalidateEvent(ctx context.Context, eventID uuid.UUID) error {
	if c == nil {
		return nil
	}

	return c.Del(ctx, append(listKeys(), redisx.KeyEvent(eventID))...)
}

// InvalidateLists drops every list view while leaving per-event entries.
func (c *Cache) InvalidateLists(ctx context.Context) error {
	if c == nil {
		return nil
	}

	return c.Del(ctx, listKeys()...)
}

func listKeys() []string {
	return []string{redisx.KeyEventList()}
}
