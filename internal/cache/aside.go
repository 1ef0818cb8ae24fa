package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Aside implements the cache-aside pattern: on hit, dest is filled from the
// cached JSON; on miss, fetch is called and its result (written into dest by
// the caller's closure) is stored under key with the given TTL.
// With no Redis client configured, fetch runs directly.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	raw, err := client.Get(ctx, key).Bytes()
	if err == nil {
		if unmarshalErr := json.Unmarshal(raw, dest); unmarshalErr == nil {
			return nil
		}
		// Corrupt entry: drop it and fall through to the fetch path.
		client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		// Redis trouble is not a request failure; serve from the source.
		return fetch()
	}

	if err := fetch(); err != nil {
		return err
	}

	if data, marshalErr := json.Marshal(dest); marshalErr == nil {
		client.Set(ctx, key, data, ttl)
	}
	return nil
}
