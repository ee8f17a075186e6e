package store

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key this store writes.
const DefaultRedisPrefix = "registry:"

// Redis keeps values in a shared redis instance so a layout follows the
// user across machines.
type Redis struct {
	client *redis.Client
	prefix string
}

// DialRedis connects to addr and verifies the connection with a ping.
func DialRedis(ctx context.Context, addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, goerr.Wrap(err, "ping redis", goerr.V("addr", addr))
	}
	return NewRedis(client, DefaultRedisPrefix), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, goerr.Wrap(err, "redis get", goerr.V("key", key))
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return goerr.Wrap(err, "redis set", goerr.V("key", key))
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
