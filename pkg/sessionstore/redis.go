package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis namespaces every key under <prefix><sessionID>: and refreshes the TTL
// on each write and read, so an idle session eventually disappears.
type Redis struct {
	rdb       *redis.Client
	sessionID string
	prefix    string
	ttl       time.Duration
}

var _ Storage = (*Redis)(nil)

type RedisOptions struct {
	// Defaults to "session:".
	Prefix string
	// Zero keeps values until deleted.
	TTL time.Duration
}

func NewRedis(rdb *redis.Client, sessionID string, opts RedisOptions) *Redis {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "session:"
	}

	return &Redis{
		rdb:       rdb,
		sessionID: sessionID,
		prefix:    prefix,
		ttl:       opts.TTL,
	}
}

func (r *Redis) SessionID() string {
	return r.sessionID
}

func (r *Redis) key(key string) string {
	return r.prefix + r.sessionID + ":" + key
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value []byte
		err   error
	)
	if r.ttl > 0 {
		value, err = r.rdb.GetEx(ctx, r.key(key), r.ttl).Bytes()
	} else {
		value, err = r.rdb.Get(ctx, r.key(key)).Bytes()
	}

	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session key %q: %w", key, err)
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	err := r.rdb.Set(ctx, r.key(key), value, r.ttl).Err()
	if err != nil {
		return fmt.Errorf("write session key %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	err := r.rdb.Del(ctx, r.key(key)).Err()
	if err != nil {
		return fmt.Errorf("delete session key %q: %w", key, err)
	}
	return nil
}
