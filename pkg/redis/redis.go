package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DSACMS/survey-session-client/pkg/core"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout  = 2 * time.Second
	defaultReadTimeout  = 2 * time.Second
	defaultWriteTimeout = 2 * time.Second
	defaultPoolTimeout  = 2 * time.Second

	// One interactive session never needs more than a handful of connections.
	defaultPoolSize     = 4
	defaultMinIdleConns = 1
)

type Config struct {
	// Typically "localhost:6379"
	Addr     string
	Password string
	DB       int
	// Instrument attaches redisotel tracing and metrics hooks.
	Instrument bool
}

func ConfigFromCore(cfg core.Config) Config {
	return Config{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		Instrument: !cfg.Otel.Disable,
	}
}

func NewClient(c Config, logger *slog.Logger) *redis.Client {
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "redis"),
		slog.String("addr", c.Addr),
		slog.Int("db", c.DB),
	)

	opts := &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		PoolTimeout:  defaultPoolTimeout,
		PoolSize:     defaultPoolSize,
		MinIdleConns: defaultMinIdleConns,
	}

	logger.Debug("initializing redis client")

	rdb := redis.NewClient(opts)

	if c.Instrument {
		err := errors.Join(
			redisotel.InstrumentTracing(rdb),
			redisotel.InstrumentMetrics(rdb),
		)
		if err != nil {
			logger.Warn("otel instrumentation failed", slog.Any("err", err))
		}
	}

	return rdb
}

// Connect builds a client and verifies it answers PING before returning it.
func Connect(ctx context.Context, c Config, logger *slog.Logger) (*redis.Client, error) {
	rdb := NewClient(c, logger)

	err := Ping(ctx, rdb)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("redis %s unreachable: %w", c.Addr, err),
			rdb.Close(),
		)
	}

	return rdb, nil
}

func Ping(ctx context.Context, rdb *redis.Client) error {
	return rdb.Ping(ctx).Err()
}
