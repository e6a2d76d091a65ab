package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisBreaker keeps its state in redis so every client process sharing a
// backend sees the same outage.
//
// Keys: <prefix><name>:fails counts failures inside FailWindow,
// <prefix><name>:open exists while the breaker is open and
// <prefix><name>:half is the probe lease.
type RedisBreaker struct {
	// Redis client used to read and update the circuit state.
	rdb *redis.Client
	// Name of the breaker, combined with the prefix to build keys.
	name string
	// Defines the behaviour and timing characteristics of the breaker.
	opts   Options
	logger *slog.Logger
}

var _ Breaker = (*RedisBreaker)(nil)

func NewRedisBreaker(rdb *redis.Client, name string, opts Options, logger *slog.Logger) *RedisBreaker {
	if opts.FailureThreshold <= 0 {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RedisBreaker{
		rdb:  rdb,
		name: name,
		opts: opts,
		logger: logger.With(
			slog.String("component", "circuitbreaker"),
			slog.String("breaker", name),
		),
	}
}

func (b *RedisBreaker) keys() (openKey, failsKey, halfKey string) {
	prefix := b.opts.Prefix + b.name + ":"
	return prefix + "open", prefix + "fails", prefix + "half"
}

// Allow returns nil if the call may proceed, or ErrCircuitOpen if it must be
// blocked. The open key carries a TTL of OpenCoolDown + HalfOpenLease; once
// only the lease part is left one caller wins the half key and probes.
func (b *RedisBreaker) Allow(ctx context.Context) error {
	openKey, _, halfKey := b.keys()

	ttl, err := b.rdb.PTTL(ctx, openKey).Result()
	if err != nil {
		return b.blind(err)
	}
	// -2: key missing, breaker closed
	if ttl == -2 {
		return nil
	}
	if ttl > b.opts.HalfOpenLease {
		return ErrCircuitOpen
	}

	won, err := b.rdb.SetNX(ctx, halfKey, "1", b.opts.HalfOpenLease).Result()
	if err != nil {
		return b.blind(err)
	}
	if !won {
		return ErrCircuitOpen
	}

	b.logger.InfoContext(ctx, "circuit half-open, probing")
	return nil
}

func (b *RedisBreaker) blind(err error) error {
	b.logger.Warn("breaker state unavailable", slog.Any("err", err), slog.Bool("fail_open", b.opts.FailOpen))
	if b.opts.FailOpen {
		return nil
	}
	return errors.Join(ErrCircuitOpen, err)
}

func (b *RedisBreaker) OnSuccess(ctx context.Context) {
	openKey, failsKey, halfKey := b.keys()

	deleted, err := b.rdb.Del(ctx, openKey, failsKey, halfKey).Result()
	if err != nil {
		b.logger.WarnContext(ctx, "failed to reset breaker", slog.Any("err", err))
		return
	}
	if deleted > 0 {
		b.logger.DebugContext(ctx, "breaker reset")
	}
}

func (b *RedisBreaker) OnFailure(ctx context.Context) {
	openKey, failsKey, halfKey := b.keys()

	fails, err := b.rdb.Incr(ctx, failsKey).Result()
	if err != nil {
		b.logger.WarnContext(ctx, "failed to record failure", slog.Any("err", err))
		return
	}

	ttl, err := b.rdb.PTTL(ctx, failsKey).Result()
	if err == nil && ttl < 0 {
		_ = b.rdb.PExpire(ctx, failsKey, b.opts.FailWindow).Err()
	}

	// a failed probe re-opens straight away
	probing, err := b.rdb.Exists(ctx, halfKey).Result()
	if err != nil {
		probing = 0
	}
	if int(fails) < b.opts.FailureThreshold && probing == 0 {
		return
	}

	pipe := b.rdb.TxPipeline()
	pipe.Set(ctx, openKey, "1", b.opts.OpenCoolDown+b.opts.HalfOpenLease)
	pipe.Del(ctx, failsKey, halfKey)
	_, err = pipe.Exec(ctx)
	if err != nil {
		b.logger.WarnContext(ctx, "failed to open breaker", slog.Any("err", err))
		return
	}

	b.logger.WarnContext(ctx, "circuit opened", slog.Int64("failures", fails))
}
