package circuitbreaker

import (
	"context"
	"errors"
	"time"

	"github.com/DSACMS/survey-session-client/pkg/core"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

const (
	defaultFailureThreshold = 5
	defaultFailWindow       = 10
	defaultOpenCooldown     = 30
	defaultHalfOpenLease    = 5
	defaultFailOpen         = true
	defaultPrefix           = "cb:"
)

// Breaker guards a single remote operation. Allow is consulted before the
// call; exactly one of OnSuccess or OnFailure reports its outcome.
type Breaker interface {
	Allow(ctx context.Context) error
	OnSuccess(ctx context.Context)
	OnFailure(ctx context.Context)
}

type Options struct {
	// Number of failures before entering open state.
	FailureThreshold int
	// Time between failures to count as an outage.
	FailWindow time.Duration
	// How long to stay in open state before a probe is allowed through.
	OpenCoolDown time.Duration
	// Lease held by the single probe call once the cool down has elapsed.
	HalfOpenLease time.Duration
	// Behaviour of Allow while redis is unreachable.
	// TRUE: allows requests to proceed without circuit breaker participating
	// FALSE: blocks requests
	FailOpen bool
	// Key prefix to prevent name clashing.
	Prefix string
}

func DefaultOptions() Options {
	return Options{
		FailureThreshold: defaultFailureThreshold,
		FailWindow:       defaultFailWindow * time.Second,
		OpenCoolDown:     defaultOpenCooldown * time.Second,
		HalfOpenLease:    defaultHalfOpenLease * time.Second,
		FailOpen:         defaultFailOpen,
		Prefix:           defaultPrefix,
	}
}

func OptionsFromCore(cfg core.BreakerConfig) Options {
	opts := DefaultOptions()
	if cfg.FailureThreshold > 0 {
		opts.FailureThreshold = cfg.FailureThreshold
	}
	if cfg.FailWindow > 0 {
		opts.FailWindow = cfg.FailWindow
	}
	if cfg.OpenCoolDown > 0 {
		opts.OpenCoolDown = cfg.OpenCoolDown
	}
	return opts
}
