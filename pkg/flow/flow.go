// Package flow holds the page controllers of the client: login, profile and
// questionnaire. Each flow is a small state machine driven by a host, which
// supplies a view to render into, a Navigator for page changes and a
// Scheduler for delayed redirects.
package flow

import (
	"context"
	"log/slog"
	"time"

	"github.com/DSACMS/survey-session-client/pkg/identity"
)

const DefaultRedirectDelay = 2 * time.Second

type Destination int

const (
	Login Destination = iota
	Profile
	Questionnaire
)

func (d Destination) String() string {
	switch d {
	case Login:
		return "login"
	case Profile:
		return "profile"
	case Questionnaire:
		return "questionnaire"
	default:
		return "unknown"
	}
}

// Navigator performs a full page change. The host tears down the current
// flow and builds the one for the destination.
type Navigator interface {
	Navigate(dest Destination)
}

type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeLoading
	NoticeError
	NoticeSuccess
)

// Notice is the single message area of a view. A NoticeNone notice clears it.
type Notice struct {
	Kind NoticeKind
	Text string
}

// IdentityStore is satisfied by *identity.Store.
type IdentityStore interface {
	Get(ctx context.Context) (identity.Identity, bool, error)
	Set(ctx context.Context, id identity.Identity) error
	Clear(ctx context.Context) error
}

type Options struct {
	// Structured logger using slog package
	Logger *slog.Logger
	// Override for testing delayed redirects
	Scheduler Scheduler
	// Grace period before redirecting an unauthenticated visitor or after a
	// successful submission. Zero uses DefaultRedirectDelay.
	RedirectDelay time.Duration
}

func (o Options) withDefaults(component string) Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	o.Logger = o.Logger.With(slog.String("component", component))

	if o.Scheduler == nil {
		o.Scheduler = SystemScheduler
	}
	if o.RedirectDelay <= 0 {
		o.RedirectDelay = DefaultRedirectDelay
	}
	return o
}
