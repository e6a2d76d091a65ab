package flow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DSACMS/survey-session-client/pkg/identity"
)

const msgNotConnected = "You are not connected. Redirecting..."

// lifecycle is shared by every flow: the mutex guarding state, disposal and
// the single pending redirect.
type lifecycle struct {
	mu       sync.Mutex
	disposed bool
	timer    Timer

	nav    Navigator
	opts   Options
	logger *slog.Logger
}

func (l *lifecycle) init(nav Navigator, opts Options) {
	l.nav = nav
	l.opts = opts
	l.logger = opts.Logger
}

// scheduleLocked arms the one redirect of this flow. Callers hold mu.
func (l *lifecycle) scheduleLocked(dest Destination, delay time.Duration) {
	if l.timer != nil {
		return
	}

	l.logger.Debug("redirect scheduled",
		slog.String("destination", dest.String()),
		slog.Duration("delay", delay),
	)

	l.timer = l.opts.Scheduler.AfterFunc(delay, func() {
		l.mu.Lock()
		disposed := l.disposed
		l.mu.Unlock()

		if disposed {
			l.logger.Debug("redirect dropped after close", slog.String("destination", dest.String()))
			return
		}
		l.nav.Navigate(dest)
	})
}

// Close stops any pending redirect; completions arriving afterwards are
// ignored. Safe to call more than once.
func (l *lifecycle) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.disposed {
		return
	}
	l.disposed = true
	if l.timer != nil {
		l.timer.Stop()
	}
}

// requireIdentityLocked is the entry guard of the authenticated pages. When
// no identity is readable it shows the not-connected notice and schedules
// the redirect to Login.
func (l *lifecycle) requireIdentityLocked(ctx context.Context, store IdentityStore, show func(Notice)) (identity.Identity, bool) {
	id, ok, err := store.Get(ctx)
	if err != nil {
		l.logger.ErrorContext(ctx, "read session identity failed", slog.Any("error", err))
	}
	if err == nil && ok {
		return id, true
	}

	show(Notice{Kind: NoticeError, Text: msgNotConnected})
	l.scheduleLocked(Login, l.opts.RedirectDelay)
	return identity.Identity{}, false
}
