package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DSACMS/survey-session-client/pkg/identity"
)

const msgLogoutFailed = "Could not end your session."

type ProfileState int

const (
	ProfileLoading ProfileState = iota
	ProfileAuthenticated
	ProfileRedirecting
)

func (s ProfileState) String() string {
	return [...]string{"loading", "authenticated", "redirecting"}[s]
}

type ProfileView interface {
	Show(n Notice)
	// RenderProfile displays the fields verbatim; empty fields stay empty.
	RenderProfile(id identity.Identity)
}

type ProfileFlow struct {
	lifecycle

	state ProfileState
	store IdentityStore
	view  ProfileView
}

func NewProfileFlow(store IdentityStore, view ProfileView, nav Navigator, opts Options) *ProfileFlow {
	f := &ProfileFlow{
		state: ProfileLoading,
		store: store,
		view:  view,
	}
	f.init(nav, opts.withDefaults("flow.profile"))
	return f
}

func (f *ProfileFlow) State() ProfileState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Load runs the entry guard once. Without an identity the flow redirects to
// Login after the configured delay.
func (f *ProfileFlow) Load(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.disposed {
		return ErrDisposed
	}
	if f.state != ProfileLoading {
		return ErrInvalidState
	}

	id, ok := f.requireIdentityLocked(ctx, f.store, f.view.Show)
	if !ok {
		f.state = ProfileRedirecting
		return nil
	}

	f.state = ProfileAuthenticated
	f.view.RenderProfile(id)
	return nil
}

// Logout clears the session identity and navigates to Login immediately.
func (f *ProfileFlow) Logout(ctx context.Context) error {
	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		return ErrDisposed
	}
	if f.state != ProfileAuthenticated {
		f.mu.Unlock()
		return ErrInvalidState
	}

	if err := f.store.Clear(ctx); err != nil {
		f.view.Show(Notice{Kind: NoticeError, Text: msgLogoutFailed})
		f.mu.Unlock()
		f.logger.ErrorContext(ctx, "clear identity failed", slog.Any("error", err))
		return fmt.Errorf("clear identity: %w", err)
	}

	f.state = ProfileRedirecting
	f.mu.Unlock()

	f.logger.InfoContext(ctx, "logged out")
	f.nav.Navigate(Login)
	return nil
}

func (f *ProfileFlow) OpenQuestionnaire() error {
	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		return ErrDisposed
	}
	if f.state != ProfileAuthenticated {
		f.mu.Unlock()
		return ErrInvalidState
	}
	f.mu.Unlock()

	f.nav.Navigate(Questionnaire)
	return nil
}
