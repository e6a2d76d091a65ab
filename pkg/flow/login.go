package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DSACMS/survey-session-client/pkg/identity"
	"github.com/DSACMS/survey-session-client/pkg/remote"
)

const (
	msgEmptyCode    = "Please enter a code."
	msgSigningIn    = "Signing in..."
	msgLoginSuccess = "Login successful! Redirecting..."
	msgSaveFailed   = "Could not save your session."
)

type LoginState int

const (
	LoginIdle LoginState = iota
	LoginSubmitting
	LoginSuccess
	LoginFailed
)

func (s LoginState) String() string {
	return [...]string{"idle", "submitting", "success", "failed"}[s]
}

type LoginView interface {
	Show(n Notice)
	SetSubmitEnabled(enabled bool)
}

// Authenticator is the part of remote.Client LoginFlow uses.
type Authenticator interface {
	Login(ctx context.Context, password string) (identity.Identity, error)
}

type LoginFlow struct {
	lifecycle

	state LoginState
	store IdentityStore
	auth  Authenticator
	view  LoginView
}

func NewLoginFlow(store IdentityStore, auth Authenticator, view LoginView, nav Navigator, opts Options) *LoginFlow {
	f := &LoginFlow{
		state: LoginIdle,
		store: store,
		auth:  auth,
		view:  view,
	}
	f.init(nav, opts.withDefaults("flow.login"))
	return f
}

func (f *LoginFlow) State() LoginState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Input records that the user edited the passcode. It clears a displayed
// error.
func (f *LoginFlow) Input() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.disposed || f.state != LoginFailed {
		return
	}
	f.state = LoginIdle
	f.view.Show(Notice{})
}

// Submit sends the trimmed passcode. On success the identity is persisted
// before navigating to Profile. It blocks until the remote call returns.
func (f *LoginFlow) Submit(ctx context.Context, password string) error {
	f.mu.Lock()
	switch {
	case f.disposed:
		f.mu.Unlock()
		return ErrDisposed
	case f.state == LoginSubmitting:
		f.mu.Unlock()
		return ErrBusy
	case f.state == LoginSuccess:
		f.mu.Unlock()
		return ErrInvalidState
	}

	password = strings.TrimSpace(password)
	if password == "" {
		f.state = LoginFailed
		f.view.Show(Notice{Kind: NoticeError, Text: msgEmptyCode})
		f.mu.Unlock()
		return &ValidationError{Message: msgEmptyCode}
	}

	f.state = LoginSubmitting
	f.view.SetSubmitEnabled(false)
	f.view.Show(Notice{Kind: NoticeLoading, Text: msgSigningIn})
	f.mu.Unlock()

	id, err := f.auth.Login(ctx, password)

	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		f.logger.DebugContext(ctx, "login completion ignored after close")
		return ErrDisposed
	}

	if err != nil {
		f.failLocked(remote.Message(err))
		f.mu.Unlock()
		f.logger.InfoContext(ctx, "login failed", slog.Any("error", err))
		return err
	}

	if serr := f.store.Set(ctx, id); serr != nil {
		f.failLocked(msgSaveFailed)
		f.mu.Unlock()
		f.logger.ErrorContext(ctx, "persist identity failed", slog.Any("error", serr))
		return fmt.Errorf("persist identity: %w", serr)
	}

	f.state = LoginSuccess
	f.view.Show(Notice{Kind: NoticeSuccess, Text: msgLoginSuccess})
	f.mu.Unlock()

	f.logger.InfoContext(ctx, "login succeeded", slog.String("user_id", id.ID))
	f.nav.Navigate(Profile)
	return nil
}

func (f *LoginFlow) failLocked(message string) {
	f.state = LoginFailed
	f.view.Show(Notice{Kind: NoticeError, Text: message})
	f.view.SetSubmitEnabled(true)
}
