// Package terminal hosts the flows in an interactive line-oriented shell.
// Each page is one flow instance; navigating tears it down and builds the
// next, the way a browser does on a full page load.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/DSACMS/survey-session-client/pkg/flow"
	"github.com/DSACMS/survey-session-client/pkg/remote"
	"github.com/DSACMS/survey-session-client/pkg/survey"
)

type Options struct {
	// Structured logger using slog package
	Logger *slog.Logger
	// Override for testing delayed redirects
	Scheduler     flow.Scheduler
	RedirectDelay time.Duration
	// Defaults to survey.DefaultCatalog()
	Catalog *survey.Catalog
}

type navigation struct {
	page int
	dest flow.Destination
}

type Shell struct {
	store  flow.IdentityStore
	client remote.Client
	view   *View
	in     io.Reader
	opts   Options
	logger *slog.Logger

	mu      sync.Mutex
	pending []navigation
	wake    chan struct{}

	// Owned by the event loop.
	page    page
	pageNum int

	requests sync.WaitGroup
}

func New(store flow.IdentityStore, client remote.Client, in io.Reader, out io.Writer, opts Options) *Shell {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = survey.DefaultCatalog()
	}

	return &Shell{
		store:  store,
		client: client,
		view:   NewView(out),
		in:     in,
		opts:   opts,
		logger: logger.With(slog.String("component", "terminal")),
		wake:   make(chan struct{}, 1),
	}
}

// View exposes the shared view, mainly for tests.
func (s *Shell) View() *View {
	return s.view
}

// Run opens start and processes input until quit, end of input or ctx is
// done. Requests still in flight are cancelled before it returns.
func (s *Shell) Run(ctx context.Context, start flow.Destination) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		s.closePage()
		cancel()
		s.requests.Wait()
	}()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go s.readLines(ctx, lines, readErr)

	s.open(ctx, start)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			if quit := s.handle(ctx, line); quit {
				return nil
			}

		case <-s.wake:
			s.drainNavigations(ctx)
		}
	}
}

func (s *Shell) readLines(ctx context.Context, lines chan<- string, readErr chan<- error) {
	defer close(lines)

	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			readErr <- nil
			return
		}
	}
	readErr <- scanner.Err()
}

// pageNavigator tags navigations with the page that asked for them, so a
// page that is already gone cannot move the shell.
type pageNavigator struct {
	shell *Shell
	page  int
}

func (n pageNavigator) Navigate(dest flow.Destination) {
	s := n.shell

	s.mu.Lock()
	s.pending = append(s.pending, navigation{page: n.page, dest: dest})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Shell) drainNavigations(ctx context.Context) {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, n := range pending {
		if n.page != s.pageNum {
			s.logger.Debug("stale navigation ignored", slog.String("destination", n.dest.String()))
			continue
		}
		s.open(ctx, n.dest)
	}
}

func (s *Shell) closePage() {
	if s.page != nil {
		s.page.close()
		s.page = nil
	}
}

func (s *Shell) open(ctx context.Context, dest flow.Destination) {
	s.closePage()
	s.pageNum++

	nav := pageNavigator{shell: s, page: s.pageNum}
	opts := flow.Options{
		Logger:        s.logger,
		Scheduler:     s.opts.Scheduler,
		RedirectDelay: s.opts.RedirectDelay,
	}

	s.logger.Debug("page opened", slog.String("destination", dest.String()))

	switch dest {
	case flow.Profile:
		f := flow.NewProfileFlow(s.store, s.view, nav, opts)
		s.page = &profilePage{flow: f}
		s.report(f.Load(ctx))

	case flow.Questionnaire:
		f := flow.NewQuestionnaireFlow(s.store, s.client, s.opts.Catalog, s.view, nav, opts)
		s.page = &questionnairePage{flow: f, nav: nav}
		s.report(f.Load(ctx))

	default:
		s.page = &loginPage{flow: flow.NewLoginFlow(s.store, s.client, s.view, nav, opts)}
		s.view.LoginPrompt()
	}
}

func (s *Shell) handle(ctx context.Context, line string) (quit bool) {
	c, err := parseCommand(line)

	switch c.kind {
	case cmdQuit:
		return true
	case cmdHelp:
		s.view.Message("%s", s.page.help())
		return false
	}

	if err != nil && s.page.strict() {
		s.view.Show(flow.Notice{Kind: flow.NoticeError, Text: err.Error()})
		return false
	}

	s.page.handle(ctx, s, c)
	return false
}

// async runs a blocking flow action off the event loop.
func (s *Shell) async(fn func() error) {
	s.requests.Add(1)
	go func() {
		defer s.requests.Done()
		s.report(fn())
	}()
}

// report surfaces errors the flows do not render themselves.
func (s *Shell) report(err error) {
	var verr *flow.ValidationError
	var rerr *remote.Error

	switch {
	case err == nil,
		errors.Is(err, flow.ErrDisposed),
		errors.As(err, &verr),
		errors.As(err, &rerr):
	case errors.Is(err, flow.ErrBusy):
		s.view.Message("Please wait, a request is in progress.")
	case errors.Is(err, flow.ErrInvalidState):
		s.view.Message("Not available right now.")
	default:
		s.logger.Error("flow action failed", slog.Any("error", err))
	}
}
