package flow

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DSACMS/survey-session-client/pkg/identity"
	"github.com/DSACMS/survey-session-client/pkg/remote"
	"github.com/DSACMS/survey-session-client/pkg/sessionstore"
	"github.com/DSACMS/survey-session-client/pkg/survey"
)

var ana = identity.Identity{ID: "42", FirstName: "Ana", LastName: "Li", Email: "a@x.com", CurrentClass: "S1"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore(t *testing.T) (*sessionstore.Memory, *identity.Store) {
	t.Helper()
	mem := sessionstore.NewMemory()
	return mem, identity.NewStore(mem, discardLogger())
}

type recordingView struct {
	mu        sync.Mutex
	notices   []Notice
	enabled   []bool
	labels    []string
	profile   *identity.Identity
	user      identity.Identity
	questions []survey.Question
}

func (v *recordingView) Show(n Notice) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notices = append(v.notices, n)
}

func (v *recordingView) SetSubmitEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.enabled = append(v.enabled, enabled)
}

func (v *recordingView) SetSubmitLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.labels = append(v.labels, label)
}

func (v *recordingView) RenderProfile(id identity.Identity) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.profile = &id
}

func (v *recordingView) RenderQuestionnaire(id identity.Identity, questions []survey.Question) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.user = id
	v.questions = questions
}

func (v *recordingView) lastNotice() Notice {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.notices) == 0 {
		return Notice{}
	}
	return v.notices[len(v.notices)-1]
}

func (v *recordingView) submitEnabled() (enabled, known bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.enabled) == 0 {
		return false, false
	}
	return v.enabled[len(v.enabled)-1], true
}

func (v *recordingView) submitLabel() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.labels) == 0 {
		return ""
	}
	return v.labels[len(v.labels)-1]
}

type recordingNav struct {
	mu    sync.Mutex
	dests []Destination
	// onNavigate runs before the destination is recorded.
	onNavigate func(Destination)
}

func (n *recordingNav) Navigate(dest Destination) {
	if n.onNavigate != nil {
		n.onNavigate(dest)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dests = append(n.dests, dest)
}

func (n *recordingNav) destinations() []Destination {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Destination(nil), n.dests...)
}

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler never fires on its own; tests call fire.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) fire() {
	s.mu.Lock()
	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (s *fakeScheduler) all() []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*fakeTimer(nil), s.timers...)
}

// fakeRemote answers Login and SubmitAnswers. When gate is set each call
// signals entered and waits for gate to close.
type fakeRemote struct {
	mu sync.Mutex

	loginID   identity.Identity
	loginErr  error
	result    remote.SubmissionResult
	submitErr error

	passwords []string
	payloads  []survey.SubmissionPayload

	gate    chan struct{}
	entered chan struct{}
}

func (r *fakeRemote) wait() {
	if r.gate == nil {
		return
	}
	r.entered <- struct{}{}
	<-r.gate
}

func (r *fakeRemote) Login(_ context.Context, password string) (identity.Identity, error) {
	r.mu.Lock()
	r.passwords = append(r.passwords, password)
	r.mu.Unlock()

	r.wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loginID, r.loginErr
}

func (r *fakeRemote) SubmitAnswers(_ context.Context, payload survey.SubmissionPayload) (remote.SubmissionResult, error) {
	r.mu.Lock()
	r.payloads = append(r.payloads, payload)
	r.mu.Unlock()

	r.wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result, r.submitErr
}

func (r *fakeRemote) loginCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.passwords)
}

func (r *fakeRemote) submitCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payloads)
}

func gated() *fakeRemote {
	return &fakeRemote{
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
}

func testOptions(sched Scheduler) Options {
	return Options{Logger: discardLogger(), Scheduler: sched}
}
