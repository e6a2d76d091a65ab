package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DSACMS/survey-session-client/pkg/identity"
	"github.com/DSACMS/survey-session-client/pkg/remote"
	"github.com/DSACMS/survey-session-client/pkg/survey"
)

const (
	LabelSubmit = "Send my answers"
	LabelBusy   = "Sending..."

	msgSendingAnswers = "Sending your answers..."
	msgToProfile      = "Redirecting to your profile..."
)

type QuestionnaireState int

const (
	QuestionnaireLoading QuestionnaireState = iota
	QuestionnaireRedirecting
	QuestionnaireAnswering
	QuestionnaireSubmitting
	QuestionnaireSubmitted
	QuestionnaireSubmitFailed
)

func (s QuestionnaireState) String() string {
	return [...]string{"loading", "redirecting", "answering", "submitting", "submitted", "submit_failed"}[s]
}

type QuestionnaireView interface {
	Show(n Notice)
	SetSubmitEnabled(enabled bool)
	SetSubmitLabel(label string)
	// RenderQuestionnaire lists questions ascending by id with 1-based
	// options.
	RenderQuestionnaire(id identity.Identity, questions []survey.Question)
}

// Submitter is the part of remote.Client QuestionnaireFlow uses.
type Submitter interface {
	SubmitAnswers(ctx context.Context, payload survey.SubmissionPayload) (remote.SubmissionResult, error)
}

type QuestionnaireFlow struct {
	lifecycle

	state     QuestionnaireState
	store     IdentityStore
	submitter Submitter
	catalog   *survey.Catalog
	view      QuestionnaireView

	user    identity.Identity
	answers *survey.AnswerSet
}

// NewQuestionnaireFlow builds the flow over catalog, or the default
// questionnaire when catalog is nil.
func NewQuestionnaireFlow(
	store IdentityStore,
	submitter Submitter,
	catalog *survey.Catalog,
	view QuestionnaireView,
	nav Navigator,
	opts Options,
) *QuestionnaireFlow {
	if catalog == nil {
		catalog = survey.DefaultCatalog()
	}

	f := &QuestionnaireFlow{
		state:     QuestionnaireLoading,
		store:     store,
		submitter: submitter,
		catalog:   catalog,
		view:      view,
		answers:   survey.NewAnswerSet(),
	}
	f.init(nav, opts.withDefaults("flow.questionnaire"))
	return f
}

func (f *QuestionnaireFlow) State() QuestionnaireState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Progress returns the number of answered questions and the total.
func (f *QuestionnaireFlow) Progress() (answered, total int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.answers.Len(), f.catalog.Len()
}

func (f *QuestionnaireFlow) Answer(questionID int) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.answers.Get(questionID)
}

func (f *QuestionnaireFlow) Load(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.disposed {
		return ErrDisposed
	}
	if f.state != QuestionnaireLoading {
		return ErrInvalidState
	}

	id, ok := f.requireIdentityLocked(ctx, f.store, f.view.Show)
	if !ok {
		f.state = QuestionnaireRedirecting
		return nil
	}

	f.user = id
	f.state = QuestionnaireAnswering
	f.view.RenderQuestionnaire(id, f.catalog.Questions())
	f.view.SetSubmitLabel(LabelSubmit)
	f.view.SetSubmitEnabled(true)
	return nil
}

// Select records option (1-based) for a question, replacing any earlier
// choice.
func (f *QuestionnaireFlow) Select(questionID, option int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.answerableLocked(); err != nil {
		return err
	}
	if err := f.catalog.Validate(questionID, option); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	f.answers.Select(questionID, option)
	f.state = QuestionnaireAnswering
	return nil
}

// Submit sends the answers once every question has one. It blocks until the
// remote call returns; on success Profile is reached after the redirect
// delay.
func (f *QuestionnaireFlow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if err := f.answerableLocked(); err != nil {
		f.mu.Unlock()
		return err
	}

	if !f.answers.Complete(f.catalog) {
		msg := fmt.Sprintf("Please answer all questions (%d/%d answers)", f.answers.Len(), f.catalog.Len())
		f.view.Show(Notice{Kind: NoticeError, Text: msg})
		f.mu.Unlock()
		return &ValidationError{Message: msg}
	}

	f.state = QuestionnaireSubmitting
	f.view.SetSubmitEnabled(false)
	f.view.SetSubmitLabel(LabelBusy)
	f.view.Show(Notice{Kind: NoticeLoading, Text: msgSendingAnswers})
	payload := survey.BuildPayload(f.user.ID, f.catalog, f.answers)
	f.mu.Unlock()

	result, err := f.submitter.SubmitAnswers(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.disposed {
		f.logger.DebugContext(ctx, "submission completion ignored after close")
		return ErrDisposed
	}

	if err != nil {
		f.state = QuestionnaireSubmitFailed
		f.view.Show(Notice{Kind: NoticeError, Text: "Could not send your answers: " + remote.Message(err)})
		f.view.SetSubmitEnabled(true)
		f.view.SetSubmitLabel(LabelSubmit)
		f.logger.InfoContext(ctx, "submission failed", slog.Any("error", err))
		return err
	}

	f.state = QuestionnaireSubmitted
	f.view.Show(Notice{Kind: NoticeSuccess, Text: result.Message + " " + msgToProfile})
	f.scheduleLocked(Profile, f.opts.RedirectDelay)
	f.logger.InfoContext(ctx, "answers submitted", slog.String("user_id", f.user.ID))
	return nil
}

func (f *QuestionnaireFlow) answerableLocked() error {
	switch {
	case f.disposed:
		return ErrDisposed
	case f.state == QuestionnaireSubmitting:
		return ErrBusy
	case f.state != QuestionnaireAnswering && f.state != QuestionnaireSubmitFailed:
		return ErrInvalidState
	}
	return nil
}
