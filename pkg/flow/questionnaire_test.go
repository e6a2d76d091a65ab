package flow

import (
	"context"
	"net/http"
	"testing"

	"github.com/DSACMS/survey-session-client/pkg/remote"
	"github.com/DSACMS/survey-session-client/pkg/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedQuestionnaire(t *testing.T, rc *fakeRemote) (*QuestionnaireFlow, *recordingView, *recordingNav, *fakeScheduler) {
	t.Helper()

	ctx := context.Background()
	_, store := newStore(t)
	require.NoError(t, store.Set(ctx, ana))

	view := &recordingView{}
	nav := &recordingNav{}
	sched := &fakeScheduler{}

	f := NewQuestionnaireFlow(store, rc, nil, view, nav, testOptions(sched))
	require.NoError(t, f.Load(ctx))
	return f, view, nav, sched
}

func answerAll(t *testing.T, f *QuestionnaireFlow) {
	t.Helper()
	for id := 3; id <= 17; id++ {
		require.NoError(t, f.Select(id, (id-3)%4+1))
	}
}

func TestQuestionnaireFlow_NoIdentityRedirects(t *testing.T) {
	_, store := newStore(t)
	view := &recordingView{}
	nav := &recordingNav{}
	sched := &fakeScheduler{}

	f := NewQuestionnaireFlow(store, &fakeRemote{}, nil, view, nav, testOptions(sched))

	require.NoError(t, f.Load(context.Background()))
	assert.Equal(t, QuestionnaireRedirecting, f.State())
	assert.Equal(t, "You are not connected. Redirecting...", view.lastNotice().Text)
	assert.Nil(t, view.questions)
	assert.ErrorIs(t, f.Select(3, 1), ErrInvalidState)

	sched.fire()
	assert.Equal(t, []Destination{Login}, nav.destinations())
}

func TestQuestionnaireFlow_LoadRendersQuestionsInOrder(t *testing.T) {
	f, view, _, _ := loadedQuestionnaire(t, &fakeRemote{})

	assert.Equal(t, QuestionnaireAnswering, f.State())
	assert.Equal(t, ana, view.user)
	require.Len(t, view.questions, 15)
	for i, q := range view.questions {
		assert.Equal(t, i+3, q.ID)
	}
	assert.Equal(t, LabelSubmit, view.submitLabel())
	enabled, _ := view.submitEnabled()
	assert.True(t, enabled)
}

func TestQuestionnaireFlow_SelectOverwrites(t *testing.T) {
	f, _, _, _ := loadedQuestionnaire(t, &fakeRemote{})

	for _, option := range []int{1, 4, 2, 3} {
		require.NoError(t, f.Select(8, option))
	}

	got, ok := f.Answer(8)
	require.True(t, ok)
	assert.Equal(t, 3, got)

	answered, total := f.Progress()
	assert.Equal(t, 1, answered)
	assert.Equal(t, 15, total)
}

func TestQuestionnaireFlow_SelectRejectsUnknownChoices(t *testing.T) {
	f, _, _, _ := loadedQuestionnaire(t, &fakeRemote{})

	var verr *ValidationError
	require.ErrorAs(t, f.Select(2, 1), &verr)
	require.ErrorAs(t, f.Select(3, 5), &verr)
	require.ErrorAs(t, f.Select(3, 0), &verr)

	answered, _ := f.Progress()
	assert.Zero(t, answered)
}

func TestQuestionnaireFlow_IncompleteNeverSubmits(t *testing.T) {
	rc := &fakeRemote{}
	f, view, _, _ := loadedQuestionnaire(t, rc)

	require.ErrorAs(t, f.Submit(context.Background()), new(*ValidationError))
	assert.Equal(t, "Please answer all questions (0/15 answers)", view.lastNotice().Text)

	for id := 3; id <= 16; id++ {
		require.NoError(t, f.Select(id, 2))
	}
	require.NoError(t, f.Select(16, 3))

	err := f.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please answer all questions (14/15 answers)", verr.Message)
	assert.Equal(t, Notice{Kind: NoticeError, Text: verr.Message}, view.lastNotice())

	assert.Zero(t, rc.submitCalls())
	assert.Equal(t, QuestionnaireAnswering, f.State())
}

func TestQuestionnaireFlow_SubmitSuccess(t *testing.T) {
	rc := &fakeRemote{result: remote.SubmissionResult{Message: "Merci !"}}
	f, view, nav, sched := loadedQuestionnaire(t, rc)
	answerAll(t, f)

	require.NoError(t, f.Submit(context.Background()))

	require.Len(t, rc.payloads, 1)
	want := survey.SubmissionPayload{UserID: "42"}
	for id := 3; id <= 17; id++ {
		want.Answers = append(want.Answers, survey.Answer{QuestionID: id, Option: (id-3)%4 + 1})
	}
	assert.Equal(t, want, rc.payloads[0])

	assert.Equal(t, QuestionnaireSubmitted, f.State())
	assert.Equal(t, Notice{Kind: NoticeSuccess, Text: "Merci ! Redirecting to your profile..."}, view.lastNotice())
	assert.Contains(t, view.labels, LabelBusy)
	assert.Empty(t, nav.destinations())

	require.Len(t, sched.all(), 1)
	sched.fire()
	assert.Equal(t, []Destination{Profile}, nav.destinations())

	assert.ErrorIs(t, f.Submit(context.Background()), ErrInvalidState)
	assert.ErrorIs(t, f.Select(3, 1), ErrInvalidState)
}

func TestQuestionnaireFlow_SubmitFailureKeepsAnswers(t *testing.T) {
	rc := &fakeRemote{submitErr: &remote.Error{Op: "submit-answers", Status: http.StatusBadGateway, Message: "Erreur 502"}}
	f, view, nav, sched := loadedQuestionnaire(t, rc)
	answerAll(t, f)

	err := f.Submit(context.Background())
	var re *remote.Error
	require.ErrorAs(t, err, &re)

	assert.Equal(t, QuestionnaireSubmitFailed, f.State())
	assert.Equal(t, Notice{Kind: NoticeError, Text: "Could not send your answers: Erreur 502"}, view.lastNotice())
	enabled, _ := view.submitEnabled()
	assert.True(t, enabled)
	assert.Equal(t, LabelSubmit, view.submitLabel())
	assert.Empty(t, sched.all())
	assert.Empty(t, nav.destinations())

	answered, total := f.Progress()
	assert.Equal(t, total, answered)

	// Resubmitting without touching the answers works.
	rc.submitErr = nil
	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, 2, rc.submitCalls())
	assert.Equal(t, rc.payloads[0], rc.payloads[1])
}

func TestQuestionnaireFlow_ChangingAnswerAfterFailure(t *testing.T) {
	rc := &fakeRemote{submitErr: &remote.Error{Op: "submit-answers", Message: "network is unreachable"}}
	f, _, _, _ := loadedQuestionnaire(t, rc)
	answerAll(t, f)

	require.Error(t, f.Submit(context.Background()))
	require.NoError(t, f.Select(3, 4))
	assert.Equal(t, QuestionnaireAnswering, f.State())
}

func TestQuestionnaireFlow_BusyWhileSubmitting(t *testing.T) {
	rc := gated()
	f, _, _, _ := loadedQuestionnaire(t, rc)
	answerAll(t, f)

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()
	<-rc.entered

	assert.Equal(t, QuestionnaireSubmitting, f.State())
	assert.ErrorIs(t, f.Submit(context.Background()), ErrBusy)
	assert.ErrorIs(t, f.Select(3, 2), ErrBusy)

	close(rc.gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, rc.submitCalls())
}

func TestQuestionnaireFlow_CloseDuringSubmit(t *testing.T) {
	rc := gated()
	f, _, nav, sched := loadedQuestionnaire(t, rc)
	answerAll(t, f)

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()
	<-rc.entered

	f.Close()
	close(rc.gate)

	require.ErrorIs(t, <-done, ErrDisposed)
	assert.Empty(t, sched.all())
	assert.Empty(t, nav.destinations())
}
