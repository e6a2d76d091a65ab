package remote

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/DSACMS/survey-session-client/pkg/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload() survey.SubmissionPayload {
	answers := survey.NewAnswerSet()
	answers.Select(3, 2)
	return survey.BuildPayload("42", survey.DefaultCatalog(), answers)
}

func TestSubmitAnswers_Success(t *testing.T) {
	ft := &fakeTransport{resp: respond(http.StatusOK, `{"message":"Merci !"}`)}
	c := New(testBackend(), Options{HTTPClient: ft})

	got, err := c.SubmitAnswers(context.Background(), testPayload())
	require.NoError(t, err)
	require.Equal(t, "Merci !", got.Message)

	require.Equal(t, "https://example.test/submit-answers", ft.req.URL.String())
	require.Equal(t, "application/json", ft.req.Header.Get("Content-Type"))
	require.JSONEq(t,
		`{"user_id":"42","q3":2,"q4":1,"q5":1,"q6":1,"q7":1,"q8":1,"q9":1,"q10":1,`+
			`"q11":1,"q12":1,"q13":1,"q14":1,"q15":1,"q16":1,"q17":1}`,
		string(ft.body),
	)
}

func TestSubmitAnswers_DefaultMessage(t *testing.T) {
	for name, body := range map[string]string{
		"no message":    `{}`,
		"empty message": `{"message":""}`,
		"empty body":    ``,
		"not json":      `ok`,
		"wrong type":    `{"message":3}`,
	} {
		t.Run(name, func(t *testing.T) {
			ft := &fakeTransport{resp: respond(http.StatusCreated, body)}
			c := New(testBackend(), Options{HTTPClient: ft})

			got, err := c.SubmitAnswers(context.Background(), testPayload())
			require.NoError(t, err)
			require.Equal(t, DefaultSubmissionMessage, got.Message)
		})
	}
}

func TestSubmitAnswers_HTTPError(t *testing.T) {
	ft := &fakeTransport{resp: respond(http.StatusBadRequest, "q5 must be between 1 and 4")}
	c := New(testBackend(), Options{HTTPClient: ft})

	_, err := c.SubmitAnswers(context.Background(), testPayload())

	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, opSubmit, re.Op)
	assert.Equal(t, http.StatusBadRequest, re.Status)
	assert.Equal(t, "q5 must be between 1 and 4", re.Message)
	assert.EqualError(t, err, "submit-answers: status 400: q5 must be between 1 and 4")
}

func TestSubmitAnswers_TransportError(t *testing.T) {
	cause := errors.New("connection reset by peer")
	ft := &fakeTransport{err: &url.Error{Op: "Post", URL: "https://example.test", Err: cause}}
	c := New(testBackend(), Options{HTTPClient: ft})

	_, err := c.SubmitAnswers(context.Background(), testPayload())

	var re *Error
	require.ErrorAs(t, err, &re)
	assert.True(t, re.IsTransport())
	assert.Equal(t, "connection reset by peer", re.Message)
	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "submit-answers: connection reset by peer")
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "unexpected error", Message(errors.New("boom")))
	assert.Equal(t, "nope", Message(&Error{Op: opLogin, Status: 401, Message: "nope"}))
}
