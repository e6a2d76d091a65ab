package terminal

import (
	"context"
	"errors"

	"github.com/DSACMS/survey-session-client/pkg/flow"
)

type page interface {
	handle(ctx context.Context, s *Shell, c command)
	help() string
	// strict pages reject lines that fail to parse.
	strict() bool
	close()
}

type loginPage struct {
	flow *flow.LoginFlow
}

func (p *loginPage) handle(ctx context.Context, s *Shell, c command) {
	p.flow.Input()
	s.async(func() error {
		return p.flow.Submit(ctx, c.text)
	})
}

func (*loginPage) help() string {
	return "Type your code and press enter. quit leaves."
}

func (*loginPage) strict() bool { return false }

func (p *loginPage) close() { p.flow.Close() }

type profilePage struct {
	flow *flow.ProfileFlow
}

func (p *profilePage) handle(ctx context.Context, s *Shell, c command) {
	switch c.kind {
	case cmdLogout:
		s.report(p.flow.Logout(ctx))
	case cmdQuestionnaire:
		s.report(p.flow.OpenQuestionnaire())
	default:
		s.view.Message("Unknown command. Type help.")
	}
}

func (*profilePage) help() string {
	return "Commands: questionnaire, logout, quit"
}

func (*profilePage) strict() bool { return true }

func (p *profilePage) close() { p.flow.Close() }

type questionnairePage struct {
	flow *flow.QuestionnaireFlow
	nav  flow.Navigator
}

func (p *questionnairePage) handle(ctx context.Context, s *Shell, c command) {
	switch c.kind {
	case cmdSelect:
		err := p.flow.Select(c.question, c.option)
		var verr *flow.ValidationError
		if errors.As(err, &verr) {
			s.view.Show(flow.Notice{Kind: flow.NoticeError, Text: verr.Message})
			return
		}
		s.report(err)

	case cmdProgress:
		s.view.Progress(p.flow.Progress())

	case cmdSubmit:
		s.async(func() error {
			return p.flow.Submit(ctx)
		})

	case cmdProfile:
		if p.flow.State() == flow.QuestionnaireSubmitting {
			s.report(flow.ErrBusy)
			return
		}
		p.nav.Navigate(flow.Profile)

	default:
		s.view.Message("Unknown command. Type help.")
	}
}

func (*questionnairePage) help() string {
	return "Commands: <question> <option> (e.g. 3 2), progress, submit, profile, quit"
}

func (*questionnairePage) strict() bool { return true }

func (p *questionnairePage) close() { p.flow.Close() }
