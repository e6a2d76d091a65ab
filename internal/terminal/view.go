package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/DSACMS/survey-session-client/pkg/flow"
	"github.com/DSACMS/survey-session-client/pkg/identity"
	"github.com/DSACMS/survey-session-client/pkg/survey"
)

// View renders every page to one writer. Flows call it from the event loop
// and from request goroutines, so writes are serialized.
type View struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
	label   string
}

var (
	_ flow.LoginView         = (*View)(nil)
	_ flow.ProfileView       = (*View)(nil)
	_ flow.QuestionnaireView = (*View)(nil)
)

func NewView(out io.Writer) *View {
	return &View{out: out, enabled: true}
}

func (v *View) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}

func (v *View) Show(n flow.Notice) {
	switch n.Kind {
	case flow.NoticeLoading:
		v.printf("... %s\n", n.Text)
	case flow.NoticeError:
		v.printf("error: %s\n", n.Text)
	case flow.NoticeSuccess:
		v.printf("ok: %s\n", n.Text)
	}
}

func (v *View) SetSubmitEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.enabled = enabled
}

func (v *View) SetSubmitLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.label = label
}

// SubmitState reports the submit control as the flows left it.
func (v *View) SubmitState() (enabled bool, label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.enabled, v.label
}

func (v *View) LoginPrompt() {
	v.printf("\nEnter your code:\n")
}

func (v *View) RenderProfile(id identity.Identity) {
	var b strings.Builder
	fmt.Fprintf(&b, "\nHello %s!\n\n", id.FirstName)
	fmt.Fprintf(&b, "  First name  %s\n", id.FirstName)
	fmt.Fprintf(&b, "  Last name   %s\n", id.LastName)
	fmt.Fprintf(&b, "  Email       %s\n", id.Email)
	fmt.Fprintf(&b, "  Class       %s\n", id.CurrentClass)
	b.WriteString("\nCommands: questionnaire, logout, quit\n")
	v.printf("%s", b.String())
}

func (v *View) RenderQuestionnaire(id identity.Identity, questions []survey.Question) {
	var b strings.Builder
	fmt.Fprintf(&b, "\nHello %s!\n", id.FirstName)
	b.WriteString("Answer these questions to find your Valentine's match!\n")

	for _, q := range questions {
		fmt.Fprintf(&b, "\n%d. %s\n", q.ID, q.Text)
		for i, option := range q.Options {
			fmt.Fprintf(&b, "   %d) %s\n", i+1, option)
		}
	}

	b.WriteString("\nCommands: <question> <option> (e.g. 3 2), progress, submit, profile, quit\n")
	v.printf("%s", b.String())
}

func (v *View) Progress(answered, total int) {
	v.printf("%d/%d answers\n", answered, total)
}

func (v *View) Message(format string, args ...any) {
	v.printf(format+"\n", args...)
}
