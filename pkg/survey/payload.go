package survey

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// DefaultOption is submitted for any question without a recorded answer.
const DefaultOption = 1

type Answer struct {
	QuestionID int
	Option     int
}

// SubmissionPayload is the body of POST /submit-answers:
// {"user_id": "...", "q3": 1, ..., "q17": 3}.
type SubmissionPayload struct {
	UserID  string
	Answers []Answer
}

// BuildPayload emits exactly one entry per catalog question, in catalog
// order. Missing answers fall back to DefaultOption.
func BuildPayload(userID string, c *Catalog, answers *AnswerSet) SubmissionPayload {
	p := SubmissionPayload{
		UserID:  userID,
		Answers: make([]Answer, 0, c.Len()),
	}

	for _, q := range c.questions {
		option, ok := answers.Get(q.ID)
		if !ok {
			option = DefaultOption
		}
		p.Answers = append(p.Answers, Answer{QuestionID: q.ID, Option: option})
	}

	return p
}

func (p SubmissionPayload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	userID, err := json.Marshal(p.UserID)
	if err != nil {
		return nil, err
	}

	buf.WriteString(`{"user_id":`)
	buf.Write(userID)
	for _, a := range p.Answers {
		buf.WriteString(`,"q`)
		buf.WriteString(strconv.Itoa(a.QuestionID))
		buf.WriteString(`":`)
		buf.WriteString(strconv.Itoa(a.Option))
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}
