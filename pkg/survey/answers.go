package survey

import "maps"

// AnswerSet maps question id to the selected 1-based option. The last
// selection for a question wins. Not safe for concurrent use; the owning
// flow serializes access.
type AnswerSet struct {
	answers map[int]int
}

func NewAnswerSet() *AnswerSet {
	return &AnswerSet{answers: make(map[int]int)}
}

func (a *AnswerSet) Select(questionID, option int) {
	a.answers[questionID] = option
}

func (a *AnswerSet) Get(questionID int) (int, bool) {
	option, ok := a.answers[questionID]
	return option, ok
}

func (a *AnswerSet) Len() int {
	return len(a.answers)
}

// Complete reports whether every question in c has an answer.
func (a *AnswerSet) Complete(c *Catalog) bool {
	if a.Len() != c.Len() {
		return false
	}
	for _, q := range c.questions {
		if _, ok := a.answers[q.ID]; !ok {
			return false
		}
	}
	return true
}

func (a *AnswerSet) Snapshot() map[int]int {
	return maps.Clone(a.answers)
}
