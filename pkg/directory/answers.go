package directory

import (
	"maps"
	"sync"
)

// Answers keeps the last submission per user.
type Answers struct {
	mu      sync.RWMutex
	answers map[string]map[int]int
}

func NewAnswers() *Answers {
	return &Answers{answers: make(map[string]map[int]int)}
}

func (a *Answers) Record(userID string, answers map[int]int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.answers[userID] = maps.Clone(answers)
}

func (a *Answers) Get(userID string) (map[int]int, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	got, ok := a.answers[userID]
	return maps.Clone(got), ok
}

func (a *Answers) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.answers)
}
