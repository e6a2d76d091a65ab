package survey

import (
	"fmt"
	"slices"
)

// Question ids start at 3 on the backend; they are never reindexed.
type Question struct {
	ID      int
	Text    string
	Options []string
}

// Option is a 1-based index into Question.Options.
func (q Question) HasOption(option int) bool {
	return option >= 1 && option <= len(q.Options)
}

// Field is the submission key for this question, e.g. "q3".
func (q Question) Field() string {
	return fmt.Sprintf("q%d", q.ID)
}

var questions = []Question{
	{ID: 3, Text: "Quel est ton style de musique préféré ?", Options: []string{"Rap", "Pop", "Rock", "Autre"}},
	{ID: 4, Text: "Quel est pour toi le voyage idéal ?", Options: []string{"Voyage en famille", "Voyage entre amis", "Voyage en couple", "Voyage solo"}},
	{ID: 5, Text: "Quelle est ta destination de rêve ?", Options: []string{"Londres", "Séoul", "Marrakech", "Rio de Janeiro"}},
	{ID: 6, Text: "Quel est ton genre de film/série préféré ?", Options: []string{"Science-Fiction", "Drame", "Comédie", "Action"}},
	{ID: 7, Text: "Tu passes le plus de temps sur :", Options: []string{"Instagram", "Snapchat", "TikTok", "Je ne suis pas vraiment sur les réseaux"}},
	{ID: 8, Text: "A l'école tu préfères :", Options: []string{"Histoire-Géographie", "Anglais", "Sport", "Français/Philosophie"}},
	{ID: 9, Text: "Au petit-déjeuner c'est plutôt :", Options: []string{"Café/Thé", "Jus de fruit", "Eau", "Soda"}},
	{ID: 10, Text: "A Passy, le midi tu préfères être :", Options: []string{"Dehors", "Dans l'atrium", "Dans la cour", "En salle Verte/Bleue"}},
	{ID: 11, Text: "Avec 1.000.000 d'euros tu ferais plutôt :", Options: []string{"Un don à un association", "L'achat d'une maison dans le Sud", "Un investissement boursier", "Du shopping sur les Champs"}},
	{ID: 12, Text: "Comme super pouvoir, tu préfèrerais pouvoir :", Options: []string{"Voler", "Etre invisible", "Lire dans les pensée", "Remonter le temps"}},
	{ID: 13, Text: "Quelle est ta saison préférée :", Options: []string{"Été", "Automne", "Hiver", "Printemps"}},
	{ID: 14, Text: "Tu préfères lire :", Options: []string{"Des romans", "Des BD/mangas", "Les journaux", "Lire ?"}},
	{ID: 15, Text: "Tu préfères pratiquer quel sport :", Options: []string{"Sport de raquette", "Sport collectif", "Sport de performance (athlétisme, natation...)", "Sport de combat"}},
	{ID: 16, Text: "Quelle est ta soirée idéale ?", Options: []string{"Soirée cinéma", "Soirée entre amis", "Soirée dodo", "Soirée gaming"}},
	{ID: 17, Text: "Si tu pouvais dîner avec une personne historique ce serait :", Options: []string{"Michael Jackson", "Jules César", "Pelé", "Pythagore (même si t'as oublié son théorème)"}},
}

// Catalog is an immutable, id-ordered question set.
type Catalog struct {
	questions []Question
	byID      map[int]int
}

// DefaultCatalog is the fixed questionnaire shipped with the client.
func DefaultCatalog() *Catalog {
	return NewCatalog(questions)
}

// NewCatalog copies qs and sorts them ascending by id. Later duplicates of
// an id are dropped.
func NewCatalog(qs []Question) *Catalog {
	c := &Catalog{byID: make(map[int]int, len(qs))}

	sorted := slices.Clone(qs)
	slices.SortStableFunc(sorted, func(a, b Question) int { return a.ID - b.ID })

	for _, q := range sorted {
		if _, dup := c.byID[q.ID]; dup {
			continue
		}
		q.Options = slices.Clone(q.Options)
		c.byID[q.ID] = len(c.questions)
		c.questions = append(c.questions, q)
	}

	return c
}

func (c *Catalog) Len() int {
	return len(c.questions)
}

// Questions returns a copy safe for callers to keep.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	for i, q := range c.questions {
		q.Options = slices.Clone(q.Options)
		out[i] = q
	}
	return out
}

func (c *Catalog) Question(id int) (Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// Validate reports whether option is a selectable answer to question id.
func (c *Catalog) Validate(id, option int) error {
	q, ok := c.Question(id)
	if !ok {
		return fmt.Errorf("unknown question %d", id)
	}
	if !q.HasOption(option) {
		return fmt.Errorf("question %d has no option %d (choose 1-%d)", id, option, len(q.Options))
	}
	return nil
}
