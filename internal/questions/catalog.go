// Package questions holds the built-in question bank and the read-only
// catalog the conversation engine walks through.
package questions

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"telegram-journal-bot/internal/models"
)

// Store is the persistence the catalog is seeded into and loaded from.
type Store interface {
	SeedQuestions(ctx context.Context, qs []models.Question) (int, error)
	ListQuestions(ctx context.Context) ([]models.Question, error)
}

// Catalog is an immutable, ordinal-ordered question list. Safe for concurrent use.
type Catalog struct {
	ordered []models.Question
	byID    map[int64]int
}

// NewCatalog copies qs and orders them by ordinal.
func NewCatalog(qs []models.Question) *Catalog {
	ordered := make([]models.Question, len(qs))
	copy(ordered, qs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Ordinal < ordered[j].Ordinal })

	c := &Catalog{ordered: ordered, byID: make(map[int64]int, len(ordered))}
	for i, q := range ordered {
		c.byID[q.ID] = i
	}
	return c
}

// Seed stores the bank unless questions are already present.
func Seed(ctx context.Context, st Store) (int, error) {
	n, err := st.SeedQuestions(ctx, Bank())
	if err != nil {
		return 0, fmt.Errorf("failed to seed questions: %w", err)
	}
	return n, nil
}

// Load seeds the store if needed and builds the catalog from stored rows.
func Load(ctx context.Context, st Store) (*Catalog, error) {
	if _, err := Seed(ctx, st); err != nil {
		return nil, err
	}
	qs, err := st.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return NewCatalog(qs), nil
}

func (c *Catalog) Len() int { return len(c.ordered) }

// At returns the question with the given ordinal.
func (c *Catalog) At(ordinal int) (models.Question, bool) {
	i := sort.Search(len(c.ordered), func(i int) bool { return c.ordered[i].Ordinal >= ordinal })
	if i < len(c.ordered) && c.ordered[i].Ordinal == ordinal {
		return c.ordered[i], true
	}
	return models.Question{}, false
}

// Question looks a question up by its stored id.
func (c *Catalog) Question(id int64) (models.Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Question{}, false
	}
	return c.ordered[i], true
}

// First returns the lowest-ordinal active question.
func (c *Catalog) First() (models.Question, bool) {
	for _, q := range c.ordered {
		if q.Active {
			return q, true
		}
	}
	return models.Question{}, false
}

// NextAfter returns the next active question with an ordinal strictly
// greater than ordinal, or false when none remains.
func (c *Catalog) NextAfter(ordinal int) (models.Question, bool) {
	for _, q := range c.ordered {
		if q.Active && q.Ordinal > ordinal {
			return q, true
		}
	}
	return models.Question{}, false
}

// ByCategory returns the category's questions in ordinal order.
func (c *Catalog) ByCategory(cat models.Category) []models.Question {
	var res []models.Question
	for _, q := range c.ordered {
		if q.Category == cat {
			res = append(res, q)
		}
	}
	return res
}

// Option finds the option of question id matching answer. The full label
// matches, and so does its text without emoji ("yes" for "Yes ✅"); case and
// surrounding space are ignored.
func (c *Catalog) Option(id int64, answer string) (models.Option, bool) {
	q, ok := c.Question(id)
	if !ok {
		return models.Option{}, false
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return models.Option{}, false
	}
	plain := plainLabel(answer)
	for _, o := range q.AnswerOptions() {
		if strings.EqualFold(o.Label, answer) || (plain != "" && strings.EqualFold(plainLabel(o.Label), plain)) {
			return o, true
		}
	}
	return models.Option{}, false
}

// plainLabel keeps letters, digits, apostrophes and single spaces.
func plainLabel(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '\'':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
