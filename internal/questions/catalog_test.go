package questions

import (
	"context"
	"path/filepath"
	"testing"

	"telegram-journal-bot/internal/models"
	"telegram-journal-bot/internal/storage"
)

func testCatalog() *Catalog {
	return NewCatalog([]models.Question{
		{ID: 30, Category: models.CategoryGratitude, Text: "c", Ordinal: 3, Active: true},
		{ID: 10, Category: models.CategoryMood, Text: "a", Ordinal: 1, Active: true,
			Options: []models.Option{{Label: "Great 😊", Polarity: 1}}},
		{ID: 20, Category: models.CategoryMood, Text: "b", Ordinal: 2, Active: false},
		{ID: 40, Category: models.CategoryMood, Text: "d", Ordinal: 4, Active: true},
	})
}

func TestCatalogOrdering(t *testing.T) {
	c := testCatalog()

	first, ok := c.First()
	if !ok || first.ID != 10 {
		t.Fatalf("First() = %+v, %t", first, ok)
	}

	next, ok := c.NextAfter(first.Ordinal)
	if !ok || next.ID != 30 {
		t.Errorf("NextAfter(1) should skip inactive #2, got %+v", next)
	}

	if _, ok := c.NextAfter(4); ok {
		t.Error("NextAfter(last) should report none")
	}

	q, ok := c.At(2)
	if !ok || q.ID != 20 {
		t.Errorf("At(2) = %+v, %t", q, ok)
	}
	if _, ok := c.At(99); ok {
		t.Error("At(99) should miss")
	}
}

func TestCatalogFirstEmpty(t *testing.T) {
	if _, ok := NewCatalog(nil).First(); ok {
		t.Error("empty catalog has no first question")
	}
	inactive := NewCatalog([]models.Question{{ID: 1, Ordinal: 1, Active: false}})
	if _, ok := inactive.First(); ok {
		t.Error("catalog with only inactive questions has no first question")
	}
}

func TestCatalogByCategory(t *testing.T) {
	got := testCatalog().ByCategory(models.CategoryMood)
	if len(got) != 3 {
		t.Fatalf("expected 3 mood questions, got %d", len(got))
	}
	for i, want := range []int64{10, 20, 40} {
		if got[i].ID != want {
			t.Errorf("position %d: got %d want %d", i, got[i].ID, want)
		}
	}
}

func TestCatalogOption(t *testing.T) {
	c := testCatalog()
	if o, ok := c.Option(10, "  great 😊 "); !ok || o.Label != "Great 😊" {
		t.Errorf("Option match = %+v, %t", o, ok)
	}
	if o, ok := c.Option(30, "yes ✅"); !ok || o.Polarity != 1 {
		t.Errorf("default option match = %+v, %t", o, ok)
	}
	if _, ok := c.Option(30, "maybe"); ok {
		t.Error("unknown label should not match")
	}
	if _, ok := c.Option(999, "Yes ✅"); ok {
		t.Error("unknown question should not match")
	}
}

func TestBankIsOrderedAndComplete(t *testing.T) {
	bank := Bank()
	if len(bank) != 16 {
		t.Fatalf("expected 16 questions, got %d", len(bank))
	}
	for i, q := range bank {
		if q.Ordinal != i+1 {
			t.Errorf("question %q has ordinal %d, want %d", q.Text, q.Ordinal, i+1)
		}
		if !q.Category.Valid() {
			t.Errorf("question %q has invalid category %q", q.Text, q.Category)
		}
		if len(q.Options) == 0 {
			t.Errorf("question %q has no options", q.Text)
		}
	}
}

func TestLoadSeedsOnce(t *testing.T) {
	db, err := storage.Open("sqlite", filepath.Join(t.TempDir(), "q.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	c, err := Load(ctx, db)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if c.Len() != 16 {
		t.Fatalf("expected 16 questions, got %d", c.Len())
	}

	again, err := Load(ctx, db)
	if err != nil {
		t.Fatalf("second Load error = %v", err)
	}
	if again.Len() != 16 {
		t.Errorf("reload duplicated questions: %d", again.Len())
	}
	first, _ := again.First()
	if first.Text != "How are you feeling right now?" || len(first.Options) != 4 {
		t.Errorf("unexpected first question %+v", first)
	}
}

func TestCatalogOptionPlainText(t *testing.T) {
	withIDs := make([]models.Question, 0, 16)
	for i, q := range Bank() {
		q.ID = int64(i + 1)
		withIDs = append(withIDs, q)
	}
	c := NewCatalog(withIDs)

	tests := []struct {
		id     int64
		answer string
		want   string
	}{
		{1, "not great", "Not great 😔"},
		{1, "GOOD", "Good 🙂"},
		{2, "yes", "Yes ⚡"},
		{5, "Yes ❤️", "Yes ❤️"},
		{5, "no", "No"},
	}
	for _, tt := range tests {
		o, ok := c.Option(tt.id, tt.answer)
		if !ok || o.Label != tt.want {
			t.Errorf("Option(%d, %q) = %q, %t; want %q", tt.id, tt.answer, o.Label, ok, tt.want)
		}
	}
	if _, ok := c.Option(1, "😊"); ok {
		t.Error("emoji-only answer should not match a labelled option")
	}
	if _, ok := c.Option(1, " "); ok {
		t.Error("blank answer should not match")
	}
}
