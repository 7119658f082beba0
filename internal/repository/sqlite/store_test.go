package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/zizouhuweidi/trivia/internal/config"
	"github.com/zizouhuweidi/trivia/internal/database"
	"github.com/zizouhuweidi/trivia/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	db, err := database.ConnectSQLite(ctx, config.SQLite{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("ConnectSQLite failed: %v", err)
	}
	store := NewStore(db)
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return store
}

func seedQuestions(t *testing.T, store *Store, questions ...domain.Question) []int {
	t.Helper()

	ids := make([]int, 0, len(questions))
	for i := range questions {
		q := questions[i]
		if err := store.CreateQuestion(context.Background(), &q); err != nil {
			t.Fatalf("CreateQuestion failed: %v", err)
		}
		ids = append(ids, q.ID)
	}
	return ids
}

func TestMigrateSeedsCategoriesOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	categories, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != len(domain.DefaultCategories) {
		t.Fatalf("expected %d categories, got %d", len(domain.DefaultCategories), len(categories))
	}
	if categories[0].ID != 1 || categories[0].Type != "Science" {
		t.Fatalf("unexpected first category: %+v", categories[0])
	}
}

func TestCreateListAndDeleteQuestions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ids := seedQuestions(t, store,
		domain.Question{Question: "What is H2O?", Answer: "Water", Difficulty: 1, Category: 1},
		domain.Question{Question: "Who painted the Mona Lisa?", Answer: "Da Vinci", Difficulty: 2, Category: 2},
	)
	if ids[0] == 0 || ids[1] <= ids[0] {
		t.Fatalf("unexpected ids: %v", ids)
	}

	all, err := store.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("ListQuestions failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != ids[0] || all[1].Answer != "Da Vinci" {
		t.Fatalf("unexpected questions: %+v", all)
	}

	if err := store.DeleteQuestion(ctx, ids[0]); err != nil {
		t.Fatalf("DeleteQuestion failed: %v", err)
	}
	if err := store.DeleteQuestion(ctx, ids[0]); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound on second delete, got %v", err)
	}

	all, err = store.ListQuestions(ctx)
	if err != nil {
		t.Fatalf("ListQuestions failed: %v", err)
	}
	if len(all) != 1 || all[0].ID != ids[1] {
		t.Fatalf("deleted question still listed: %+v", all)
	}
}

func TestCreateQuestionRejectsUnknownCategory(t *testing.T) {
	store := newTestStore(t)

	q := domain.Question{Question: "Orphan?", Answer: "Yes", Difficulty: 1, Category: 999}
	if err := store.CreateQuestion(context.Background(), &q); err == nil {
		t.Fatalf("expected foreign key violation")
	}
}

func TestSearchAndCountIgnoreCase(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedQuestions(t, store,
		domain.Question{Question: "Which Science studies stars?", Answer: "Astronomy", Difficulty: 2, Category: 1},
		domain.Question{Question: "Is 100% a lot?", Answer: "Yes", Difficulty: 1, Category: 1},
		domain.Question{Question: "Who painted Guernica?", Answer: "Picasso", Difficulty: 3, Category: 2},
	)

	lower, err := store.SearchQuestions(ctx, "science")
	if err != nil {
		t.Fatalf("SearchQuestions failed: %v", err)
	}
	upper, err := store.SearchQuestions(ctx, "SCIENCE")
	if err != nil {
		t.Fatalf("SearchQuestions failed: %v", err)
	}
	if len(lower) != 1 || len(upper) != 1 || lower[0].ID != upper[0].ID {
		t.Fatalf("case-insensitive search mismatch: %+v vs %+v", lower, upper)
	}

	percent, err := store.SearchQuestions(ctx, "%")
	if err != nil {
		t.Fatalf("SearchQuestions failed: %v", err)
	}
	if len(percent) != 1 || percent[0].Answer != "Yes" {
		t.Fatalf("expected literal %% match, got %+v", percent)
	}

	count, err := store.CountQuestions(ctx, domain.QuestionFilter{CategoryID: 1})
	if err != nil {
		t.Fatalf("CountQuestions failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("category count = %d, want 2", count)
	}

	count, err = store.CountQuestions(ctx, domain.QuestionFilter{Search: "PAINTED"})
	if err != nil {
		t.Fatalf("CountQuestions failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("search count = %d, want 1", count)
	}

	byCategory, err := store.ListQuestionsByCategory(ctx, 2)
	if err != nil {
		t.Fatalf("ListQuestionsByCategory failed: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].Answer != "Picasso" {
		t.Fatalf("unexpected category questions: %+v", byCategory)
	}
}

func TestSearchFoldsNonASCIICase(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ids := seedQuestions(t, store,
		domain.Question{Question: "Who baked the Éclair?", Answer: "A pâtissier", Difficulty: 2, Category: 5},
		domain.Question{Question: "What is a Straße?", Answer: "A street", Difficulty: 1, Category: 3},
		domain.Question{Question: "Which river crosses Paris?", Answer: "Seine", Difficulty: 1, Category: 3},
	)

	for _, term := range []string{"Éclair", "éclair", "ÉCLAIR", "baked the é"} {
		found, err := store.SearchQuestions(ctx, term)
		if err != nil {
			t.Fatalf("SearchQuestions(%q) failed: %v", term, err)
		}
		if len(found) != 1 || found[0].ID != ids[0] {
			t.Fatalf("SearchQuestions(%q) = %+v, want question %d", term, found, ids[0])
		}

		count, err := store.CountQuestions(ctx, domain.QuestionFilter{Search: term})
		if err != nil {
			t.Fatalf("CountQuestions(%q) failed: %v", term, err)
		}
		if count != 1 {
			t.Fatalf("CountQuestions(%q) = %d, want 1", term, count)
		}
	}

	found, err := store.SearchQuestions(ctx, "STRAẞE")
	if err != nil {
		t.Fatalf("SearchQuestions failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != ids[1] {
		t.Fatalf("SearchQuestions(STRAẞE) = %+v, want question %d", found, ids[1])
	}
}

func TestBulkCreateQuestionsIsAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	batch := []*domain.Question{
		{Question: "Q1", Answer: "A1", Difficulty: 1, Category: 1},
		{Question: "Q2", Answer: "A2", Difficulty: 1, Category: 999},
	}
	if err := store.BulkCreateQuestions(ctx, batch); err == nil {
		t.Fatalf("expected bulk insert to fail on unknown category")
	}

	count, err := store.CountQuestions(ctx, domain.QuestionFilter{})
	if err != nil {
		t.Fatalf("CountQuestions failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback, found %d questions", count)
	}

	batch[1].Category = 2
	if err := store.BulkCreateQuestions(ctx, batch); err != nil {
		t.Fatalf("BulkCreateQuestions failed: %v", err)
	}
	if batch[0].ID == 0 || batch[1].ID == 0 {
		t.Fatalf("expected ids to be assigned: %+v %+v", batch[0], batch[1])
	}
}
