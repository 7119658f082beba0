package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/zizouhuweidi/trivia/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	difficulty INTEGER NOT NULL,
	category INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS questions_category_idx ON questions (category);
`

// Store is the embedded implementation of both domain.CategoryRepository
// and domain.QuestionRepository.
type Store struct {
	db *sql.DB
}

// NewStore wraps a handle opened by database.ConnectSQLite. Searches rely on
// the unicode_lower function its connections register.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the schema and seeds the default categories into an empty table
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, name := range domain.DefaultCategories {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (type) VALUES (?)`, name); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ping checks the database handle
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern lowercases term and escapes it for a LIKE ... ESCAPE '\' match
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
