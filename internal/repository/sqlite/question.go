package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zizouhuweidi/trivia/internal/domain"
)

const questionColumns = `id, question, answer, difficulty, category`

const insertQuestion = `INSERT INTO questions (question, answer, difficulty, category) VALUES (?, ?, ?, ?)`

// ListQuestions retrieves every question ordered by id
func (s *Store) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	return s.queryQuestions(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id`)
}

// ListQuestionsByCategory retrieves the questions of one category ordered by id
func (s *Store) ListQuestionsByCategory(ctx context.Context, categoryID int) ([]domain.Question, error) {
	return s.queryQuestions(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE category = ?
		ORDER BY id
	`, categoryID)
}

// SearchQuestions retrieves questions whose text contains term, ignoring case
func (s *Store) SearchQuestions(ctx context.Context, term string) ([]domain.Question, error) {
	return s.queryQuestions(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE unicode_lower(question) LIKE ? ESCAPE '\'
		ORDER BY id
	`, likePattern(term))
}

// CountQuestions counts the questions matching filter
func (s *Store) CountQuestions(ctx context.Context, filter domain.QuestionFilter) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM questions
		WHERE (? = 0 OR category = ?)
		  AND unicode_lower(question) LIKE ? ESCAPE '\'
	`, filter.CategoryID, filter.CategoryID, likePattern(filter.Search)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// CreateQuestion inserts a question and sets its ID
func (s *Store) CreateQuestion(ctx context.Context, question *domain.Question) error {
	return insertQuestionRow(ctx, s.db, question)
}

// BulkCreateQuestions inserts multiple questions in a single transaction
func (s *Store) BulkCreateQuestions(ctx context.Context, questions []*domain.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, question := range questions {
		if err := insertQuestionRow(ctx, tx, question); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteQuestion deletes a question
func (s *Store) DeleteQuestion(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if affected == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertQuestionRow(ctx context.Context, db execer, question *domain.Question) error {
	result, err := db.ExecContext(ctx, insertQuestion,
		question.Question,
		question.Answer,
		question.Difficulty,
		question.Category,
	)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read question id: %w", err)
	}
	question.ID = int(id)
	return nil
}

func (s *Store) queryQuestions(ctx context.Context, query string, args ...any) ([]domain.Question, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &q.Difficulty, &q.Category); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	return questions, nil
}
