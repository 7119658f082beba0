package domain

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrQuestionNotFound = errors.New("question not found")
)

// QuestionFilter narrows a question count. A zero CategoryID means any category
// and an empty Search matches every question.
type QuestionFilter struct {
	CategoryID int
	Search     string
}

// QuestionRepository defines the interface for question-related operations
type QuestionRepository interface {
	// ListQuestions retrieves every question ordered by id
	ListQuestions(ctx context.Context) ([]Question, error)

	// ListQuestionsByCategory retrieves the questions of one category ordered by id
	ListQuestionsByCategory(ctx context.Context, categoryID int) ([]Question, error)

	// SearchQuestions retrieves questions whose text contains term, ignoring case
	SearchQuestions(ctx context.Context, term string) ([]Question, error)

	// CountQuestions counts the questions matching filter
	CountQuestions(ctx context.Context, filter QuestionFilter) (int, error)

	// CreateQuestion inserts a question and sets its ID
	CreateQuestion(ctx context.Context, question *Question) error

	// BulkCreateQuestions inserts multiple questions in a single transaction
	BulkCreateQuestions(ctx context.Context, questions []*Question) error

	// DeleteQuestion deletes a question, returning ErrQuestionNotFound when no row matched
	DeleteQuestion(ctx context.Context, id int) error

	// Ping checks that the underlying store is reachable
	Ping(ctx context.Context) error
}

// Question represents a trivia question
type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty int    `json:"difficulty"`
	Category   int    `json:"category"`
}
