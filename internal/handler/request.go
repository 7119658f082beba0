package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zizouhuweidi/trivia/internal/domain"
)

// flexInt decodes from a JSON number or a numeric string. Form selects in the
// front end submit ids as strings.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid integer %s", data)
	}
	*n = flexInt(v)
	return nil
}

// CreateQuestionRequest represents the request to create a new question
type CreateQuestionRequest struct {
	Question   string   `json:"question" validate:"required"`
	Answer     string   `json:"answer" validate:"required"`
	Difficulty *flexInt `json:"difficulty" validate:"required"`
	Category   *flexInt `json:"category" validate:"required"`
}

func (r CreateQuestionRequest) toDomain() *domain.Question {
	return &domain.Question{
		Question:   r.Question,
		Answer:     r.Answer,
		Difficulty: int(*r.Difficulty),
		Category:   int(*r.Category),
	}
}

// BulkCreateQuestionsRequest represents the request body for bulk creating questions
type BulkCreateQuestionsRequest struct {
	Questions []CreateQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// SearchRequest represents the request body for a question search
type SearchRequest struct {
	SearchTerm *string `json:"searchTerm"`
}

// QuizCategory identifies the category to play. ID 0 selects every category.
type QuizCategory struct {
	ID   *flexInt `json:"id" validate:"required"`
	Type string   `json:"type"`
}

// QuizRequest represents the request body for the next quiz question
type QuizRequest struct {
	PreviousQuestions []flexInt     `json:"previous_questions"`
	QuizCategory      *QuizCategory `json:"quiz_category" validate:"required"`
}

func (r QuizRequest) previousIDs() []int {
	ids := make([]int, 0, len(r.PreviousQuestions))
	for _, id := range r.PreviousQuestions {
		ids = append(ids, int(id))
	}
	return ids
}
