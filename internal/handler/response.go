package handler

import "github.com/zizouhuweidi/trivia/internal/domain"

// QuestionResponse is the wire form of a question
type QuestionResponse struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty int    `json:"difficulty"`
	Category   int    `json:"category"`
}

func formatQuestion(q domain.Question) QuestionResponse {
	return QuestionResponse{
		ID:         q.ID,
		Question:   q.Question,
		Answer:     q.Answer,
		Difficulty: q.Difficulty,
		Category:   q.Category,
	}
}

func formatQuestions(questions []domain.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, formatQuestion(q))
	}
	return out
}

// CategoriesResponse lists categories keyed by id
type CategoriesResponse struct {
	Success    bool           `json:"success"`
	Categories map[int]string `json:"categories"`
}

// QuestionsResponse is a page of questions
type QuestionsResponse struct {
	Success         bool               `json:"success"`
	Questions       []QuestionResponse `json:"questions"`
	TotalQuestions  int                `json:"total_questions"`
	Categories      map[int]string     `json:"categories,omitempty"`
	CurrentCategory *int               `json:"current_category"`
}

// DeletedResponse reports a deleted question
type DeletedResponse struct {
	Success bool `json:"success"`
	Deleted int  `json:"deleted"`
}

// CreatedResponse reports a created question
type CreatedResponse struct {
	Success bool `json:"success"`
	Created int  `json:"created"`
}

// BulkCreatedResponse reports the questions created by a bulk import
type BulkCreatedResponse struct {
	Success        bool  `json:"success"`
	Created        []int `json:"created"`
	TotalQuestions int   `json:"total_questions"`
}

// QuizResponse carries the next quiz question. Question is absent once every
// candidate has been served.
type QuizResponse struct {
	Success        bool              `json:"success"`
	Question       *QuestionResponse `json:"question,omitempty"`
	TotalQuestions *int              `json:"total_questions,omitempty"`
}
