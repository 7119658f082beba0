package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/pagination"
	"github.com/zizouhuweidi/trivia/internal/quiz"
)

// AnyCategory selects the whole question bank for a quiz
const AnyCategory = 0

// QuestionPage is one page of questions plus the size of the full result
type QuestionPage struct {
	Questions []domain.Question
	Total     int
}

// TriviaService orchestrates the store, pagination and quiz selection
type TriviaService struct {
	categoryRepo domain.CategoryRepository
	questionRepo domain.QuestionRepository
	selector     *quiz.Selector
}

// NewTriviaService creates a new trivia service
func NewTriviaService(categoryRepo domain.CategoryRepository, questionRepo domain.QuestionRepository, selector *quiz.Selector) *TriviaService {
	return &TriviaService{
		categoryRepo: categoryRepo,
		questionRepo: questionRepo,
		selector:     selector,
	}
}

// Categories returns every category keyed by id
func (s *TriviaService) Categories(ctx context.Context) (map[int]string, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}

	byID := make(map[int]string, len(categories))
	for _, c := range categories {
		byID[c.ID] = c.Type
	}
	return byID, nil
}

// Questions returns one page of all questions ordered by id
func (s *TriviaService) Questions(ctx context.Context, page int) (*QuestionPage, error) {
	questions, err := s.questionRepo.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}

	current := pagination.Slice(questions, page)
	if len(current) == 0 {
		return nil, ErrPageNotFound
	}
	return &QuestionPage{Questions: current, Total: len(questions)}, nil
}

// SearchQuestions returns one page of questions whose text contains term,
// ignoring case. An empty term matches every question.
func (s *TriviaService) SearchQuestions(ctx context.Context, term string, page int) (*QuestionPage, error) {
	var (
		questions []domain.Question
		err       error
	)
	if term = strings.TrimSpace(term); term == "" {
		questions, err = s.questionRepo.ListQuestions(ctx)
	} else {
		questions, err = s.questionRepo.SearchQuestions(ctx, term)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.questionRepo.CountQuestions(ctx, domain.QuestionFilter{Search: term})
	if err != nil {
		return nil, err
	}

	return &QuestionPage{Questions: pagination.Slice(questions, page), Total: total}, nil
}

// QuestionsByCategory returns one page of the questions in a category
func (s *TriviaService) QuestionsByCategory(ctx context.Context, categoryID int, page int) (*QuestionPage, error) {
	questions, err := s.questionRepo.ListQuestionsByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	return &QuestionPage{Questions: pagination.Slice(questions, page), Total: len(questions)}, nil
}

// CreateQuestion validates and stores a new question
func (s *TriviaService) CreateQuestion(ctx context.Context, question *domain.Question) error {
	if err := validateQuestion(question); err != nil {
		return err
	}
	return s.questionRepo.CreateQuestion(ctx, question)
}

// BulkCreateQuestions validates every question before storing all of them at once
func (s *TriviaService) BulkCreateQuestions(ctx context.Context, questions []*domain.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: no questions given", ErrInvalidQuestion)
	}
	for i, q := range questions {
		if err := validateQuestion(q); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return s.questionRepo.BulkCreateQuestions(ctx, questions)
}

// DeleteQuestion removes a question by id
func (s *TriviaService) DeleteQuestion(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrQuestionNotFound
	}
	if err := s.questionRepo.DeleteQuestion(ctx, id); err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}
	return nil
}

// PlayQuiz picks the next unseen question from the chosen category, or from
// every category when categoryID is AnyCategory. A category without questions
// is rejected with ErrInvalidCategory.
func (s *TriviaService) PlayQuiz(ctx context.Context, previous []int, categoryID int) (quiz.Result, error) {
	if categoryID < 0 {
		return quiz.Result{}, ErrInvalidCategory
	}

	var (
		candidates []domain.Question
		err        error
	)
	if categoryID == AnyCategory {
		candidates, err = s.questionRepo.ListQuestions(ctx)
	} else {
		candidates, err = s.questionRepo.ListQuestionsByCategory(ctx, categoryID)
	}
	if err != nil {
		return quiz.Result{}, err
	}
	if len(candidates) == 0 && categoryID != AnyCategory {
		return quiz.Result{}, fmt.Errorf("%w: category %d has no questions", ErrInvalidCategory, categoryID)
	}

	total, err := s.questionRepo.CountQuestions(ctx, domain.QuestionFilter{CategoryID: categoryID})
	if err != nil {
		return quiz.Result{}, err
	}

	return s.selector.Pick(candidates, previous, total), nil
}

// Ping checks that the store is reachable
func (s *TriviaService) Ping(ctx context.Context) error {
	return s.questionRepo.Ping(ctx)
}

// validateQuestion checks a question's data
func validateQuestion(q *domain.Question) error {
	if q == nil {
		return ErrInvalidQuestion
	}
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("%w: question text cannot be empty", ErrInvalidQuestion)
	}
	if strings.TrimSpace(q.Answer) == "" {
		return fmt.Errorf("%w: answer cannot be empty", ErrInvalidQuestion)
	}
	if q.Category <= 0 {
		return fmt.Errorf("%w: category must be a positive id", ErrInvalidQuestion)
	}
	return nil
}
