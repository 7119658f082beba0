package service

import "errors"

// Common service errors
var (
	ErrPageNotFound     = errors.New("page not found")
	ErrNoQuestions      = errors.New("no questions found")
	ErrInvalidQuestion  = errors.New("invalid question")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrQuestionNotFound = errors.New("question not found")
	ErrNoCategories     = errors.New("no categories found")
)
