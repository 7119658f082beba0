package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/pagination"
	"github.com/zizouhuweidi/trivia/internal/service"
)

// TriviaHandler handles trivia-related HTTP requests
type TriviaHandler struct {
	triviaService *service.TriviaService
}

// NewTriviaHandler creates a new trivia handler
func NewTriviaHandler(triviaService *service.TriviaService) *TriviaHandler {
	return &TriviaHandler{
		triviaService: triviaService,
	}
}

// GetCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} CategoriesResponse
// @Failure 404 {object} ErrorResponse
// @Router /categories [get]
func (h *TriviaHandler) GetCategories(c echo.Context) error {
	categories, err := h.triviaService.Categories(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, CategoriesResponse{
		Success:    true,
		Categories: categories,
	})
}

// GetQuestions godoc
// @Summary List questions, ten per page
// @Tags questions
// @Produce json
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} QuestionsResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions [get]
func (h *TriviaHandler) GetQuestions(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := h.triviaService.Questions(ctx, pagination.Page(c.QueryParam("page")))
	if err != nil {
		return toHTTPError(err)
	}

	categories, err := h.triviaService.Categories(ctx)
	if err != nil && !errors.Is(err, service.ErrNoCategories) {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, QuestionsResponse{
		Success:        true,
		Questions:      formatQuestions(page.Questions),
		TotalQuestions: page.Total,
		Categories:     categories,
	})
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} DeletedResponse
// @Failure 422 {object} ErrorResponse
// @Router /questions/{id} [delete]
func (h *TriviaHandler) DeleteQuestion(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity).SetInternal(err)
	}

	if err := h.triviaService.DeleteQuestion(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, DeletedResponse{
		Success: true,
		Deleted: id,
	})
}

// CreateQuestion godoc
// @Summary Create a question
// @Tags questions
// @Accept json
// @Produce json
// @Param question body CreateQuestionRequest true "New question"
// @Success 200 {object} CreatedResponse
// @Failure 422 {object} ErrorResponse
// @Router /questions [post]
func (h *TriviaHandler) CreateQuestion(c echo.Context) error {
	var req CreateQuestionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity).SetInternal(err)
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity).SetInternal(err)
	}

	question := req.toDomain()
	if err := h.triviaService.CreateQuestion(c.Request().Context(), question); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, CreatedResponse{
		Success: true,
		Created: question.ID,
	})
}

// BulkCreateQuestions godoc
// @Summary Create many questions in one transaction
// @Tags questions
// @Accept json
// @Produce json
// @Param questions body BulkCreateQuestionsRequest true "Questions to import"
// @Success 200 {object} BulkCreatedResponse
// @Failure 422 {object} ErrorResponse
// @Router /questions/bulk [post]
func (h *TriviaHandler) BulkCreateQuestions(c echo.Context) error {
	var req BulkCreateQuestionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity).SetInternal(err)
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity).SetInternal(err)
	}

	questions := make([]*domain.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, q.toDomain())
	}

	if err := h.triviaService.BulkCreateQuestions(c.Request().Context(), questions); err != nil {
		return toHTTPError(err)
	}

	ids := make([]int, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}

	return c.JSON(http.StatusOK, BulkCreatedResponse{
		Success:        true,
		Created:        ids,
		TotalQuestions: len(ids),
	})
}

// SearchQuestions godoc
// @Summary Search questions by text, ignoring case
// @Tags questions
// @Accept json
// @Produce json
// @Param search body SearchRequest false "Search term"
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} QuestionsResponse
// @Failure 400 {object} ErrorResponse
// @Router /questions/search [post]
func (h *TriviaHandler) SearchQuestions(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest).SetInternal(err)
	}

	var term string
	if req.SearchTerm != nil {
		term = *req.SearchTerm
	}

	page, err := h.triviaService.SearchQuestions(c.Request().Context(), term, pagination.Page(c.QueryParam("page")))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, QuestionsResponse{
		Success:        true,
		Questions:      formatQuestions(page.Questions),
		TotalQuestions: page.Total,
	})
}

// GetCategoryQuestions godoc
// @Summary List the questions of a category, ten per page
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} QuestionsResponse
// @Failure 404 {object} ErrorResponse
// @Router /categories/{id}/questions [get]
func (h *TriviaHandler) GetCategoryQuestions(c echo.Context) error {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound).SetInternal(err)
	}

	page, err := h.triviaService.QuestionsByCategory(c.Request().Context(), categoryID, pagination.Page(c.QueryParam("page")))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, QuestionsResponse{
		Success:         true,
		Questions:       formatQuestions(page.Questions),
		TotalQuestions:  page.Total,
		CurrentCategory: &categoryID,
	})
}

// PlayQuiz godoc
// @Summary Get the next quiz question
// @Description Picks a random question not in previous_questions. The question key is absent once the pool is exhausted.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param quiz body QuizRequest true "Previously served ids and chosen category"
// @Success 200 {object} QuizResponse
// @Failure 400 {object} ErrorResponse
// @Router /quizzes [post]
func (h *TriviaHandler) PlayQuiz(c echo.Context) error {
	var req QuizRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest).SetInternal(err)
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest).SetInternal(err)
	}

	result, err := h.triviaService.PlayQuiz(c.Request().Context(), req.previousIDs(), int(*req.QuizCategory.ID))
	if err != nil {
		return toHTTPError(err)
	}

	if result.Exhausted {
		return c.JSON(http.StatusOK, QuizResponse{Success: true})
	}

	question := formatQuestion(*result.Question)
	return c.JSON(http.StatusOK, QuizResponse{
		Success:        true,
		Question:       &question,
		TotalQuestions: &result.Total,
	})
}

// Health reports whether the store is reachable
func (h *TriviaHandler) Health(c echo.Context) error {
	if err := h.triviaService.Ping(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable).SetInternal(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
