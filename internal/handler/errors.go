package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/zizouhuweidi/trivia/internal/service"
)

// ErrorResponse is the envelope of every error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

var statusMessages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusNotFound:            "resource not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusTooManyRequests:     "too many requests",
	http.StatusServiceUnavailable:  "service unavailable",
	http.StatusInternalServerError: "internal server error",
}

func newErrorResponse(code int) ErrorResponse {
	msg, ok := statusMessages[code]
	if !ok {
		msg = strings.ToLower(http.StatusText(code))
	}
	return ErrorResponse{Success: false, Error: code, Message: msg}
}

// ErrorHandler renders every error as an ErrorResponse. Internal error text is
// logged, never sent to the client.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if he.Internal != nil {
			err = he.Internal
		}
	}

	if he == nil || he.Internal != nil {
		event := log.Warn()
		if code >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.Err(err).
			Int("status", code).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, newErrorResponse(code))
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to write error response")
	}
}

// toHTTPError maps service and store errors onto the API's status codes
func toHTTPError(err error) *echo.HTTPError {
	var code int
	switch {
	case errors.Is(err, service.ErrNoCategories),
		errors.Is(err, service.ErrNoQuestions),
		errors.Is(err, service.ErrPageNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCategory):
		code = http.StatusBadRequest
	default:
		code = http.StatusUnprocessableEntity
	}
	return echo.NewHTTPError(code).SetInternal(err)
}
