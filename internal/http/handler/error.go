package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"surveyapi/internal/http/middleware"
	"surveyapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

type errorMapping struct {
	err    error
	status int
	code   string
	// detailed responses carry err.Error(), which names the offending field
	// or limit; the rest use the sentinel's own text.
	detailed bool
}

var errorMappings = []errorMapping{
	{service.ErrIDRequired, fiber.StatusBadRequest, "ID_REQUIRED", false},
	{service.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT", true},
	{service.ErrNotExam, fiber.StatusBadRequest, "NOT_EXAM", false},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", false},
	{service.ErrUnauthenticated, fiber.StatusUnauthorized, "UNAUTHORIZED", false},
	{service.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", false},
	{service.ErrNotAccepting, fiber.StatusForbidden, "NOT_ACCEPTING", false},
	{service.ErrWrongPassword, fiber.StatusForbidden, "WRONG_PASSWORD", false},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", false},
	{service.ErrConflict, fiber.StatusConflict, "CONFLICT", false},
	{service.ErrAlreadyAnswered, fiber.StatusConflict, "ALREADY_ANSWERED", false},
	{service.ErrAnswerLimit, fiber.StatusConflict, "ANSWER_LIMIT_REACHED", false},
	{service.ErrQuestionFull, fiber.StatusConflict, "QUESTION_LIMIT_REACHED", true},
	{service.ErrOptionFull, fiber.StatusConflict, "OPTION_LIMIT_REACHED", true},
	{service.ErrStorageUnavailable, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", false},
}

// respondError translates a service error into the error envelope. Unknown
// errors are logged and reported as INTERNAL_ERROR.
func respondError(c *fiber.Ctx, err error) error {
	var re *requestError
	if errors.As(err, &re) {
		return writeError(c, fiber.StatusBadRequest, re.code, re.message)
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			msg := m.err.Error()
			if m.detailed {
				msg = err.Error()
			}
			return writeError(c, m.status, m.code, msg)
		}
	}
	slog.ErrorContext(c.UserContext(), "request_failed",
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.Any("error", err),
	)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", fe.Message)
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "BODY_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
