package service

import (
	"database/sql"
	"errors"
	"fmt"

	"surveyapi/internal/repository"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("not allowed to access this resource")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("resource already exists")

	ErrNotAccepting    = errors.New("questionnaire is not accepting answers")
	ErrWrongPassword   = errors.New("questionnaire password is missing or wrong")
	ErrAlreadyAnswered = errors.New("questionnaire already answered by this user")
	ErrAnswerLimit     = errors.New("questionnaire answer limit reached")
	ErrQuestionFull    = errors.New("question answer limit reached")
	ErrOptionFull      = errors.New("option answer limit reached")
	ErrNotExam         = errors.New("questionnaire is not an exam")
)

// invalidf wraps ErrInvalidInput with a message safe to show to clients.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// notFound maps a missing row to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// conflict maps a unique constraint collision to ErrConflict.
func conflict(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrConflict
	}
	return err
}

// actorGone maps a write referencing a deleted account to ErrUnauthenticated.
func actorGone(err error) error {
	if errors.Is(err, repository.ErrMissingReference) {
		return ErrUnauthenticated
	}
	return err
}
