package repository

import (
	"context"

	"surveyapi/internal/model"
)

// QuestionRepository persists questions. Ordering maintenance is expressed as
// primitive shifts; callers decide when to apply them.
type QuestionRepository interface {
	Create(ctx context.Context, q *model.Question) (*model.Question, error)
	FindByID(ctx context.Context, id string) (*model.Question, error)
	ListByQuestionnaire(ctx context.Context, questionnaireID string) ([]model.Question, error)
	Update(ctx context.Context, q *model.Question) (*model.Question, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, questionnaireID string) (int, error)

	// SetOrdering moves a single question to ordering.
	SetOrdering(ctx context.Context, id string, ordering int) error

	// ShiftOrdering adds delta to every question of the questionnaire whose ordering is >= from.
	ShiftOrdering(ctx context.Context, questionnaireID string, from, delta int) error

	// Lock takes a row lock on the question for the surrounding transaction.
	Lock(ctx context.Context, id string) error
}
