package repository

import (
	"context"

	"surveyapi/internal/model"
)

// OptionRepository persists options, mirroring QuestionRepository one level down.
type OptionRepository interface {
	Create(ctx context.Context, o *model.Option) (*model.Option, error)
	FindByID(ctx context.Context, id string) (*model.Option, error)
	ListByQuestion(ctx context.Context, questionID string) ([]model.Option, error)

	// ListByQuestionnaire returns every option of the questionnaire ordered by
	// question ordering, then option ordering.
	ListByQuestionnaire(ctx context.Context, questionnaireID string) ([]model.Option, error)

	Update(ctx context.Context, o *model.Option) (*model.Option, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, questionID string) (int, error)
	SetOrdering(ctx context.Context, id string, ordering int) error
	ShiftOrdering(ctx context.Context, questionID string, from, delta int) error
	Lock(ctx context.Context, id string) error
}
