package repository

import (
	"context"

	"surveyapi/internal/model"
)

// LogicRelationRepository persists conditional display links.
type LogicRelationRepository interface {
	Create(ctx context.Context, r *model.LogicRelation) (*model.LogicRelation, error)
	FindByID(ctx context.Context, id string) (*model.LogicRelation, error)
	ListByQuestionnaire(ctx context.Context, questionnaireID string) ([]model.LogicRelation, error)
	Delete(ctx context.Context, id string) error
}
