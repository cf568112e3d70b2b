package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"surveyapi/internal/model"
)

type MockLogicRelationRepository struct {
	mock.Mock
}

func (m *MockLogicRelationRepository) Create(ctx context.Context, r *model.LogicRelation) (*model.LogicRelation, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LogicRelation), args.Error(1)
}

func (m *MockLogicRelationRepository) FindByID(ctx context.Context, id string) (*model.LogicRelation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LogicRelation), args.Error(1)
}

func (m *MockLogicRelationRepository) ListByQuestionnaire(ctx context.Context, questionnaireID string) ([]model.LogicRelation, error) {
	args := m.Called(ctx, questionnaireID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LogicRelation), args.Error(1)
}

func (m *MockLogicRelationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
