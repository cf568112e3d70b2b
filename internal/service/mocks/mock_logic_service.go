package mocks

import (
	"context"

	"surveyapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockLogicService struct {
	mock.Mock
}

func (m *MockLogicService) Create(ctx context.Context, actorID, questionID, optionID string) (*model.LogicRelation, error) {
	return result[*model.LogicRelation](m.Called(ctx, actorID, questionID, optionID))
}

func (m *MockLogicService) List(ctx context.Context, actorID, questionnaireID string) ([]model.LogicRelation, error) {
	return result[[]model.LogicRelation](m.Called(ctx, actorID, questionnaireID))
}

func (m *MockLogicService) Delete(ctx context.Context, actorID, id string) error {
	return m.Called(ctx, actorID, id).Error(0)
}
