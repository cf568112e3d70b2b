package mocks

import (
	"context"

	"surveyapi/internal/model"
	"surveyapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockQuestionService struct {
	mock.Mock
}

func (m *MockQuestionService) Create(ctx context.Context, actorID string, in service.QuestionInput) (*model.QuestionDetail, error) {
	return result[*model.QuestionDetail](m.Called(ctx, actorID, in))
}

func (m *MockQuestionService) CreateMany(ctx context.Context, actorID string, ins []service.QuestionInput) ([]model.QuestionDetail, error) {
	return result[[]model.QuestionDetail](m.Called(ctx, actorID, ins))
}

func (m *MockQuestionService) Get(ctx context.Context, actorID, id string) (*model.QuestionDetail, error) {
	return result[*model.QuestionDetail](m.Called(ctx, actorID, id))
}

func (m *MockQuestionService) Update(ctx context.Context, actorID, id string, p service.QuestionPatch) (*model.Question, error) {
	return result[*model.Question](m.Called(ctx, actorID, id, p))
}

func (m *MockQuestionService) Delete(ctx context.Context, actorID, id string) error {
	return m.Called(ctx, actorID, id).Error(0)
}

func (m *MockQuestionService) Copy(ctx context.Context, actorID, id string) (*model.QuestionDetail, error) {
	return result[*model.QuestionDetail](m.Called(ctx, actorID, id))
}

func (m *MockQuestionService) ReorderOptions(ctx context.Context, actorID, id string, optionIDs []string) ([]model.Option, error) {
	return result[[]model.Option](m.Called(ctx, actorID, id, optionIDs))
}
