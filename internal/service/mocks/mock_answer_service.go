package mocks

import (
	"context"

	"surveyapi/internal/model"
	"surveyapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAnswerService struct {
	mock.Mock
}

func (m *MockAnswerService) Submit(ctx context.Context, actorID, ip string, in service.SubmitInput) (*model.AnswerSheetDetail, error) {
	return result[*model.AnswerSheetDetail](m.Called(ctx, actorID, ip, in))
}

func (m *MockAnswerService) List(ctx context.Context, actorID, questionnaireID string, limit, offset int) (*service.AnswerListResult, error) {
	return result[*service.AnswerListResult](m.Called(ctx, actorID, questionnaireID, limit, offset))
}

func (m *MockAnswerService) Get(ctx context.Context, actorID, id string) (*model.AnswerSheetDetail, error) {
	return result[*model.AnswerSheetDetail](m.Called(ctx, actorID, id))
}

func (m *MockAnswerService) Delete(ctx context.Context, actorID, id string) error {
	return m.Called(ctx, actorID, id).Error(0)
}
