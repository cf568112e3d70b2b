package mocks

import (
	"context"

	"surveyapi/internal/model"
	"surveyapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockQuestionnaireService struct {
	mock.Mock
}

func (m *MockQuestionnaireService) Create(ctx context.Context, actorID string, in service.QuestionnaireInput, template string) (*model.QuestionnaireDetail, error) {
	return result[*model.QuestionnaireDetail](m.Called(ctx, actorID, in, template))
}

func (m *MockQuestionnaireService) List(ctx context.Context, search string, limit, offset int) (*service.QuestionnaireListResult, error) {
	return result[*service.QuestionnaireListResult](m.Called(ctx, search, limit, offset))
}

func (m *MockQuestionnaireService) Sort(ctx context.Context, keyword string, limit, offset int) (*service.QuestionnaireListResult, error) {
	return result[*service.QuestionnaireListResult](m.Called(ctx, keyword, limit, offset))
}

func (m *MockQuestionnaireService) Get(ctx context.Context, actorID, id string) (*model.QuestionnaireDetail, error) {
	return result[*model.QuestionnaireDetail](m.Called(ctx, actorID, id))
}

func (m *MockQuestionnaireService) Fill(ctx context.Context, actorID, id, password string) (*model.QuestionnaireDetail, error) {
	return result[*model.QuestionnaireDetail](m.Called(ctx, actorID, id, password))
}

func (m *MockQuestionnaireService) Update(ctx context.Context, actorID, id string, p service.QuestionnairePatch) (*model.Questionnaire, error) {
	return result[*model.Questionnaire](m.Called(ctx, actorID, id, p))
}

func (m *MockQuestionnaireService) Delete(ctx context.Context, actorID, id string) error {
	return m.Called(ctx, actorID, id).Error(0)
}

func (m *MockQuestionnaireService) SetStatus(ctx context.Context, actorID, id string, status model.QuestionnaireStatus) (*model.Questionnaire, error) {
	return result[*model.Questionnaire](m.Called(ctx, actorID, id, status))
}

func (m *MockQuestionnaireService) Copy(ctx context.Context, actorID, id string) (*model.QuestionnaireDetail, error) {
	return result[*model.QuestionnaireDetail](m.Called(ctx, actorID, id))
}

func (m *MockQuestionnaireService) ReorderQuestions(ctx context.Context, actorID, id string, questionIDs []string) ([]model.Question, error) {
	return result[[]model.Question](m.Called(ctx, actorID, id, questionIDs))
}
