package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
)

type MockQuestionnaireRepository struct {
	mock.Mock
}

func (m *MockQuestionnaireRepository) Create(ctx context.Context, q *model.Questionnaire) (*model.Questionnaire, error) {
	args := m.Called(ctx, q)
	if f, ok := args.Get(0).(func(context.Context, *model.Questionnaire) *model.Questionnaire); ok {
		return f(ctx, q), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Questionnaire), args.Error(1)
}

func (m *MockQuestionnaireRepository) FindByID(ctx context.Context, id string) (*model.Questionnaire, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Questionnaire), args.Error(1)
}

func (m *MockQuestionnaireRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Questionnaire, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Questionnaire), args.Error(1)
}

func (m *MockQuestionnaireRepository) List(ctx context.Context, f repository.QuestionnaireFilter, pq repository.PageQuery) (*repository.PageResult[model.QuestionnaireSummary], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.QuestionnaireSummary]), args.Error(1)
}

func (m *MockQuestionnaireRepository) Update(ctx context.Context, q *model.Questionnaire) (*model.Questionnaire, error) {
	args := m.Called(ctx, q)
	if f, ok := args.Get(0).(func(context.Context, *model.Questionnaire) *model.Questionnaire); ok {
		return f(ctx, q), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Questionnaire), args.Error(1)
}

func (m *MockQuestionnaireRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
