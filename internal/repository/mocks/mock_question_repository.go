package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"surveyapi/internal/model"
)

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, q *model.Question) (*model.Question, error) {
	args := m.Called(ctx, q)
	if f, ok := args.Get(0).(func(context.Context, *model.Question) *model.Question); ok {
		return f(ctx, q), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListByQuestionnaire(ctx context.Context, questionnaireID string) ([]model.Question, error) {
	args := m.Called(ctx, questionnaireID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, q *model.Question) (*model.Question, error) {
	args := m.Called(ctx, q)
	if f, ok := args.Get(0).(func(context.Context, *model.Question) *model.Question); ok {
		return f(ctx, q), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) Count(ctx context.Context, questionnaireID string) (int, error) {
	args := m.Called(ctx, questionnaireID)
	return args.Int(0), args.Error(1)
}

func (m *MockQuestionRepository) SetOrdering(ctx context.Context, id string, ordering int) error {
	args := m.Called(ctx, id, ordering)
	return args.Error(0)
}

func (m *MockQuestionRepository) ShiftOrdering(ctx context.Context, questionnaireID string, from, delta int) error {
	args := m.Called(ctx, questionnaireID, from, delta)
	return args.Error(0)
}

func (m *MockQuestionRepository) Lock(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
