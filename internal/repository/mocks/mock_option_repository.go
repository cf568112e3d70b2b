package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"surveyapi/internal/model"
)

type MockOptionRepository struct {
	mock.Mock
}

func (m *MockOptionRepository) Create(ctx context.Context, o *model.Option) (*model.Option, error) {
	args := m.Called(ctx, o)
	if f, ok := args.Get(0).(func(context.Context, *model.Option) *model.Option); ok {
		return f(ctx, o), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Option), args.Error(1)
}

func (m *MockOptionRepository) FindByID(ctx context.Context, id string) (*model.Option, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Option), args.Error(1)
}

func (m *MockOptionRepository) ListByQuestion(ctx context.Context, questionID string) ([]model.Option, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Option), args.Error(1)
}

func (m *MockOptionRepository) ListByQuestionnaire(ctx context.Context, questionnaireID string) ([]model.Option, error) {
	args := m.Called(ctx, questionnaireID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Option), args.Error(1)
}

func (m *MockOptionRepository) Update(ctx context.Context, o *model.Option) (*model.Option, error) {
	args := m.Called(ctx, o)
	if f, ok := args.Get(0).(func(context.Context, *model.Option) *model.Option); ok {
		return f(ctx, o), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Option), args.Error(1)
}

func (m *MockOptionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOptionRepository) Count(ctx context.Context, questionID string) (int, error) {
	args := m.Called(ctx, questionID)
	return args.Int(0), args.Error(1)
}

func (m *MockOptionRepository) SetOrdering(ctx context.Context, id string, ordering int) error {
	args := m.Called(ctx, id, ordering)
	return args.Error(0)
}

func (m *MockOptionRepository) ShiftOrdering(ctx context.Context, questionID string, from, delta int) error {
	args := m.Called(ctx, questionID, from, delta)
	return args.Error(0)
}

func (m *MockOptionRepository) Lock(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
