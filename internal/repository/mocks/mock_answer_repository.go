package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
)

type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) CreateSheet(ctx context.Context, s *model.AnswerSheet) (*model.AnswerSheet, error) {
	args := m.Called(ctx, s)
	if f, ok := args.Get(0).(func(context.Context, *model.AnswerSheet) *model.AnswerSheet); ok {
		return f(ctx, s), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnswerSheet), args.Error(1)
}

func (m *MockAnswerRepository) CreateDetails(ctx context.Context, details []model.AnswerDetail) error {
	args := m.Called(ctx, details)
	return args.Error(0)
}

func (m *MockAnswerRepository) FindSheet(ctx context.Context, id string) (*model.AnswerSheet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnswerSheet), args.Error(1)
}

func (m *MockAnswerRepository) ListSheets(ctx context.Context, questionnaireID string, pq repository.PageQuery) (*repository.PageResult[model.AnswerSheet], error) {
	args := m.Called(ctx, questionnaireID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.AnswerSheet]), args.Error(1)
}

func (m *MockAnswerRepository) ListAllSheets(ctx context.Context, questionnaireID string) ([]model.AnswerSheet, error) {
	args := m.Called(ctx, questionnaireID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AnswerSheet), args.Error(1)
}

func (m *MockAnswerRepository) ListDetailsBySheet(ctx context.Context, sheetID string) ([]model.AnswerDetail, error) {
	args := m.Called(ctx, sheetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AnswerDetail), args.Error(1)
}

func (m *MockAnswerRepository) ListDetailsByQuestionnaire(ctx context.Context, questionnaireID string) ([]model.AnswerDetail, error) {
	args := m.Called(ctx, questionnaireID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AnswerDetail), args.Error(1)
}

func (m *MockAnswerRepository) DeleteSheet(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnswerRepository) CountSheets(ctx context.Context, questionnaireID string) (int, error) {
	args := m.Called(ctx, questionnaireID)
	return args.Int(0), args.Error(1)
}

func (m *MockAnswerRepository) CountSheetsByRespondent(ctx context.Context, questionnaireID, respondentID string) (int, error) {
	args := m.Called(ctx, questionnaireID, respondentID)
	return args.Int(0), args.Error(1)
}

func (m *MockAnswerRepository) CountSheetsByQuestion(ctx context.Context, questionID string) (int, error) {
	args := m.Called(ctx, questionID)
	return args.Int(0), args.Error(1)
}

func (m *MockAnswerRepository) CountSheetsByOption(ctx context.Context, optionID string) (int, error) {
	args := m.Called(ctx, optionID)
	return args.Int(0), args.Error(1)
}
