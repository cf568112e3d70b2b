package mocks

import (
	"context"

	"surveyapi/internal/auth"
	"surveyapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, username, password string) (*model.User, error) {
	return result[*model.User](m.Called(ctx, username, password))
}

func (m *MockUserService) Get(ctx context.Context, username string) (*model.User, error) {
	return result[*model.User](m.Called(ctx, username))
}

func (m *MockUserService) Update(ctx context.Context, actorID, username, password string) (*model.User, error) {
	return result[*model.User](m.Called(ctx, actorID, username, password))
}

func (m *MockUserService) Delete(ctx context.Context, actorID, username string) error {
	return m.Called(ctx, actorID, username).Error(0)
}

func (m *MockUserService) ListQuestionnaires(ctx context.Context, username string) ([]model.QuestionnaireSummary, error) {
	return result[[]model.QuestionnaireSummary](m.Called(ctx, username))
}

func (m *MockUserService) Recycle(ctx context.Context, actorID, username string) ([]model.QuestionnaireSummary, error) {
	return result[[]model.QuestionnaireSummary](m.Called(ctx, actorID, username))
}

func (m *MockUserService) Login(ctx context.Context, username, password string) (*auth.TokenPair, error) {
	return result[*auth.TokenPair](m.Called(ctx, username, password))
}

func (m *MockUserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}
