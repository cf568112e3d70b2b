package mocks

import (
	"context"

	"surveyapi/internal/model"
	"surveyapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockOptionService struct {
	mock.Mock
}

func (m *MockOptionService) Create(ctx context.Context, actorID string, in service.OptionInput) (*model.Option, error) {
	return result[*model.Option](m.Called(ctx, actorID, in))
}

func (m *MockOptionService) CreateMany(ctx context.Context, actorID string, ins []service.OptionInput) ([]model.Option, error) {
	return result[[]model.Option](m.Called(ctx, actorID, ins))
}

func (m *MockOptionService) Get(ctx context.Context, actorID, id string) (*model.Option, error) {
	return result[*model.Option](m.Called(ctx, actorID, id))
}

func (m *MockOptionService) Update(ctx context.Context, actorID, id string, p service.OptionPatch) (*model.Option, error) {
	return result[*model.Option](m.Called(ctx, actorID, id, p))
}

func (m *MockOptionService) Delete(ctx context.Context, actorID, id string) error {
	return m.Called(ctx, actorID, id).Error(0)
}
