package mocks

import (
	"context"

	"surveyapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Statistics(ctx context.Context, actorID, questionnaireID string) (*service.Statistics, error) {
	return result[*service.Statistics](m.Called(ctx, actorID, questionnaireID))
}

func (m *MockReportService) CrossTable(ctx context.Context, actorID, questionnaireID string, in service.CrossTableInput) ([]service.CrossTable, error) {
	return result[[]service.CrossTable](m.Called(ctx, actorID, questionnaireID, in))
}

func (m *MockReportService) ExamScores(ctx context.Context, actorID, questionnaireID string) (*service.ExamReport, error) {
	return result[*service.ExamReport](m.Called(ctx, actorID, questionnaireID))
}

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Workbook(ctx context.Context, actorID, questionnaireID string) (*service.Workbook, error) {
	return result[*service.Workbook](m.Called(ctx, actorID, questionnaireID))
}

func (m *MockExportService) Publish(ctx context.Context, actorID, questionnaireID string) (*service.PublishedExport, error) {
	return result[*service.PublishedExport](m.Called(ctx, actorID, questionnaireID))
}
