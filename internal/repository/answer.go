package repository

import (
	"context"

	"surveyapi/internal/model"
)

// AnswerRepository persists answer sheets and their details.
type AnswerRepository interface {
	CreateSheet(ctx context.Context, s *model.AnswerSheet) (*model.AnswerSheet, error)
	CreateDetails(ctx context.Context, details []model.AnswerDetail) error
	FindSheet(ctx context.Context, id string) (*model.AnswerSheet, error)
	ListSheets(ctx context.Context, questionnaireID string, pq PageQuery) (*PageResult[model.AnswerSheet], error)

	// ListAllSheets returns every sheet of the questionnaire, oldest first.
	ListAllSheets(ctx context.Context, questionnaireID string) ([]model.AnswerSheet, error)

	ListDetailsBySheet(ctx context.Context, sheetID string) ([]model.AnswerDetail, error)
	ListDetailsByQuestionnaire(ctx context.Context, questionnaireID string) ([]model.AnswerDetail, error)
	DeleteSheet(ctx context.Context, id string) error

	CountSheets(ctx context.Context, questionnaireID string) (int, error)
	CountSheetsByRespondent(ctx context.Context, questionnaireID, respondentID string) (int, error)

	// CountSheetsByQuestion counts distinct sheets holding at least one detail for the question.
	CountSheetsByQuestion(ctx context.Context, questionID string) (int, error)

	// CountSheetsByOption counts distinct sheets that chose the option.
	CountSheetsByOption(ctx context.Context, optionID string) (int, error)
}
