package service

import (
	"time"

	"github.com/stretchr/testify/mock"

	repoMocks "surveyapi/internal/repository/mocks"

	"surveyapi/internal/model"
)

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	tx             *repoMocks.MockTransactor
	users          *repoMocks.MockUserRepository
	questionnaires *repoMocks.MockQuestionnaireRepository
	questions      *repoMocks.MockQuestionRepository
	options        *repoMocks.MockOptionRepository
	logic          *repoMocks.MockLogicRelationRepository
	answers        *repoMocks.MockAnswerRepository
}

func newFixture() *fixture {
	return &fixture{
		tx:             &repoMocks.MockTransactor{},
		users:          new(repoMocks.MockUserRepository),
		questionnaires: new(repoMocks.MockQuestionnaireRepository),
		questions:      new(repoMocks.MockQuestionRepository),
		options:        new(repoMocks.MockOptionRepository),
		logic:          new(repoMocks.MockLogicRelationRepository),
		answers:        new(repoMocks.MockAnswerRepository),
	}
}

func (f *fixture) assertExpectations(t mock.TestingT) {
	f.users.AssertExpectations(t)
	f.questionnaires.AssertExpectations(t)
	f.questions.AssertExpectations(t)
	f.options.AssertExpectations(t)
	f.logic.AssertExpectations(t)
	f.answers.AssertExpectations(t)
}

func ptr[T any](v T) *T { return &v }

func sharedQuestionnaire(id, author string) *model.Questionnaire {
	return &model.Questionnaire{
		ID:        id,
		Title:     "Lunch survey",
		AuthorID:  author,
		Status:    model.StatusShared,
		Type:      model.TypeNormal,
		OrderType: model.OrderSequential,
	}
}
