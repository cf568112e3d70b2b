package service

import (
	"context"

	"github.com/google/uuid"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
)

// LogicService manages conditional display links between options and later questions.
type LogicService interface {
	// Create links questionID to optionID. The option must belong to an earlier
	// question of the same questionnaire.
	Create(ctx context.Context, actorID, questionID, optionID string) (*model.LogicRelation, error)
	List(ctx context.Context, actorID, questionnaireID string) ([]model.LogicRelation, error)
	Delete(ctx context.Context, actorID, id string) error
}

type logicService struct {
	questionnaires repository.QuestionnaireRepository
	questions      repository.QuestionRepository
	options        repository.OptionRepository
	logic          repository.LogicRelationRepository
}

func NewLogicService(
	questionnaires repository.QuestionnaireRepository,
	questions repository.QuestionRepository,
	options repository.OptionRepository,
	logic repository.LogicRelationRepository,
) LogicService {
	return &logicService{questionnaires: questionnaires, questions: questions, options: options, logic: logic}
}

func (s *logicService) Create(ctx context.Context, actorID, questionID, optionID string) (*model.LogicRelation, error) {
	if optionID == "" {
		return nil, ErrIDRequired
	}
	target, err := ownedQuestion(ctx, s.questionnaires, s.questions, questionID, actorID)
	if err != nil {
		return nil, err
	}
	opt, err := s.options.FindByID(ctx, optionID)
	if err != nil {
		return nil, notFound(err)
	}
	if opt.QuestionID == target.ID {
		return nil, invalidf("an option cannot control its own question")
	}
	source, err := s.questions.FindByID(ctx, opt.QuestionID)
	if err != nil {
		return nil, notFound(err)
	}
	if source.QuestionnaireID != target.QuestionnaireID {
		return nil, invalidf("question and option belong to different questionnaires")
	}
	if source.Ordering >= target.Ordering {
		return nil, invalidf("the option's question must come before the controlled question")
	}
	lr, err := s.logic.Create(ctx, &model.LogicRelation{
		ID:         uuid.New().String(),
		QuestionID: target.ID,
		OptionID:   opt.ID,
	})
	if err != nil {
		return nil, conflict(err)
	}
	return lr, nil
}

func (s *logicService) List(ctx context.Context, actorID, questionnaireID string) ([]model.LogicRelation, error) {
	if _, err := ownedQuestionnaire(ctx, s.questionnaires, questionnaireID, actorID); err != nil {
		return nil, err
	}
	return s.logic.ListByQuestionnaire(ctx, questionnaireID)
}

func (s *logicService) Delete(ctx context.Context, actorID, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	lr, err := s.logic.FindByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if _, err := ownedQuestion(ctx, s.questionnaires, s.questions, lr.QuestionID, actorID); err != nil {
		return err
	}
	return s.logic.Delete(ctx, id)
}
