package service

import (
	"context"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
)

// allRows is the page size used when a caller needs an unpaginated list.
const allRows = 1 << 30

// ownedQuestionnaire loads questionnaire id and requires actorID to be its author.
func ownedQuestionnaire(ctx context.Context, repo repository.QuestionnaireRepository, id, actorID string) (*model.Questionnaire, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	qn, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if qn.AuthorID != actorID {
		return nil, ErrForbidden
	}
	return qn, nil
}

// lockOwnedQuestionnaire is ownedQuestionnaire with a row lock; ctx must carry a transaction.
func lockOwnedQuestionnaire(ctx context.Context, repo repository.QuestionnaireRepository, id, actorID string) (*model.Questionnaire, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	qn, err := repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if qn.AuthorID != actorID {
		return nil, ErrForbidden
	}
	return qn, nil
}

// ownedQuestion loads question id and checks its questionnaire belongs to actorID.
func ownedQuestion(ctx context.Context, questionnaires repository.QuestionnaireRepository, questions repository.QuestionRepository, id, actorID string) (*model.Question, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	q, err := questions.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if _, err := ownedQuestionnaire(ctx, questionnaires, q.QuestionnaireID, actorID); err != nil {
		return nil, err
	}
	return q, nil
}

// questionDetails groups options under their questions, preserving question order.
func questionDetails(questions []model.Question, options []model.Option) []model.QuestionDetail {
	byQuestion := make(map[string][]model.Option, len(questions))
	for _, o := range options {
		byQuestion[o.QuestionID] = append(byQuestion[o.QuestionID], o)
	}
	out := make([]model.QuestionDetail, 0, len(questions))
	for _, q := range questions {
		opts := byQuestion[q.ID]
		if opts == nil {
			opts = []model.Option{}
		}
		out = append(out, model.QuestionDetail{Question: q, Options: opts})
	}
	return out
}
