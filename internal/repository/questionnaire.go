package repository

import (
	"context"

	"surveyapi/internal/model"
)

// QuestionnaireSort names a whitelisted ordering for questionnaire lists.
type QuestionnaireSort string

const (
	SortCreateDateDesc     QuestionnaireSort = "-create_date"
	SortCreateDateAsc      QuestionnaireSort = "create_date"
	SortLastSharedDateDesc QuestionnaireSort = "-last_shared_date"
	SortLastSharedDateAsc  QuestionnaireSort = "last_shared_date"
	SortAnswerNumDesc      QuestionnaireSort = "-answer_num"
	SortAnswerNumAsc       QuestionnaireSort = "answer_num"
)

// ParseQuestionnaireSort validates a client supplied sort keyword.
func ParseQuestionnaireSort(keyword string) (QuestionnaireSort, bool) {
	switch s := QuestionnaireSort(keyword); s {
	case SortCreateDateDesc, SortCreateDateAsc,
		SortLastSharedDateDesc, SortLastSharedDateAsc,
		SortAnswerNumDesc, SortAnswerNumAsc:
		return s, true
	}
	return "", false
}

// QuestionnaireFilter narrows questionnaire lists. Zero values disable a condition.
type QuestionnaireFilter struct {
	Search        string
	AuthorID      string
	Status        model.QuestionnaireStatus
	ExcludeStatus model.QuestionnaireStatus
	Sort          QuestionnaireSort
}

// QuestionnaireRepository persists questionnaires. Reads fill AnswerNum.
type QuestionnaireRepository interface {
	Create(ctx context.Context, q *model.Questionnaire) (*model.Questionnaire, error)
	FindByID(ctx context.Context, id string) (*model.Questionnaire, error)

	// FindByIDForUpdate reads the row and locks it until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*model.Questionnaire, error)

	List(ctx context.Context, f QuestionnaireFilter, pq PageQuery) (*PageResult[model.QuestionnaireSummary], error)
	Update(ctx context.Context, q *model.Questionnaire) (*model.Questionnaire, error)
	Delete(ctx context.Context, id string) error
}
