package model

import "time"

// QuestionnaireStatus is the publication state of a questionnaire.
type QuestionnaireStatus string

const (
	StatusClosed  QuestionnaireStatus = "closed"
	StatusShared  QuestionnaireStatus = "shared"
	StatusDeleted QuestionnaireStatus = "deleted"
)

func (s QuestionnaireStatus) Valid() bool {
	switch s {
	case StatusClosed, StatusShared, StatusDeleted:
		return true
	}
	return false
}

// QuestionnaireType selects the purpose of a questionnaire.
type QuestionnaireType string

const (
	TypeNormal QuestionnaireType = "normal"
	TypeVote   QuestionnaireType = "vote"
	TypeExam   QuestionnaireType = "exam"
	TypeSignup QuestionnaireType = "signup"
)

func (t QuestionnaireType) Valid() bool {
	switch t {
	case TypeNormal, TypeVote, TypeExam, TypeSignup:
		return true
	}
	return false
}

// OrderType controls whether children are displayed by ordering or shuffled.
type OrderType string

const (
	OrderSequential OrderType = "order"
	OrderShuffled   OrderType = "disorder"
)

func (o OrderType) Valid() bool {
	return o == OrderSequential || o == OrderShuffled
}

// Questionnaire is a survey owned by its author.
type Questionnaire struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Content           string              `json:"content"`
	AuthorID          string              `json:"author"`
	CreateDate        time.Time           `json:"create_date"`
	FirstSharedDate   *time.Time          `json:"first_shared_date"`
	LastSharedDate    *time.Time          `json:"last_shared_date"`
	ModifyDate        time.Time           `json:"modify_date"`
	Status            QuestionnaireStatus `json:"status"`
	Type              QuestionnaireType   `json:"type"`
	IsLocked          bool                `json:"is_locked"`
	Password          string              `json:"password,omitempty"`
	IsRequiredLogin   bool                `json:"is_required_login"`
	IsOnlyAnswerOnce  bool                `json:"is_only_answer_once"`
	OrderType         OrderType           `json:"order_type"`
	IsShowResult      bool                `json:"is_show_result"`
	IsLimitAnswer     bool                `json:"is_limit_answer"`
	LimitAnswerNumber int                 `json:"limit_answer_number"`
	AnswerNum         int                 `json:"answer_num"`
}

// QuestionnaireSummary is the list projection of a questionnaire.
type QuestionnaireSummary struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Status         QuestionnaireStatus `json:"status"`
	Type           QuestionnaireType   `json:"type"`
	CreateDate     time.Time           `json:"create_date"`
	LastSharedDate *time.Time          `json:"last_shared_date"`
	AnswerNum      int                 `json:"answer_num"`
}

// QuestionnaireDetail is a questionnaire with its ordered questions.
type QuestionnaireDetail struct {
	Questionnaire
	Questions      []QuestionDetail `json:"question_list"`
	LogicRelations []LogicRelation  `json:"logic_relation_list"`
}
