package model

import "time"

// QuestionType is the answering mode of a question.
type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "single-choice"
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionCompletion     QuestionType = "completion"
	QuestionScoring        QuestionType = "scoring"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionSingleChoice, QuestionMultipleChoice, QuestionCompletion, QuestionScoring:
		return true
	}
	return false
}

// SingleSelect reports whether at most one option may be chosen.
func (t QuestionType) SingleSelect() bool {
	return t == QuestionSingleChoice || t == QuestionScoring
}

// Question belongs to a questionnaire; Ordering is dense within it, starting at 1.
type Question struct {
	ID                string       `json:"id"`
	QuestionnaireID   string       `json:"questionnaire"`
	Title             string       `json:"title"`
	Content           string       `json:"content"`
	Type              QuestionType `json:"type"`
	OrderType         OrderType    `json:"order_type"`
	ModifyDate        time.Time    `json:"modify_date"`
	Ordering          int          `json:"ordering"`
	IsMustAnswer      bool         `json:"is_must_answer"`
	IsLimitAnswer     bool         `json:"is_limit_answer"`
	LimitAnswerNumber int          `json:"limit_answer_number"`
	IsScoring         bool         `json:"is_scoring"`
	QuestionScore     *int         `json:"question_score"`
	Answer            string       `json:"answer"`
}

// QuestionDetail is a question with its ordered options.
type QuestionDetail struct {
	Question
	Options []Option `json:"option_list"`
}
