package model

// Option belongs to a question; Ordering is dense within it, starting at 1.
type Option struct {
	ID                string   `json:"id"`
	QuestionID        string   `json:"question"`
	Title             string   `json:"title"`
	Content           string   `json:"content"`
	Ordering          int      `json:"ordering"`
	IsLimitAnswer     bool     `json:"is_limit_answer"`
	LimitAnswerNumber int      `json:"limit_answer_number"`
	IsAnswerChoice    bool     `json:"is_answer_choice"`
	Score             *float64 `json:"score"`
	Answer            string   `json:"answer"`
	IsAttrLimit       bool     `json:"is_attr_limit"`
	AttrLimitType     string   `json:"attr_limit_type"`
	ValidatorRegex    string   `json:"validator_regex"`
	IsMustAnswer      bool     `json:"is_must_answer"`
}
