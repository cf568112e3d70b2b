package model

import "time"

// AnswerSheet is one respondent's submission to a questionnaire.
type AnswerSheet struct {
	ID              string    `json:"id"`
	QuestionnaireID string    `json:"questionnaire"`
	RespondentID    *string   `json:"respondent"`
	StartedTime     time.Time `json:"started_time"`
	ModifiedTime    time.Time `json:"modified_time"`
	IP              string    `json:"ip"`
}

// AnswerDetail records one chosen option (and fill-in text) within a sheet.
type AnswerDetail struct {
	ID         string  `json:"id"`
	SheetID    string  `json:"sheet"`
	QuestionID string  `json:"question"`
	OptionID   string  `json:"option"`
	Content    *string `json:"content"`
}

// AnswerSheetDetail is a sheet together with its details.
type AnswerSheetDetail struct {
	AnswerSheet
	Details []AnswerDetail `json:"answer_detail_list"`
}
