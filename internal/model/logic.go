package model

// LogicRelation shows QuestionID only when OptionID has been chosen.
type LogicRelation struct {
	ID         string `json:"id"`
	QuestionID string `json:"question"`
	OptionID   string `json:"option"`
}
