package service

import "surveyapi/internal/model"

// Template names accepted by QuestionnaireService.Create.
const (
	TemplateVote            = "vote"
	TemplateSignup          = "signup"
	TemplateExam            = "exam"
	TemplateEpidemicCheckIn = "epidemic_check_in"
)

type templateQuestion struct {
	title   string
	kind    model.QuestionType
	options []string
}

type questionnaireTemplate struct {
	kind      model.QuestionnaireType
	questions []templateQuestion
}

var templates = map[string]questionnaireTemplate{
	TemplateVote: {
		kind: model.TypeVote,
		questions: []templateQuestion{
			{title: "Vote", kind: model.QuestionSingleChoice, options: []string{"First option", "Second option"}},
		},
	},
	TemplateSignup: {
		kind: model.TypeSignup,
		questions: []templateQuestion{
			{title: "Name", kind: model.QuestionCompletion},
			{title: "Phone number", kind: model.QuestionCompletion},
			{title: "Sign-up choice", kind: model.QuestionSingleChoice, options: []string{"First option", "Second option"}},
		},
	},
	TemplateExam: {
		kind: model.TypeExam,
		questions: []templateQuestion{
			{title: "Name", kind: model.QuestionCompletion},
			{title: "Student number", kind: model.QuestionCompletion},
		},
	},
	TemplateEpidemicCheckIn: {
		kind: model.TypeNormal,
		questions: []templateQuestion{
			{title: "Name", kind: model.QuestionCompletion},
			{title: "Student number", kind: model.QuestionCompletion},
			{title: "Body temperature", kind: model.QuestionSingleChoice, options: []string{
				"Normal (37.2 or below)", "37.3-38", "38.1-38.5", "38.6-39", "39.1-40",
			}},
			{title: "Visited a high-risk area", kind: model.QuestionSingleChoice, options: []string{"No", "Yes"}},
			{title: "Has symptoms", kind: model.QuestionSingleChoice, options: []string{"No", "Yes"}},
		},
	},
}

// blankTitle is the title of the fill-in option every completion question starts with.
const blankTitle = "Blank"
