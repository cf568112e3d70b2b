package handler

import (
	"github.com/gofiber/fiber/v2"

	"surveyapi/internal/http/middleware"
	"surveyapi/internal/service"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Users          service.UserService
	Questionnaires service.QuestionnaireService
	Questions      service.QuestionService
	Options        service.OptionService
	Logic          service.LogicService
	Answers        service.AnswerService
	Reports        service.ReportService
	Exports        service.ExportService
}

// RegisterRoutes attaches the probes and the /api routes to app. Every /api
// request is authenticated when it carries a bearer token; author-only
// routes additionally require one.
func RegisterRoutes(app *fiber.App, db Pinger, tokens middleware.TokenParser, s Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api", middleware.Authenticate(tokens))
	user := middleware.RequireUser()

	api.Post("/token", ObtainToken(s.Users))
	api.Post("/token/refresh", RefreshToken(s.Users))

	api.Post("/user", RegisterUser(s.Users))
	api.Get("/user/:username", GetUser(s.Users))
	api.Patch("/user/:username", user, UpdateUser(s.Users))
	api.Put("/user/:username", user, UpdateUser(s.Users))
	api.Delete("/user/:username", user, DeleteUser(s.Users))
	api.Get("/user/:username/questionnaire", ListUserQuestionnaires(s.Users))
	api.Get("/user/:username/recycle", user, RecycleBin(s.Users))

	// static segments before /:id
	api.Get("/questionnaire", ListQuestionnaires(s.Questionnaires))
	api.Post("/questionnaire", user, CreateQuestionnaire(s.Questionnaires))
	api.Get("/questionnaire/sort", SortQuestionnaires(s.Questionnaires))
	api.Post("/questionnaire/copy", user, CopyQuestionnaire(s.Questionnaires))
	api.Get("/questionnaire/:id", user, GetQuestionnaire(s.Questionnaires))
	api.Patch("/questionnaire/:id", user, UpdateQuestionnaire(s.Questionnaires))
	api.Put("/questionnaire/:id", user, UpdateQuestionnaire(s.Questionnaires))
	api.Delete("/questionnaire/:id", user, DeleteQuestionnaire(s.Questionnaires))
	api.Put("/questionnaire/:id/status", user, SetQuestionnaireStatus(s.Questionnaires))
	api.Get("/questionnaire/:id/fill", FillQuestionnaire(s.Questionnaires))
	api.Put("/questionnaire/:id/question-order", user, ReorderQuestions(s.Questionnaires))
	api.Get("/questionnaire/:id/statistics", GetStatistics(s.Reports))
	api.Post("/questionnaire/:id/cross-table", user, GetCrossTable(s.Reports))
	api.Get("/questionnaire/:id/scores", user, GetExamScores(s.Reports))
	api.Get("/questionnaire/:id/export", user, DownloadExport(s.Exports))
	api.Post("/questionnaire/:id/export", user, PublishExport(s.Exports))

	api.Post("/question", user, CreateQuestions(s.Questions))
	api.Post("/question/copy", user, CopyQuestion(s.Questions))
	api.Get("/question/:id", user, GetQuestion(s.Questions))
	api.Patch("/question/:id", user, UpdateQuestion(s.Questions))
	api.Put("/question/:id", user, UpdateQuestion(s.Questions))
	api.Delete("/question/:id", user, DeleteQuestion(s.Questions))
	api.Put("/question/:id/option-order", user, ReorderOptions(s.Questions))

	api.Post("/option", user, CreateOptions(s.Options))
	api.Get("/option/:id", user, GetOption(s.Options))
	api.Patch("/option/:id", user, UpdateOption(s.Options))
	api.Put("/option/:id", user, UpdateOption(s.Options))
	api.Delete("/option/:id", user, DeleteOption(s.Options))

	api.Get("/answer", user, ListAnswers(s.Answers))
	api.Post("/answer", SubmitAnswer(s.Answers))
	api.Get("/answer/:id", user, GetAnswer(s.Answers))
	api.Delete("/answer/:id", user, DeleteAnswer(s.Answers))

	api.Get("/question_option_logic_relation", user, ListLogicRelations(s.Logic))
	api.Post("/question_option_logic_relation", user, CreateLogicRelation(s.Logic))
	api.Delete("/question_option_logic_relation/:id", user, DeleteLogicRelation(s.Logic))
}
