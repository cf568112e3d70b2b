package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"surveyapi/internal/auth"
	"surveyapi/internal/http/middleware"
	"surveyapi/internal/model"
	"surveyapi/internal/service"
	serviceMocks "surveyapi/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newApp returns an app whose requests are authenticated as userID.
func newApp(userID string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	if userID != "" {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals(middleware.UserIDLocalKey, userID)
			return c.Next()
		})
	}
	return app
}

func jsonRequest(method, target string, body any) *http.Request {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRespondError_Mapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
		msg    string
	}{
		{service.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "resource not found"},
		{fmt.Errorf("%w: title is required", service.ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT", "invalid input: title is required"},
		{service.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "not allowed to access this resource"},
		{service.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required"},
		{fmt.Errorf("%w: Color", service.ErrOptionFull), http.StatusConflict, "OPTION_LIMIT_REACHED", "option answer limit reached: Color"},
		{service.ErrStorageUnavailable, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "object storage is not configured"},
		{errors.New("pq: connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			app := newApp("")
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tt.err) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(middleware.RequestIDHeader, "rid-1")
			resp, _ := app.Test(req)

			assert.Equal(t, tt.status, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, "rid-1", body.RequestID)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.msg, body.Error.Message)
		})
	}
}

func TestListQuestionnaires(t *testing.T) {
	mockSvc := new(serviceMocks.MockQuestionnaireService)
	app := newApp("")
	app.Get("/api/questionnaire", ListQuestionnaires(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &service.QuestionnaireListResult{
			Items: []model.QuestionnaireSummary{{ID: uuid.NewString(), Title: "Lunch"}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, "lun", 5, 10).Return(expected, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/questionnaire?search=lun&limit=5&offset=10", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.QuestionnaireListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/questionnaire?limit=abc", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, "", 10, 0).Return(nil, errors.New("service error")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/questionnaire", nil))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestCreateQuestionnaire(t *testing.T) {
	mockSvc := new(serviceMocks.MockQuestionnaireService)
	app := newApp("u1")
	app.Post("/api/questionnaire", CreateQuestionnaire(mockSvc))

	t.Run("template is passed apart from the fields", func(t *testing.T) {
		in := service.QuestionnaireInput{Title: "Election", Type: model.TypeVote}
		created := &model.QuestionnaireDetail{Questionnaire: model.Questionnaire{ID: uuid.NewString(), Title: "Election"}}
		mockSvc.On("Create", mock.Anything, "u1", in, "vote").Return(created, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/questionnaire", `{"title":"Election","type":"vote","template":"vote"}`))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/questionnaire", `{"title":`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})
}

func TestGetQuestionnaire(t *testing.T) {
	mockSvc := new(serviceMocks.MockQuestionnaireService)
	app := newApp("u1")
	app.Get("/api/questionnaire/:id", GetQuestionnaire(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Get", mock.Anything, "u1", id).Return(&model.QuestionnaireDetail{Questionnaire: model.Questionnaire{ID: id}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/questionnaire/"+id, nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.QuestionnaireDetail
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Get", mock.Anything, "u1", id).Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/questionnaire/"+id, nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/questionnaire/invalid-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})
}

func TestReorderQuestions(t *testing.T) {
	mockSvc := new(serviceMocks.MockQuestionnaireService)
	app := newApp("u1")
	app.Put("/api/questionnaire/:id/question-order", ReorderQuestions(mockSvc))

	id := uuid.NewString()
	order := []string{"b", "a"}
	mockSvc.On("ReorderQuestions", mock.Anything, "u1", id, order).
		Return([]model.Question{{ID: "b", Ordering: 1}, {ID: "a", Ordering: 2}}, nil).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/questionnaire/"+id+"/question-order", map[string]any{"question_list": order}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestCreateQuestions(t *testing.T) {
	mockSvc := new(serviceMocks.MockQuestionService)
	app := newApp("u1")
	app.Post("/api/question", CreateQuestions(mockSvc))
	qnID := uuid.NewString()

	t.Run("single object", func(t *testing.T) {
		in := service.QuestionInput{QuestionnaireID: qnID, Title: "Color", Type: model.QuestionSingleChoice}
		mockSvc.On("Create", mock.Anything, "u1", in).Return(&model.QuestionDetail{Question: model.Question{ID: "q1"}}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/question", in))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.QuestionDetail
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "q1", result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("array", func(t *testing.T) {
		ins := []service.QuestionInput{{QuestionnaireID: qnID, Title: "A"}, {QuestionnaireID: qnID, Title: "B"}}
		mockSvc.On("CreateMany", mock.Anything, "u1", ins).Return([]model.QuestionDetail{{}, {}}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/question", ins))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result []model.QuestionDetail
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result, 2)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty array", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/question", `[]`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})

	t.Run("malformed questionnaire id in array", func(t *testing.T) {
		ins := []service.QuestionInput{{QuestionnaireID: qnID, Title: "A"}, {QuestionnaireID: "qn-2", Title: "B"}}

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/question", ins))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
		mockSvc.AssertNotCalled(t, "CreateMany", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBodyIDs(t *testing.T) {
	questions := new(serviceMocks.MockQuestionService)
	questionnaires := new(serviceMocks.MockQuestionnaireService)
	options := new(serviceMocks.MockOptionService)
	logic := new(serviceMocks.MockLogicService)
	answers := new(serviceMocks.MockAnswerService)

	app := newApp("u1")
	app.Post("/api/question/copy", CopyQuestion(questions))
	app.Post("/api/questionnaire/copy", CopyQuestionnaire(questionnaires))
	app.Post("/api/option", CreateOptions(options))
	app.Post("/api/question_option_logic_relation", CreateLogicRelation(logic))
	app.Post("/api/answer", SubmitAnswer(answers))

	valid := uuid.NewString()
	tests := []struct {
		name    string
		target  string
		body    string
		message string
	}{
		{"copy question", "/api/question/copy", `{"question":"not-a-uuid"}`, "invalid question id format"},
		{"copy questionnaire", "/api/questionnaire/copy", `{"questionnaire":"42"}`, "invalid questionnaire id format"},
		{"option", "/api/option", `{"question":"q1","title":"Red"}`, "invalid question id format"},
		{"logic question", "/api/question_option_logic_relation", `{"question":"q1","option":"` + valid + `"}`, "invalid question id format"},
		{"logic option", "/api/question_option_logic_relation", `{"question":"` + valid + `","option":"o1"}`, "invalid option id format"},
		{"answer sheet", "/api/answer", `{"questionnaire":"qn","answer_detail_list":[]}`, "invalid questionnaire id format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := app.Test(jsonRequest(http.MethodPost, tt.target, tt.body))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			res := decodeError(t, resp)
			assert.Equal(t, "INVALID_ID", res.Error.Code)
			assert.Equal(t, tt.message, res.Error.Message)
		})
	}

	questions.AssertNotCalled(t, "Copy", mock.Anything, mock.Anything, mock.Anything)
	questionnaires.AssertNotCalled(t, "Copy", mock.Anything, mock.Anything, mock.Anything)
	options.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	logic.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	answers.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	t.Run("missing id is left to the service", func(t *testing.T) {
		questions.On("Copy", mock.Anything, "u1", "").Return(nil, service.ErrIDRequired).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/question/copy", `{}`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "ID_REQUIRED", decodeError(t, resp).Error.Code)
		questions.AssertExpectations(t)
	})
}

func TestCreateOptions_Array(t *testing.T) {
	mockSvc := new(serviceMocks.MockOptionService)
	app := newApp("u1")
	app.Post("/api/option", CreateOptions(mockSvc))

	qID := uuid.NewString()
	ins := []service.OptionInput{{QuestionID: qID, Title: "Red"}, {QuestionID: qID, Title: "Blue"}}
	mockSvc.On("CreateMany", mock.Anything, "u1", ins).Return([]model.Option{{ID: "o1"}, {ID: "o2"}}, nil).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/option", ins))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestSubmitAnswer(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnswerService)
	app := newApp("")
	app.Post("/api/answer", SubmitAnswer(mockSvc))

	qnID := uuid.NewString()
	body := `{"questionnaire":"` + qnID + `","answer_detail_list":[{"question":"q1","option":"o1"}]}`
	matchInput := mock.MatchedBy(func(in service.SubmitInput) bool {
		return in.QuestionnaireID == qnID && len(in.Answers) == 1 && in.Answers[0].OptionID == "o1"
	})

	t.Run("anonymous sheet is stored", func(t *testing.T) {
		mockSvc.On("Submit", mock.Anything, "", mock.AnythingOfType("string"), matchInput).
			Return(&model.AnswerSheetDetail{AnswerSheet: model.AnswerSheet{ID: "s1"}}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/answer", body))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("limit reached", func(t *testing.T) {
		mockSvc.On("Submit", mock.Anything, "", mock.Anything, matchInput).
			Return(nil, fmt.Errorf("%w: Lunch slot", service.ErrOptionFull)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/answer", body))
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "OPTION_LIMIT_REACHED", res.Error.Code)
		assert.Contains(t, res.Error.Message, "Lunch slot")
	})

	t.Run("closed questionnaire", func(t *testing.T) {
		mockSvc.On("Submit", mock.Anything, "", mock.Anything, matchInput).Return(nil, service.ErrNotAccepting).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/answer", body))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "NOT_ACCEPTING", decodeError(t, resp).Error.Code)
	})
}

func TestListAnswers_RequiresQuestionnaire(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnswerService)
	app := newApp("u1")
	app.Get("/api/answer", ListAnswers(mockSvc))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/answer", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ID_REQUIRED", decodeError(t, resp).Error.Code)

	qid := uuid.NewString()
	mockSvc.On("List", mock.Anything, "u1", qid, 10, 0).Return(&service.AnswerListResult{Total: 0}, nil).Once()
	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/api/answer?questionnaire="+qid, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestDownloadExport(t *testing.T) {
	mockSvc := new(serviceMocks.MockExportService)
	app := newApp("u1")
	app.Get("/api/questionnaire/:id/export", DownloadExport(mockSvc))
	app.Post("/api/questionnaire/:id/export", PublishExport(mockSvc))

	id := uuid.NewString()

	t.Run("download", func(t *testing.T) {
		mockSvc.On("Workbook", mock.Anything, "u1", id).Return(&service.Workbook{
			Filename:    "questionnaire-" + id + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        []byte("PK-data"),
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/questionnaire/"+id+"/export", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "questionnaire-"+id+".xlsx")
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "PK-data", string(data))
	})

	t.Run("publish without storage", func(t *testing.T) {
		mockSvc.On("Publish", mock.Anything, "u1", id).Return(nil, service.ErrStorageUnavailable).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api/questionnaire/"+id+"/export", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "STORAGE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
	mockSvc.AssertExpectations(t)
}

func TestObtainToken(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)
	app := newApp("")
	app.Post("/api/token", ObtainToken(mockSvc))

	mockSvc.On("Login", mock.Anything, "alice", "secret").Return(&auth.TokenPair{Access: "a", Refresh: "r"}, nil).Once()
	resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/token", credentialsRequest{Username: "alice", Password: "secret"}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var pair auth.TokenPair
	json.NewDecoder(resp.Body).Decode(&pair)
	assert.Equal(t, "a", pair.Access)

	mockSvc.On("Login", mock.Anything, "alice", "nope").Return(nil, service.ErrInvalidCredentials).Once()
	resp, _ = app.Test(jsonRequest(http.MethodPost, "/api/token", credentialsRequest{Username: "alice", Password: "nope"}))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp).Error.Code)
	mockSvc.AssertExpectations(t)
}

func newRoutedApp(t *testing.T) (*fiber.App, *serviceMocks.MockQuestionnaireService, *auth.Issuer) {
	t.Helper()
	qs := new(serviceMocks.MockQuestionnaireService)
	issuer := auth.NewIssuer("test-secret", time.Minute, time.Hour)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, nil, issuer, Services{
		Users:          new(serviceMocks.MockUserService),
		Questionnaires: qs,
		Questions:      new(serviceMocks.MockQuestionService),
		Options:        new(serviceMocks.MockOptionService),
		Logic:          new(serviceMocks.MockLogicService),
		Answers:        new(serviceMocks.MockAnswerService),
		Reports:        new(serviceMocks.MockReportService),
		Exports:        new(serviceMocks.MockExportService),
	})
	return app, qs, issuer
}

func TestRouting(t *testing.T) {
	app, qs, issuer := newRoutedApp(t)

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("author routes need a token", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/questionnaire/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
	})

	t.Run("bearer token identifies the author", func(t *testing.T) {
		pair, err := issuer.Issue("u1", "alice")
		require.NoError(t, err)
		id := uuid.NewString()
		qs.On("Get", mock.Anything, "u1", id).Return(&model.QuestionnaireDetail{Questionnaire: model.Questionnaire{ID: id}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/questionnaire/"+id, nil)
		req.Header.Set("Authorization", "Bearer "+pair.Access)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		qs.AssertExpectations(t)
	})

	t.Run("sort is not mistaken for an id", func(t *testing.T) {
		qs.On("Sort", mock.Anything, "-answer_num", 10, 0).Return(&service.QuestionnaireListResult{}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/questionnaire/sort?keyword=-answer_num", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		qs.AssertExpectations(t)
	})
}
