package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
)

// AnswerInput is one chosen option, with fill-in text for completion questions.
type AnswerInput struct {
	QuestionID string  `json:"question"`
	OptionID   string  `json:"option"`
	Content    *string `json:"content"`
}

// SubmitInput is a respondent's answer sheet.
type SubmitInput struct {
	QuestionnaireID string        `json:"questionnaire"`
	Password        string        `json:"password"`
	StartedTime     *time.Time    `json:"started_time"`
	Answers         []AnswerInput `json:"answer_detail_list"`
}

// AnswerListResult is the service-level DTO for paginated answer sheets.
type AnswerListResult struct {
	Items []model.AnswerSheet `json:"data"`
	Total int                 `json:"total"`
}

// AnswerService collects and exposes answer sheets.
type AnswerService interface {
	// Submit validates and stores a sheet in one transaction that holds the
	// questionnaire row lock, so answer limits cannot be overrun.
	Submit(ctx context.Context, actorID, ip string, in SubmitInput) (*model.AnswerSheetDetail, error)

	List(ctx context.Context, actorID, questionnaireID string, limit, offset int) (*AnswerListResult, error)

	// Get is allowed to the questionnaire's author and to the respondent.
	Get(ctx context.Context, actorID, id string) (*model.AnswerSheetDetail, error)

	Delete(ctx context.Context, actorID, id string) error
}

type answerService struct {
	tx             repository.Transactor
	questionnaires repository.QuestionnaireRepository
	questions      repository.QuestionRepository
	options        repository.OptionRepository
	logic          repository.LogicRelationRepository
	answers        repository.AnswerRepository
	metrics        *Metrics
	now            func() time.Time
}

func NewAnswerService(
	tx repository.Transactor,
	questionnaires repository.QuestionnaireRepository,
	questions repository.QuestionRepository,
	options repository.OptionRepository,
	logic repository.LogicRelationRepository,
	answers repository.AnswerRepository,
	metrics *Metrics,
) AnswerService {
	return &answerService{
		tx:             tx,
		questionnaires: questionnaires,
		questions:      questions,
		options:        options,
		logic:          logic,
		answers:        answers,
		metrics:        metrics,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *answerService) Submit(ctx context.Context, actorID, ip string, in SubmitInput) (*model.AnswerSheetDetail, error) {
	out, err := s.submit(ctx, actorID, ip, in)
	s.metrics.observeSubmission(err)
	return out, err
}

func (s *answerService) submit(ctx context.Context, actorID, ip string, in SubmitInput) (*model.AnswerSheetDetail, error) {
	if in.QuestionnaireID == "" {
		return nil, ErrIDRequired
	}
	var out *model.AnswerSheetDetail
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		qn, err := s.questionnaires.FindByIDForUpdate(ctx, in.QuestionnaireID)
		if err != nil {
			return notFound(err)
		}
		if err := checkFillAccess(qn, actorID, in.Password); err != nil {
			return err
		}
		if qn.IsOnlyAnswerOnce && actorID != "" {
			n, err := s.answers.CountSheetsByRespondent(ctx, qn.ID, actorID)
			if err != nil {
				return err
			}
			if n > 0 {
				return ErrAlreadyAnswered
			}
		}
		if qn.IsLimitAnswer {
			n, err := s.answers.CountSheets(ctx, qn.ID)
			if err != nil {
				return err
			}
			if n >= qn.LimitAnswerNumber {
				return ErrAnswerLimit
			}
		}

		questions, err := s.questions.ListByQuestionnaire(ctx, qn.ID)
		if err != nil {
			return err
		}
		options, err := s.options.ListByQuestionnaire(ctx, qn.ID)
		if err != nil {
			return err
		}
		rels, err := s.logic.ListByQuestionnaire(ctx, qn.ID)
		if err != nil {
			return err
		}
		if err := validateSubmission(questions, options, rels, in.Answers); err != nil {
			return err
		}
		if err := s.checkLimits(ctx, questions, options, in.Answers); err != nil {
			return err
		}

		now := s.now()
		started := now
		if in.StartedTime != nil && !in.StartedTime.After(now) {
			started = in.StartedTime.UTC()
		}
		sheet := &model.AnswerSheet{
			ID:              uuid.New().String(),
			QuestionnaireID: qn.ID,
			StartedTime:     started,
			ModifiedTime:    now,
			IP:              ip,
		}
		if actorID != "" {
			sheet.RespondentID = &actorID
		}
		stored, err := s.answers.CreateSheet(ctx, sheet)
		if err != nil {
			return actorGone(err)
		}

		details := make([]model.AnswerDetail, 0, len(in.Answers))
		for _, a := range in.Answers {
			details = append(details, model.AnswerDetail{
				ID:         uuid.New().String(),
				SheetID:    stored.ID,
				QuestionID: a.QuestionID,
				OptionID:   a.OptionID,
				Content:    a.Content,
			})
		}
		if err := s.answers.CreateDetails(ctx, details); err != nil {
			return err
		}
		out = &model.AnswerSheetDetail{AnswerSheet: *stored, Details: details}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// checkLimits locks every answered question and chosen option that carries an
// answer limit, then counts the sheets already holding it. Locks follow ordering.
func (s *answerService) checkLimits(ctx context.Context, questions []model.Question, options []model.Option, answers []AnswerInput) error {
	answeredQ := make(map[string]bool, len(answers))
	chosenO := make(map[string]bool, len(answers))
	for _, a := range answers {
		answeredQ[a.QuestionID] = true
		chosenO[a.OptionID] = true
	}
	for _, q := range questions {
		if !q.IsLimitAnswer || !answeredQ[q.ID] {
			continue
		}
		if err := s.questions.Lock(ctx, q.ID); err != nil {
			return notFound(err)
		}
		n, err := s.answers.CountSheetsByQuestion(ctx, q.ID)
		if err != nil {
			return err
		}
		if n >= q.LimitAnswerNumber {
			return fmt.Errorf("%w: %s", ErrQuestionFull, q.Title)
		}
	}
	for _, o := range options {
		if !o.IsLimitAnswer || !chosenO[o.ID] {
			continue
		}
		if err := s.options.Lock(ctx, o.ID); err != nil {
			return notFound(err)
		}
		n, err := s.answers.CountSheetsByOption(ctx, o.ID)
		if err != nil {
			return err
		}
		if n >= o.LimitAnswerNumber {
			return fmt.Errorf("%w: %s", ErrOptionFull, o.Title)
		}
	}
	return nil
}

// visibleQuestions reports, per question, whether its logic conditions hold for
// the selected options. Questions without relations are always visible.
func visibleQuestions(questions []model.Question, rels []model.LogicRelation, selected map[string]bool) map[string]bool {
	conditions := make(map[string][]string)
	for _, r := range rels {
		conditions[r.QuestionID] = append(conditions[r.QuestionID], r.OptionID)
	}
	visible := make(map[string]bool, len(questions))
	for _, q := range questions {
		opts, ok := conditions[q.ID]
		if !ok {
			visible[q.ID] = true
			continue
		}
		for _, o := range opts {
			if selected[o] {
				visible[q.ID] = true
				break
			}
		}
	}
	return visible
}

// validateSubmission checks answers against the questionnaire's structure
// without touching storage.
func validateSubmission(questions []model.Question, options []model.Option, rels []model.LogicRelation, answers []AnswerInput) error {
	if len(answers) == 0 {
		return invalidf("at least one answer is required")
	}
	qByID := make(map[string]*model.Question, len(questions))
	for i := range questions {
		qByID[questions[i].ID] = &questions[i]
	}
	oByID := make(map[string]*model.Option, len(options))
	for i := range options {
		oByID[options[i].ID] = &options[i]
	}

	selected := make(map[string]bool, len(answers))
	perQuestion := make(map[string]int)
	content := make(map[string]string, len(answers))
	for _, a := range answers {
		q, ok := qByID[a.QuestionID]
		if !ok {
			return invalidf("question %q is not part of this questionnaire", a.QuestionID)
		}
		o, ok := oByID[a.OptionID]
		if !ok || o.QuestionID != q.ID {
			return invalidf("option %q does not belong to question %q", a.OptionID, q.Title)
		}
		if selected[o.ID] {
			return invalidf("option %q answered twice", o.Title)
		}
		selected[o.ID] = true
		perQuestion[q.ID]++
		if q.Type.SingleSelect() && perQuestion[q.ID] > 1 {
			return invalidf("question %q accepts a single option", q.Title)
		}

		var text string
		if a.Content != nil {
			text = *a.Content
		}
		content[o.ID] = text
		if o.IsAttrLimit && o.ValidatorRegex != "" {
			re, err := regexp.Compile(o.ValidatorRegex)
			if err != nil {
				return fmt.Errorf("option %s has a broken validator: %w", o.ID, err)
			}
			if !re.MatchString(text) {
				return invalidf("answer to %q does not match the required format", o.Title)
			}
		}
	}

	visible := visibleQuestions(questions, rels, selected)
	for _, q := range questions {
		if q.IsMustAnswer && visible[q.ID] && perQuestion[q.ID] == 0 {
			return invalidf("question %q must be answered", q.Title)
		}
	}
	for _, o := range options {
		if !o.IsMustAnswer || !visible[o.QuestionID] {
			continue
		}
		q := qByID[o.QuestionID]
		if !selected[o.ID] {
			return invalidf("option %q of question %q must be answered", o.Title, q.Title)
		}
		if q.Type == model.QuestionCompletion && strings.TrimSpace(content[o.ID]) == "" {
			return invalidf("blank %q of question %q must be filled in", o.Title, q.Title)
		}
	}
	return nil
}

func (s *answerService) List(ctx context.Context, actorID, questionnaireID string, limit, offset int) (*AnswerListResult, error) {
	if _, err := ownedQuestionnaire(ctx, s.questionnaires, questionnaireID, actorID); err != nil {
		return nil, err
	}
	limit, offset = normalizePage(limit, offset)
	res, err := s.answers.ListSheets(ctx, questionnaireID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &AnswerListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *answerService) Get(ctx context.Context, actorID, id string) (*model.AnswerSheetDetail, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	sheet, err := s.answers.FindSheet(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if sheet.RespondentID == nil || *sheet.RespondentID != actorID {
		if _, err := ownedQuestionnaire(ctx, s.questionnaires, sheet.QuestionnaireID, actorID); err != nil {
			return nil, err
		}
	}
	details, err := s.answers.ListDetailsBySheet(ctx, sheet.ID)
	if err != nil {
		return nil, err
	}
	return &model.AnswerSheetDetail{AnswerSheet: *sheet, Details: details}, nil
}

func (s *answerService) Delete(ctx context.Context, actorID, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	sheet, err := s.answers.FindSheet(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if _, err := ownedQuestionnaire(ctx, s.questionnaires, sheet.QuestionnaireID, actorID); err != nil {
		return err
	}
	return s.answers.DeleteSheet(ctx, id)
}
