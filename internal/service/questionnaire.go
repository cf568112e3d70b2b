package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
	"surveyapi/internal/storage"
)

// QuestionnaireInput carries the author-editable fields of a new questionnaire.
type QuestionnaireInput struct {
	Title             string                  `json:"title"`
	Content           string                  `json:"content"`
	Type              model.QuestionnaireType `json:"type"`
	IsLocked          bool                    `json:"is_locked"`
	Password          string                  `json:"password"`
	IsRequiredLogin   bool                    `json:"is_required_login"`
	IsOnlyAnswerOnce  bool                    `json:"is_only_answer_once"`
	OrderType         model.OrderType         `json:"order_type"`
	IsShowResult      bool                    `json:"is_show_result"`
	IsLimitAnswer     bool                    `json:"is_limit_answer"`
	LimitAnswerNumber int                     `json:"limit_answer_number"`
}

// QuestionnairePatch is a partial update; nil fields are left unchanged.
type QuestionnairePatch struct {
	Title             *string                    `json:"title"`
	Content           *string                    `json:"content"`
	Status            *model.QuestionnaireStatus `json:"status"`
	Type              *model.QuestionnaireType   `json:"type"`
	IsLocked          *bool                      `json:"is_locked"`
	Password          *string                    `json:"password"`
	IsRequiredLogin   *bool                      `json:"is_required_login"`
	IsOnlyAnswerOnce  *bool                      `json:"is_only_answer_once"`
	OrderType         *model.OrderType           `json:"order_type"`
	IsShowResult      *bool                      `json:"is_show_result"`
	IsLimitAnswer     *bool                      `json:"is_limit_answer"`
	LimitAnswerNumber *int                       `json:"limit_answer_number"`
}

// QuestionnaireListResult is the service-level DTO for paginated questionnaires.
type QuestionnaireListResult struct {
	Items []model.QuestionnaireSummary `json:"data"`
	Total int                          `json:"total"`
}

// QuestionnaireService defines the authoring use cases of questionnaires.
type QuestionnaireService interface {
	// Create stores a questionnaire authored by actorID, seeded from template when not empty.
	Create(ctx context.Context, actorID string, in QuestionnaireInput, template string) (*model.QuestionnaireDetail, error)

	// List returns questionnaires outside the recycle bin whose title contains search, newest first.
	List(ctx context.Context, search string, limit, offset int) (*QuestionnaireListResult, error)

	// Sort is List ordered by a whitelisted keyword.
	Sort(ctx context.Context, keyword string, limit, offset int) (*QuestionnaireListResult, error)

	Get(ctx context.Context, actorID, id string) (*model.QuestionnaireDetail, error)

	// Fill returns the respondent view of a shared questionnaire.
	Fill(ctx context.Context, actorID, id, password string) (*model.QuestionnaireDetail, error)

	Update(ctx context.Context, actorID, id string, p QuestionnairePatch) (*model.Questionnaire, error)
	Delete(ctx context.Context, actorID, id string) error
	SetStatus(ctx context.Context, actorID, id string, status model.QuestionnaireStatus) (*model.Questionnaire, error)

	// Copy duplicates a questionnaire with its questions, options and logic relations.
	Copy(ctx context.Context, actorID, id string) (*model.QuestionnaireDetail, error)

	// ReorderQuestions renumbers the questions in the order of questionIDs.
	ReorderQuestions(ctx context.Context, actorID, id string, questionIDs []string) ([]model.Question, error)
}

type questionnaireService struct {
	tx             repository.Transactor
	questionnaires repository.QuestionnaireRepository
	questions      repository.QuestionRepository
	options        repository.OptionRepository
	logic          repository.LogicRelationRepository
	store          storage.Storage
	now            func() time.Time
	shuffle        func(n int, swap func(i, j int))
}

func NewQuestionnaireService(
	tx repository.Transactor,
	questionnaires repository.QuestionnaireRepository,
	questions repository.QuestionRepository,
	options repository.OptionRepository,
	logic repository.LogicRelationRepository,
	store storage.Storage,
) QuestionnaireService {
	return &questionnaireService{
		tx:             tx,
		questionnaires: questionnaires,
		questions:      questions,
		options:        options,
		logic:          logic,
		store:          store,
		now:            func() time.Time { return time.Now().UTC() },
		shuffle:        rand.Shuffle,
	}
}

func validateQuestionnaire(q *model.Questionnaire) error {
	q.Title = strings.TrimSpace(q.Title)
	switch {
	case q.Title == "":
		return invalidf("title is required")
	case utf8.RuneCountInString(q.Title) > 255:
		return invalidf("title must be at most 255 characters")
	case !q.Status.Valid():
		return invalidf("unknown status %q", q.Status)
	case !q.Type.Valid():
		return invalidf("unknown type %q", q.Type)
	case !q.OrderType.Valid():
		return invalidf("unknown order_type %q", q.OrderType)
	case q.IsLocked && q.Password == "":
		return invalidf("a locked questionnaire needs a password")
	case q.LimitAnswerNumber < 0:
		return invalidf("limit_answer_number must not be negative")
	}
	return nil
}

func (s *questionnaireService) Create(ctx context.Context, actorID string, in QuestionnaireInput, template string) (*model.QuestionnaireDetail, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	var tpl *questionnaireTemplate
	if template != "" {
		t, ok := templates[template]
		if !ok {
			return nil, invalidf("unknown template %q", template)
		}
		tpl = &t
		if in.Type == "" {
			in.Type = t.kind
		}
	}
	if in.Type == "" {
		in.Type = model.TypeNormal
	}
	if in.OrderType == "" {
		in.OrderType = model.OrderSequential
	}

	now := s.now()
	qn := &model.Questionnaire{
		ID:                uuid.New().String(),
		Title:             in.Title,
		Content:           in.Content,
		AuthorID:          actorID,
		CreateDate:        now,
		ModifyDate:        now,
		Status:            model.StatusClosed,
		Type:              in.Type,
		IsLocked:          in.IsLocked,
		Password:          in.Password,
		IsRequiredLogin:   in.IsRequiredLogin,
		IsOnlyAnswerOnce:  in.IsOnlyAnswerOnce,
		OrderType:         in.OrderType,
		IsShowResult:      in.IsShowResult,
		IsLimitAnswer:     in.IsLimitAnswer,
		LimitAnswerNumber: in.LimitAnswerNumber,
	}
	if err := validateQuestionnaire(qn); err != nil {
		return nil, err
	}

	var out *model.QuestionnaireDetail
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		stored, err := s.questionnaires.Create(ctx, qn)
		if err != nil {
			return actorGone(err)
		}
		if tpl != nil {
			if err := s.seed(ctx, stored.ID, tpl.questions); err != nil {
				return err
			}
		}
		out, err = s.detail(ctx, stored)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// seed appends template questions in order.
func (s *questionnaireService) seed(ctx context.Context, questionnaireID string, items []templateQuestion) error {
	now := s.now()
	for i, item := range items {
		q, err := s.questions.Create(ctx, &model.Question{
			ID:              uuid.New().String(),
			QuestionnaireID: questionnaireID,
			Title:           item.title,
			Type:            item.kind,
			OrderType:       model.OrderSequential,
			ModifyDate:      now,
			Ordering:        i + 1,
		})
		if err != nil {
			return err
		}
		titles := item.options
		if item.kind == model.QuestionCompletion && len(titles) == 0 {
			titles = []string{blankTitle}
		}
		for j, title := range titles {
			if _, err := s.options.Create(ctx, &model.Option{
				ID:         uuid.New().String(),
				QuestionID: q.ID,
				Title:      title,
				Ordering:   j + 1,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// detail loads questions, options and logic relations of qn.
func (s *questionnaireService) detail(ctx context.Context, qn *model.Questionnaire) (*model.QuestionnaireDetail, error) {
	return loadDetail(ctx, s.questions, s.options, s.logic, qn)
}

func loadDetail(
	ctx context.Context,
	questions repository.QuestionRepository,
	options repository.OptionRepository,
	logic repository.LogicRelationRepository,
	qn *model.Questionnaire,
) (*model.QuestionnaireDetail, error) {
	qs, err := questions.ListByQuestionnaire(ctx, qn.ID)
	if err != nil {
		return nil, err
	}
	opts, err := options.ListByQuestionnaire(ctx, qn.ID)
	if err != nil {
		return nil, err
	}
	rels, err := logic.ListByQuestionnaire(ctx, qn.ID)
	if err != nil {
		return nil, err
	}
	return &model.QuestionnaireDetail{
		Questionnaire:  *qn,
		Questions:      questionDetails(qs, opts),
		LogicRelations: rels,
	}, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *questionnaireService) List(ctx context.Context, search string, limit, offset int) (*QuestionnaireListResult, error) {
	limit, offset = normalizePage(limit, offset)
	res, err := s.questionnaires.List(ctx, repository.QuestionnaireFilter{
		Search:        strings.TrimSpace(search),
		ExcludeStatus: model.StatusDeleted,
		Sort:          repository.SortCreateDateDesc,
	}, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &QuestionnaireListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *questionnaireService) Sort(ctx context.Context, keyword string, limit, offset int) (*QuestionnaireListResult, error) {
	sort, ok := repository.ParseQuestionnaireSort(keyword)
	if !ok {
		return nil, invalidf("unsupported sort keyword %q", keyword)
	}
	limit, offset = normalizePage(limit, offset)
	res, err := s.questionnaires.List(ctx, repository.QuestionnaireFilter{
		ExcludeStatus: model.StatusDeleted,
		Sort:          sort,
	}, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &QuestionnaireListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *questionnaireService) Get(ctx context.Context, actorID, id string) (*model.QuestionnaireDetail, error) {
	qn, err := ownedQuestionnaire(ctx, s.questionnaires, id, actorID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, qn)
}

// checkFillAccess applies the sharing, password and login rules a respondent must pass.
func checkFillAccess(qn *model.Questionnaire, actorID, password string) error {
	if qn.Status != model.StatusShared {
		return ErrNotAccepting
	}
	if qn.IsLocked && subtle.ConstantTimeCompare([]byte(qn.Password), []byte(password)) != 1 {
		return ErrWrongPassword
	}
	if qn.IsRequiredLogin && actorID == "" {
		return ErrUnauthenticated
	}
	return nil
}

func (s *questionnaireService) Fill(ctx context.Context, actorID, id, password string) (*model.QuestionnaireDetail, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	qn, err := s.questionnaires.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := checkFillAccess(qn, actorID, password); err != nil {
		return nil, err
	}
	d, err := s.detail(ctx, qn)
	if err != nil {
		return nil, err
	}
	d.Password = ""
	if qn.OrderType == model.OrderShuffled {
		s.shuffle(len(d.Questions), func(i, j int) {
			d.Questions[i], d.Questions[j] = d.Questions[j], d.Questions[i]
		})
	}
	for i := range d.Questions {
		q := &d.Questions[i]
		if q.OrderType == model.OrderShuffled {
			s.shuffle(len(q.Options), func(a, b int) {
				q.Options[a], q.Options[b] = q.Options[b], q.Options[a]
			})
		}
	}
	return d, nil
}

// stampStatus sets status and the share dates that go with it.
func stampStatus(qn *model.Questionnaire, status model.QuestionnaireStatus, now time.Time) {
	qn.Status = status
	if status == model.StatusShared {
		if qn.FirstSharedDate == nil {
			t := now
			qn.FirstSharedDate = &t
		}
		t := now
		qn.LastSharedDate = &t
	}
}

func (s *questionnaireService) Update(ctx context.Context, actorID, id string, p QuestionnairePatch) (*model.Questionnaire, error) {
	var out *model.Questionnaire
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		qn, err := lockOwnedQuestionnaire(ctx, s.questionnaires, id, actorID)
		if err != nil {
			return err
		}
		now := s.now()
		if p.Title != nil {
			qn.Title = *p.Title
		}
		if p.Content != nil {
			qn.Content = *p.Content
		}
		if p.Status != nil && *p.Status != qn.Status {
			stampStatus(qn, *p.Status, now)
		}
		if p.Type != nil {
			qn.Type = *p.Type
		}
		if p.IsLocked != nil {
			qn.IsLocked = *p.IsLocked
		}
		if p.Password != nil {
			qn.Password = *p.Password
		}
		if p.IsRequiredLogin != nil {
			qn.IsRequiredLogin = *p.IsRequiredLogin
		}
		if p.IsOnlyAnswerOnce != nil {
			qn.IsOnlyAnswerOnce = *p.IsOnlyAnswerOnce
		}
		if p.OrderType != nil {
			qn.OrderType = *p.OrderType
		}
		if p.IsShowResult != nil {
			qn.IsShowResult = *p.IsShowResult
		}
		if p.IsLimitAnswer != nil {
			qn.IsLimitAnswer = *p.IsLimitAnswer
		}
		if p.LimitAnswerNumber != nil {
			qn.LimitAnswerNumber = *p.LimitAnswerNumber
		}
		qn.ModifyDate = now
		if err := validateQuestionnaire(qn); err != nil {
			return err
		}
		out, err = s.questionnaires.Update(ctx, qn)
		return notFound(err)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *questionnaireService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := ownedQuestionnaire(ctx, s.questionnaires, id, actorID); err != nil {
		return err
	}
	// The published workbook goes first; on failure the row stays so a retry can find it.
	if s.store != nil {
		if err := s.store.Delete(ctx, storage.ExportKey(id)); err != nil {
			return fmt.Errorf("delete export: %w", err)
		}
	}
	return s.questionnaires.Delete(ctx, id)
}

func (s *questionnaireService) SetStatus(ctx context.Context, actorID, id string, status model.QuestionnaireStatus) (*model.Questionnaire, error) {
	if !status.Valid() {
		return nil, invalidf("unknown status %q", status)
	}
	var out *model.Questionnaire
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		qn, err := lockOwnedQuestionnaire(ctx, s.questionnaires, id, actorID)
		if err != nil {
			return err
		}
		now := s.now()
		stampStatus(qn, status, now)
		qn.ModifyDate = now
		out, err = s.questionnaires.Update(ctx, qn)
		return notFound(err)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *questionnaireService) Copy(ctx context.Context, actorID, id string) (*model.QuestionnaireDetail, error) {
	var out *model.QuestionnaireDetail
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		src, err := ownedQuestionnaire(ctx, s.questionnaires, id, actorID)
		if err != nil {
			return err
		}
		d, err := s.detail(ctx, src)
		if err != nil {
			return err
		}

		now := s.now()
		cp := *src
		cp.ID = uuid.New().String()
		cp.CreateDate = now
		cp.ModifyDate = now
		cp.FirstSharedDate = nil
		cp.LastSharedDate = nil
		cp.Status = model.StatusClosed
		stored, err := s.questionnaires.Create(ctx, &cp)
		if err != nil {
			return err
		}

		questionIDs := make(map[string]string, len(d.Questions))
		optionIDs := make(map[string]string)
		for _, q := range d.Questions {
			nq := q.Question
			nq.ID = uuid.New().String()
			nq.QuestionnaireID = stored.ID
			nq.ModifyDate = now
			if _, err := s.questions.Create(ctx, &nq); err != nil {
				return err
			}
			questionIDs[q.ID] = nq.ID
			for _, o := range q.Options {
				no := o
				no.ID = uuid.New().String()
				no.QuestionID = nq.ID
				if _, err := s.options.Create(ctx, &no); err != nil {
					return err
				}
				optionIDs[o.ID] = no.ID
			}
		}
		for _, lr := range d.LogicRelations {
			if _, err := s.logic.Create(ctx, &model.LogicRelation{
				ID:         uuid.New().String(),
				QuestionID: questionIDs[lr.QuestionID],
				OptionID:   optionIDs[lr.OptionID],
			}); err != nil {
				return err
			}
		}

		out, err = s.detail(ctx, stored)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *questionnaireService) ReorderQuestions(ctx context.Context, actorID, id string, questionIDs []string) ([]model.Question, error) {
	var out []model.Question
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := lockOwnedQuestionnaire(ctx, s.questionnaires, id, actorID); err != nil {
			return err
		}
		current, err := s.questions.ListByQuestionnaire(ctx, id)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(current))
		for _, q := range current {
			ids = append(ids, q.ID)
		}
		if err := renumber(ctx, s.questions, ids, questionIDs); err != nil {
			return err
		}
		out, err = s.questions.ListByQuestionnaire(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
