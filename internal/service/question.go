package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
)

// QuestionInput carries the fields of a new question. Ordering outside 1..n+1 appends.
type QuestionInput struct {
	QuestionnaireID   string             `json:"questionnaire"`
	Title             string             `json:"title"`
	Content           string             `json:"content"`
	Type              model.QuestionType `json:"type"`
	OrderType         model.OrderType    `json:"order_type"`
	Ordering          int                `json:"ordering"`
	IsMustAnswer      bool               `json:"is_must_answer"`
	IsLimitAnswer     bool               `json:"is_limit_answer"`
	LimitAnswerNumber int                `json:"limit_answer_number"`
	IsScoring         bool               `json:"is_scoring"`
	QuestionScore     *int               `json:"question_score"`
	Answer            string             `json:"answer"`
}

// QuestionPatch is a partial update; nil fields are left unchanged.
type QuestionPatch struct {
	Title             *string             `json:"title"`
	Content           *string             `json:"content"`
	Type              *model.QuestionType `json:"type"`
	OrderType         *model.OrderType    `json:"order_type"`
	Ordering          *int                `json:"ordering"`
	IsMustAnswer      *bool               `json:"is_must_answer"`
	IsLimitAnswer     *bool               `json:"is_limit_answer"`
	LimitAnswerNumber *int                `json:"limit_answer_number"`
	IsScoring         *bool               `json:"is_scoring"`
	QuestionScore     *int                `json:"question_score"`
	Answer            *string             `json:"answer"`
}

// QuestionService defines the use cases of questions. Every change of ordering
// runs in a transaction holding the questionnaire row lock.
type QuestionService interface {
	Create(ctx context.Context, actorID string, in QuestionInput) (*model.QuestionDetail, error)

	// CreateMany creates all questions in one transaction, in input order.
	CreateMany(ctx context.Context, actorID string, ins []QuestionInput) ([]model.QuestionDetail, error)

	Get(ctx context.Context, actorID, id string) (*model.QuestionDetail, error)

	// Update applies p. A new ordering swaps places with the question holding it.
	Update(ctx context.Context, actorID, id string, p QuestionPatch) (*model.Question, error)

	// Delete removes the question and closes the gap it leaves.
	Delete(ctx context.Context, actorID, id string) error

	// Copy inserts a duplicate with its options directly after the source.
	Copy(ctx context.Context, actorID, id string) (*model.QuestionDetail, error)

	// ReorderOptions renumbers the question's options in the order of optionIDs.
	ReorderOptions(ctx context.Context, actorID, id string, optionIDs []string) ([]model.Option, error)
}

type questionService struct {
	tx             repository.Transactor
	questionnaires repository.QuestionnaireRepository
	questions      repository.QuestionRepository
	options        repository.OptionRepository
	now            func() time.Time
}

func NewQuestionService(
	tx repository.Transactor,
	questionnaires repository.QuestionnaireRepository,
	questions repository.QuestionRepository,
	options repository.OptionRepository,
) QuestionService {
	return &questionService{
		tx:             tx,
		questionnaires: questionnaires,
		questions:      questions,
		options:        options,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func validateQuestion(q *model.Question) error {
	q.Title = strings.TrimSpace(q.Title)
	switch {
	case q.Title == "":
		return invalidf("title is required")
	case !q.Type.Valid():
		return invalidf("unknown question type %q", q.Type)
	case !q.OrderType.Valid():
		return invalidf("unknown order_type %q", q.OrderType)
	case q.LimitAnswerNumber < 0:
		return invalidf("limit_answer_number must not be negative")
	case q.QuestionScore != nil && *q.QuestionScore < 0:
		return invalidf("question_score must not be negative")
	}
	return nil
}

func (s *questionService) Create(ctx context.Context, actorID string, in QuestionInput) (*model.QuestionDetail, error) {
	out, err := s.CreateMany(ctx, actorID, []QuestionInput{in})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *questionService) CreateMany(ctx context.Context, actorID string, ins []QuestionInput) ([]model.QuestionDetail, error) {
	if len(ins) == 0 {
		return nil, invalidf("at least one question is required")
	}
	out := make([]model.QuestionDetail, 0, len(ins))
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		locked := make(map[string]bool)
		for _, in := range ins {
			if !locked[in.QuestionnaireID] {
				if _, err := lockOwnedQuestionnaire(ctx, s.questionnaires, in.QuestionnaireID, actorID); err != nil {
					return err
				}
				locked[in.QuestionnaireID] = true
			}
			d, err := s.insert(ctx, in)
			if err != nil {
				return err
			}
			out = append(out, *d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// insert opens a slot and stores the question. Completion questions get a blank option.
func (s *questionService) insert(ctx context.Context, in QuestionInput) (*model.QuestionDetail, error) {
	if in.OrderType == "" {
		in.OrderType = model.OrderSequential
	}
	q := &model.Question{
		ID:                uuid.New().String(),
		QuestionnaireID:   in.QuestionnaireID,
		Title:             in.Title,
		Content:           in.Content,
		Type:              in.Type,
		OrderType:         in.OrderType,
		ModifyDate:        s.now(),
		IsMustAnswer:      in.IsMustAnswer,
		IsLimitAnswer:     in.IsLimitAnswer,
		LimitAnswerNumber: in.LimitAnswerNumber,
		IsScoring:         in.IsScoring,
		QuestionScore:     in.QuestionScore,
		Answer:            in.Answer,
	}
	if err := validateQuestion(q); err != nil {
		return nil, err
	}
	pos, err := openSlot(ctx, s.questions, q.QuestionnaireID, in.Ordering)
	if err != nil {
		return nil, err
	}
	q.Ordering = pos
	stored, err := s.questions.Create(ctx, q)
	if err != nil {
		return nil, err
	}

	opts := []model.Option{}
	if stored.Type == model.QuestionCompletion {
		blank, err := s.options.Create(ctx, &model.Option{
			ID:         uuid.New().String(),
			QuestionID: stored.ID,
			Title:      blankTitle,
			Ordering:   1,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, *blank)
	}
	return &model.QuestionDetail{Question: *stored, Options: opts}, nil
}

func (s *questionService) Get(ctx context.Context, actorID, id string) (*model.QuestionDetail, error) {
	q, err := ownedQuestion(ctx, s.questionnaires, s.questions, id, actorID)
	if err != nil {
		return nil, err
	}
	opts, err := s.options.ListByQuestion(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	return &model.QuestionDetail{Question: *q, Options: opts}, nil
}

// lockedQuestion loads question id and locks its questionnaire for the transaction in ctx.
func (s *questionService) lockedQuestion(ctx context.Context, actorID, id string) (*model.Question, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	q, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if _, err := lockOwnedQuestionnaire(ctx, s.questionnaires, q.QuestionnaireID, actorID); err != nil {
		return nil, err
	}
	// Re-read under the lock; ordering may have moved while we waited.
	q, err = s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return q, nil
}

func (s *questionService) Update(ctx context.Context, actorID, id string, p QuestionPatch) (*model.Question, error) {
	var out *model.Question
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		q, err := s.lockedQuestion(ctx, actorID, id)
		if err != nil {
			return err
		}
		if p.Title != nil {
			q.Title = *p.Title
		}
		if p.Content != nil {
			q.Content = *p.Content
		}
		if p.Type != nil {
			q.Type = *p.Type
		}
		if p.OrderType != nil {
			q.OrderType = *p.OrderType
		}
		if p.IsMustAnswer != nil {
			q.IsMustAnswer = *p.IsMustAnswer
		}
		if p.IsLimitAnswer != nil {
			q.IsLimitAnswer = *p.IsLimitAnswer
		}
		if p.LimitAnswerNumber != nil {
			q.LimitAnswerNumber = *p.LimitAnswerNumber
		}
		if p.IsScoring != nil {
			q.IsScoring = *p.IsScoring
		}
		if p.QuestionScore != nil {
			q.QuestionScore = p.QuestionScore
		}
		if p.Answer != nil {
			q.Answer = *p.Answer
		}
		q.ModifyDate = s.now()
		if err := validateQuestion(q); err != nil {
			return err
		}

		if p.Ordering != nil && *p.Ordering != q.Ordering {
			target := *p.Ordering
			if err := checkTarget(ctx, s.questions, q.QuestionnaireID, target); err != nil {
				return err
			}
			siblings, err := s.questions.ListByQuestionnaire(ctx, q.QuestionnaireID)
			if err != nil {
				return err
			}
			for _, sib := range siblings {
				if sib.Ordering == target {
					if err := s.questions.SetOrdering(ctx, sib.ID, q.Ordering); err != nil {
						return err
					}
					break
				}
			}
			q.Ordering = target
		}

		out, err = s.questions.Update(ctx, q)
		return notFound(err)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *questionService) Delete(ctx context.Context, actorID, id string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		q, err := s.lockedQuestion(ctx, actorID, id)
		if err != nil {
			return err
		}
		if err := s.questions.Delete(ctx, q.ID); err != nil {
			return err
		}
		return closeSlot(ctx, s.questions, q.QuestionnaireID, q.Ordering)
	})
}

func (s *questionService) Copy(ctx context.Context, actorID, id string) (*model.QuestionDetail, error) {
	var out *model.QuestionDetail
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		src, err := s.lockedQuestion(ctx, actorID, id)
		if err != nil {
			return err
		}
		opts, err := s.options.ListByQuestion(ctx, src.ID)
		if err != nil {
			return err
		}
		if err := s.questions.ShiftOrdering(ctx, src.QuestionnaireID, src.Ordering+1, 1); err != nil {
			return err
		}

		cp := *src
		cp.ID = uuid.New().String()
		cp.Ordering = src.Ordering + 1
		cp.ModifyDate = s.now()
		stored, err := s.questions.Create(ctx, &cp)
		if err != nil {
			return err
		}
		copied := make([]model.Option, 0, len(opts))
		for _, o := range opts {
			o.ID = uuid.New().String()
			o.QuestionID = stored.ID
			no, err := s.options.Create(ctx, &o)
			if err != nil {
				return err
			}
			copied = append(copied, *no)
		}
		out = &model.QuestionDetail{Question: *stored, Options: copied}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *questionService) ReorderOptions(ctx context.Context, actorID, id string, optionIDs []string) ([]model.Option, error) {
	var out []model.Option
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		q, err := s.lockedQuestion(ctx, actorID, id)
		if err != nil {
			return err
		}
		if err := s.questions.Lock(ctx, q.ID); err != nil {
			return notFound(err)
		}
		current, err := s.options.ListByQuestion(ctx, q.ID)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(current))
		for _, o := range current {
			ids = append(ids, o.ID)
		}
		if err := renumber(ctx, s.options, ids, optionIDs); err != nil {
			return err
		}
		out, err = s.options.ListByQuestion(ctx, q.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
