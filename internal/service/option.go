package service

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
)

// OptionInput carries the fields of a new option. Ordering outside 1..n+1 appends.
type OptionInput struct {
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

// OptionPatch is a partial update; nil fields are left unchanged.
type OptionPatch struct {
	Title             *string  `json:"title"`
	Content           *string  `json:"content"`
	Ordering          *int     `json:"ordering"`
	IsLimitAnswer     *bool    `json:"is_limit_answer"`
	LimitAnswerNumber *int     `json:"limit_answer_number"`
	IsAnswerChoice    *bool    `json:"is_answer_choice"`
	Score             *float64 `json:"score"`
	Answer            *string  `json:"answer"`
	IsAttrLimit       *bool    `json:"is_attr_limit"`
	AttrLimitType     *string  `json:"attr_limit_type"`
	ValidatorRegex    *string  `json:"validator_regex"`
	IsMustAnswer      *bool    `json:"is_must_answer"`
}

// OptionService mirrors QuestionService one level down; the question row is the lock.
type OptionService interface {
	Create(ctx context.Context, actorID string, in OptionInput) (*model.Option, error)
	CreateMany(ctx context.Context, actorID string, ins []OptionInput) ([]model.Option, error)
	Get(ctx context.Context, actorID, id string) (*model.Option, error)
	Update(ctx context.Context, actorID, id string, p OptionPatch) (*model.Option, error)
	Delete(ctx context.Context, actorID, id string) error
}

type optionService struct {
	tx             repository.Transactor
	questionnaires repository.QuestionnaireRepository
	questions      repository.QuestionRepository
	options        repository.OptionRepository
}

func NewOptionService(
	tx repository.Transactor,
	questionnaires repository.QuestionnaireRepository,
	questions repository.QuestionRepository,
	options repository.OptionRepository,
) OptionService {
	return &optionService{tx: tx, questionnaires: questionnaires, questions: questions, options: options}
}

func validateOption(o *model.Option) error {
	o.Title = strings.TrimSpace(o.Title)
	switch {
	case o.Title == "":
		return invalidf("title is required")
	case o.LimitAnswerNumber < 0:
		return invalidf("limit_answer_number must not be negative")
	case o.Score != nil && math.Abs(*o.Score) >= 1000:
		return invalidf("score must be within (-1000, 1000)")
	}
	if o.ValidatorRegex != "" {
		if _, err := regexp.Compile(o.ValidatorRegex); err != nil {
			return invalidf("validator_regex does not compile: %v", err)
		}
	}
	if o.Score != nil {
		v := math.Round(*o.Score*10) / 10
		o.Score = &v
	}
	return nil
}

// lockQuestion checks ownership of question id and row-locks it.
func (s *optionService) lockQuestion(ctx context.Context, actorID, id string) (*model.Question, error) {
	q, err := ownedQuestion(ctx, s.questionnaires, s.questions, id, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.questions.Lock(ctx, q.ID); err != nil {
		return nil, notFound(err)
	}
	return q, nil
}

// lockedOption loads option id with its question locked, re-reading it under the lock.
func (s *optionService) lockedOption(ctx context.Context, actorID, id string) (*model.Option, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	o, err := s.options.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if _, err := s.lockQuestion(ctx, actorID, o.QuestionID); err != nil {
		return nil, err
	}
	o, err = s.options.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (s *optionService) Create(ctx context.Context, actorID string, in OptionInput) (*model.Option, error) {
	out, err := s.CreateMany(ctx, actorID, []OptionInput{in})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *optionService) CreateMany(ctx context.Context, actorID string, ins []OptionInput) ([]model.Option, error) {
	if len(ins) == 0 {
		return nil, invalidf("at least one option is required")
	}
	out := make([]model.Option, 0, len(ins))
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		locked := make(map[string]bool)
		for _, in := range ins {
			if in.QuestionID == "" {
				return invalidf("question is required")
			}
			if !locked[in.QuestionID] {
				if _, err := s.lockQuestion(ctx, actorID, in.QuestionID); err != nil {
					return err
				}
				locked[in.QuestionID] = true
			}
			o := &model.Option{
				ID:                uuid.New().String(),
				QuestionID:        in.QuestionID,
				Title:             in.Title,
				Content:           in.Content,
				IsLimitAnswer:     in.IsLimitAnswer,
				LimitAnswerNumber: in.LimitAnswerNumber,
				IsAnswerChoice:    in.IsAnswerChoice,
				Score:             in.Score,
				Answer:            in.Answer,
				IsAttrLimit:       in.IsAttrLimit,
				AttrLimitType:     in.AttrLimitType,
				ValidatorRegex:    in.ValidatorRegex,
				IsMustAnswer:      in.IsMustAnswer,
			}
			if err := validateOption(o); err != nil {
				return err
			}
			pos, err := openSlot(ctx, s.options, o.QuestionID, in.Ordering)
			if err != nil {
				return err
			}
			o.Ordering = pos
			stored, err := s.options.Create(ctx, o)
			if err != nil {
				return err
			}
			out = append(out, *stored)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *optionService) Get(ctx context.Context, actorID, id string) (*model.Option, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	o, err := s.options.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if _, err := ownedQuestion(ctx, s.questionnaires, s.questions, o.QuestionID, actorID); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *optionService) Update(ctx context.Context, actorID, id string, p OptionPatch) (*model.Option, error) {
	var out *model.Option
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.lockedOption(ctx, actorID, id)
		if err != nil {
			return err
		}
		if p.Title != nil {
			o.Title = *p.Title
		}
		if p.Content != nil {
			o.Content = *p.Content
		}
		if p.IsLimitAnswer != nil {
			o.IsLimitAnswer = *p.IsLimitAnswer
		}
		if p.LimitAnswerNumber != nil {
			o.LimitAnswerNumber = *p.LimitAnswerNumber
		}
		if p.IsAnswerChoice != nil {
			o.IsAnswerChoice = *p.IsAnswerChoice
		}
		if p.Score != nil {
			o.Score = p.Score
		}
		if p.Answer != nil {
			o.Answer = *p.Answer
		}
		if p.IsAttrLimit != nil {
			o.IsAttrLimit = *p.IsAttrLimit
		}
		if p.AttrLimitType != nil {
			o.AttrLimitType = *p.AttrLimitType
		}
		if p.ValidatorRegex != nil {
			o.ValidatorRegex = *p.ValidatorRegex
		}
		if p.IsMustAnswer != nil {
			o.IsMustAnswer = *p.IsMustAnswer
		}
		if err := validateOption(o); err != nil {
			return err
		}

		if p.Ordering != nil && *p.Ordering != o.Ordering {
			target := *p.Ordering
			if err := checkTarget(ctx, s.options, o.QuestionID, target); err != nil {
				return err
			}
			siblings, err := s.options.ListByQuestion(ctx, o.QuestionID)
			if err != nil {
				return err
			}
			for _, sib := range siblings {
				if sib.Ordering == target {
					if err := s.options.SetOrdering(ctx, sib.ID, o.Ordering); err != nil {
						return err
					}
					break
				}
			}
			o.Ordering = target
		}

		out, err = s.options.Update(ctx, o)
		return notFound(err)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *optionService) Delete(ctx context.Context, actorID, id string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := s.lockedOption(ctx, actorID, id)
		if err != nil {
			return err
		}
		if err := s.options.Delete(ctx, o.ID); err != nil {
			return err
		}
		return closeSlot(ctx, s.options, o.QuestionID, o.Ordering)
	})
}
