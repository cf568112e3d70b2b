package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"surveyapi/internal/auth"
	"surveyapi/internal/model"
	"surveyapi/internal/repository"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]{1,150}$`)

// UserService manages accounts and the tokens that authenticate them.
type UserService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Get(ctx context.Context, username string) (*model.User, error)

	// Update changes the password. Only the user themself may do it.
	Update(ctx context.Context, actorID, username, password string) (*model.User, error)
	Delete(ctx context.Context, actorID, username string) error

	// ListQuestionnaires returns the user's questionnaires outside the recycle bin.
	ListQuestionnaires(ctx context.Context, username string) ([]model.QuestionnaireSummary, error)

	// Recycle returns the actor's questionnaires in the recycle bin.
	Recycle(ctx context.Context, actorID, username string) ([]model.QuestionnaireSummary, error)

	Login(ctx context.Context, username, password string) (*auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type userService struct {
	users          repository.UserRepository
	questionnaires repository.QuestionnaireRepository
	tokens         *auth.Issuer
	now            func() time.Time
}

func NewUserService(users repository.UserRepository, questionnaires repository.QuestionnaireRepository, tokens *auth.Issuer) UserService {
	return &userService{
		users:          users,
		questionnaires: questionnaires,
		tokens:         tokens,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *userService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, invalidf("username must be 1-150 letters, digits or @.+-_")
	}
	if password == "" {
		return nil, invalidf("password is required")
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(notFound(err), ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Create(ctx, &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		DateJoined:   s.now(),
	})
	if err != nil {
		return nil, conflict(err)
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, ErrIDRequired
	}
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// self loads username and requires it to be the actor.
func (s *userService) self(ctx context.Context, actorID, username string) (*model.User, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	u, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if u.ID != actorID {
		return nil, ErrForbidden
	}
	return u, nil
}

func (s *userService) Update(ctx context.Context, actorID, username, password string) (*model.User, error) {
	u, err := s.self(ctx, actorID, username)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, invalidf("password is required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return nil, notFound(err)
	}
	u.PasswordHash = hash
	return u, nil
}

func (s *userService) Delete(ctx context.Context, actorID, username string) error {
	u, err := s.self(ctx, actorID, username)
	if err != nil {
		return err
	}
	return s.users.Delete(ctx, u.ID)
}

func (s *userService) ListQuestionnaires(ctx context.Context, username string) ([]model.QuestionnaireSummary, error) {
	u, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	res, err := s.questionnaires.List(ctx, repository.QuestionnaireFilter{
		AuthorID:      u.ID,
		ExcludeStatus: model.StatusDeleted,
	}, repository.PageQuery{Limit: allRows})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (s *userService) Recycle(ctx context.Context, actorID, username string) ([]model.QuestionnaireSummary, error) {
	u, err := s.self(ctx, actorID, username)
	if err != nil {
		return nil, err
	}
	res, err := s.questionnaires.List(ctx, repository.QuestionnaireFilter{
		AuthorID: u.ID,
		Status:   model.StatusDeleted,
	}, repository.PageQuery{Limit: allRows})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*auth.TokenPair, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.ComparePassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrMismatchedPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return s.tokens.Issue(u.ID, u.Username)
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Parse(refreshToken, auth.KindRefresh)
	if err != nil {
		return "", ErrUnauthenticated
	}
	// Tokens of deleted accounts stop working.
	if _, err := s.users.FindByID(ctx, claims.UserID); err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return "", ErrUnauthenticated
		}
		return "", err
	}
	return s.tokens.Refresh(refreshToken)
}
