package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
	"surveyapi/internal/storage"
	storageMocks "surveyapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestQuestionnaireService(f *fixture) *questionnaireService {
	svc := NewQuestionnaireService(f.tx, f.questionnaires, f.questions, f.options, f.logic, nil).(*questionnaireService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func echoQuestionnaire(_ context.Context, q *model.Questionnaire) *model.Questionnaire { return q }
func echoQuestion(_ context.Context, q *model.Question) *model.Question                { return q }
func echoOption(_ context.Context, o *model.Option) *model.Option                      { return o }

func expectEmptyDetail(f *fixture) {
	f.questions.On("ListByQuestionnaire", mock.Anything, mock.Anything).Return([]model.Question{}, nil)
	f.options.On("ListByQuestionnaire", mock.Anything, mock.Anything).Return([]model.Option{}, nil)
	f.logic.On("ListByQuestionnaire", mock.Anything, mock.Anything).Return([]model.LogicRelation{}, nil)
}

func TestQuestionnaireService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults and author", func(t *testing.T) {
		f := newFixture()
		f.questionnaires.On("Create", mock.Anything, mock.MatchedBy(func(q *model.Questionnaire) bool {
			return q.AuthorID == "u1" && q.Status == model.StatusClosed &&
				q.Type == model.TypeNormal && q.OrderType == model.OrderSequential &&
				q.CreateDate.Equal(fixedNow)
		})).Return(echoQuestionnaire, nil)
		expectEmptyDetail(f)
		svc := newTestQuestionnaireService(f)

		d, err := svc.Create(ctx, "u1", QuestionnaireInput{Title: "  Lunch  "}, "")
		require.NoError(t, err)
		assert.Equal(t, "Lunch", d.Title)
		assert.Equal(t, 1, f.tx.Calls)
		f.assertExpectations(t)
	})

	t.Run("signup template seeds questions", func(t *testing.T) {
		f := newFixture()
		f.questionnaires.On("Create", mock.Anything, mock.MatchedBy(func(q *model.Questionnaire) bool {
			return q.Type == model.TypeSignup
		})).Return(echoQuestionnaire, nil)

		var created []*model.Question
		f.questions.On("Create", mock.Anything, mock.Anything).Return(func(_ context.Context, q *model.Question) *model.Question {
			created = append(created, q)
			return q
		}, nil)
		var opts []*model.Option
		f.options.On("Create", mock.Anything, mock.Anything).Return(func(_ context.Context, o *model.Option) *model.Option {
			opts = append(opts, o)
			return o
		}, nil)
		expectEmptyDetail(f)
		svc := newTestQuestionnaireService(f)

		_, err := svc.Create(ctx, "u1", QuestionnaireInput{Title: "Sign up"}, TemplateSignup)
		require.NoError(t, err)

		require.Len(t, created, 3)
		for i, q := range created {
			assert.Equal(t, i+1, q.Ordering)
		}
		assert.Equal(t, model.QuestionCompletion, created[0].Type)
		// two blanks plus two choices
		require.Len(t, opts, 4)
		assert.Equal(t, blankTitle, opts[0].Title)
		assert.Equal(t, created[0].ID, opts[0].QuestionID)
		assert.Equal(t, 2, opts[3].Ordering)
	})

	t.Run("author deleted after token was issued", func(t *testing.T) {
		f := newFixture()
		f.questionnaires.On("Create", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: questionnaires_author_id_fkey", repository.ErrMissingReference))
		svc := newTestQuestionnaireService(f)

		_, err := svc.Create(ctx, "u-gone", QuestionnaireInput{Title: "Lunch"}, "")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("validation", func(t *testing.T) {
		svc := newTestQuestionnaireService(newFixture())
		_, err := svc.Create(ctx, "u1", QuestionnaireInput{}, "")
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.Create(ctx, "u1", QuestionnaireInput{Title: "x"}, "poll")
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.Create(ctx, "u1", QuestionnaireInput{Title: "x", IsLocked: true}, "")
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.Create(ctx, "", QuestionnaireInput{Title: "x"}, "")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestQuestionnaireService_Delete(t *testing.T) {
	ctx := context.Background()
	key := storage.ExportKey("q1")

	t.Run("removes published export then row", func(t *testing.T) {
		f := newFixture()
		store := new(storageMocks.MockStorage)
		f.questionnaires.On("FindByID", ctx, "q1").Return(sharedQuestionnaire("q1", "u1"), nil)
		store.On("Delete", ctx, key).Return(nil).Once()
		f.questionnaires.On("Delete", ctx, "q1").Return(nil).Once()
		svc := newTestQuestionnaireService(f)
		svc.store = store

		require.NoError(t, svc.Delete(ctx, "u1", "q1"))
		store.AssertExpectations(t)
		f.assertExpectations(t)
	})

	t.Run("storage failure keeps the row", func(t *testing.T) {
		f := newFixture()
		store := new(storageMocks.MockStorage)
		f.questionnaires.On("FindByID", ctx, "q1").Return(sharedQuestionnaire("q1", "u1"), nil)
		store.On("Delete", ctx, key).Return(errors.New("bucket offline")).Once()
		svc := newTestQuestionnaireService(f)
		svc.store = store

		err := svc.Delete(ctx, "u1", "q1")
		assert.ErrorContains(t, err, "delete export: bucket offline")
		f.questionnaires.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("without object storage", func(t *testing.T) {
		f := newFixture()
		f.questionnaires.On("FindByID", ctx, "q1").Return(sharedQuestionnaire("q1", "u1"), nil)
		f.questionnaires.On("Delete", ctx, "q1").Return(nil).Once()

		require.NoError(t, newTestQuestionnaireService(f).Delete(ctx, "u1", "q1"))
		f.assertExpectations(t)
	})

	t.Run("stranger", func(t *testing.T) {
		f := newFixture()
		store := new(storageMocks.MockStorage)
		f.questionnaires.On("FindByID", ctx, "q1").Return(sharedQuestionnaire("q1", "u1"), nil)
		svc := newTestQuestionnaireService(f)
		svc.store = store

		assert.ErrorIs(t, svc.Delete(ctx, "u2", "q1"), ErrForbidden)
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestQuestionnaireService_Get_Ownership(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.questionnaires.On("FindByID", ctx, "q1").Return(sharedQuestionnaire("q1", "u1"), nil)
	f.questionnaires.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)
	expectEmptyDetail(f)
	svc := newTestQuestionnaireService(f)

	_, err := svc.Get(ctx, "u2", "q1")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	d, err := svc.Get(ctx, "u1", "q1")
	require.NoError(t, err)
	assert.Equal(t, "q1", d.ID)
}

func TestQuestionnaireService_Fill(t *testing.T) {
	ctx := context.Background()

	locked := sharedQuestionnaire("q1", "u1")
	locked.IsLocked = true
	locked.Password = "open-sesame"

	closed := sharedQuestionnaire("q2", "u1")
	closed.Status = model.StatusClosed

	login := sharedQuestionnaire("q3", "u1")
	login.IsRequiredLogin = true

	f := newFixture()
	f.questionnaires.On("FindByID", ctx, "q1").Return(locked, nil)
	f.questionnaires.On("FindByID", ctx, "q2").Return(closed, nil)
	f.questionnaires.On("FindByID", ctx, "q3").Return(login, nil)
	expectEmptyDetail(f)
	svc := newTestQuestionnaireService(f)

	_, err := svc.Fill(ctx, "", "q1", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	d, err := svc.Fill(ctx, "", "q1", "open-sesame")
	require.NoError(t, err)
	assert.Empty(t, d.Password)

	_, err = svc.Fill(ctx, "", "q2", "")
	assert.ErrorIs(t, err, ErrNotAccepting)

	_, err = svc.Fill(ctx, "", "q3", "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.Fill(ctx, "u9", "q3", "")
	assert.NoError(t, err)
}

func TestQuestionnaireService_Fill_Shuffles(t *testing.T) {
	ctx := context.Background()
	qn := sharedQuestionnaire("q1", "u1")
	qn.OrderType = model.OrderShuffled

	f := newFixture()
	f.questionnaires.On("FindByID", ctx, "q1").Return(qn, nil)
	f.questions.On("ListByQuestionnaire", ctx, "q1").Return([]model.Question{
		{ID: "a", Ordering: 1, OrderType: model.OrderShuffled},
		{ID: "b", Ordering: 2, OrderType: model.OrderSequential},
	}, nil)
	f.options.On("ListByQuestionnaire", ctx, "q1").Return([]model.Option{
		{ID: "a1", QuestionID: "a", Ordering: 1}, {ID: "a2", QuestionID: "a", Ordering: 2},
		{ID: "b1", QuestionID: "b", Ordering: 1}, {ID: "b2", QuestionID: "b", Ordering: 2},
	}, nil)
	f.logic.On("ListByQuestionnaire", ctx, "q1").Return([]model.LogicRelation{}, nil)

	svc := newTestQuestionnaireService(f)
	var calls []int
	svc.shuffle = func(n int, swap func(i, j int)) {
		calls = append(calls, n)
		if n > 1 {
			swap(0, n-1)
		}
	}

	d, err := svc.Fill(ctx, "", "q1", "")
	require.NoError(t, err)
	// questionnaire shuffle, then question "a" only
	assert.Equal(t, []int{2, 2}, calls)
	assert.Equal(t, "b", d.Questions[0].ID)
	assert.Equal(t, []string{"b1", "b2"}, []string{d.Questions[0].Options[0].ID, d.Questions[0].Options[1].ID})
	assert.Equal(t, "a2", d.Questions[1].Options[0].ID)
}

func TestQuestionnaireService_SetStatus(t *testing.T) {
	ctx := context.Background()
	earlier := fixedNow.Add(-48 * time.Hour)

	t.Run("first share stamps both dates", func(t *testing.T) {
		f := newFixture()
		qn := sharedQuestionnaire("q1", "u1")
		qn.Status = model.StatusClosed
		f.questionnaires.On("FindByIDForUpdate", ctx, "q1").Return(qn, nil)
		f.questionnaires.On("Update", ctx, mock.Anything).Return(echoQuestionnaire, nil)
		svc := newTestQuestionnaireService(f)

		got, err := svc.SetStatus(ctx, "u1", "q1", model.StatusShared)
		require.NoError(t, err)
		require.NotNil(t, got.FirstSharedDate)
		assert.True(t, got.FirstSharedDate.Equal(fixedNow))
		assert.True(t, got.LastSharedDate.Equal(fixedNow))
	})

	t.Run("re-share keeps first date", func(t *testing.T) {
		f := newFixture()
		qn := sharedQuestionnaire("q1", "u1")
		qn.Status = model.StatusClosed
		qn.FirstSharedDate = &earlier
		qn.LastSharedDate = &earlier
		f.questionnaires.On("FindByIDForUpdate", ctx, "q1").Return(qn, nil)
		f.questionnaires.On("Update", ctx, mock.Anything).Return(echoQuestionnaire, nil)
		svc := newTestQuestionnaireService(f)

		got, err := svc.SetStatus(ctx, "u1", "q1", model.StatusShared)
		require.NoError(t, err)
		assert.True(t, got.FirstSharedDate.Equal(earlier))
		assert.True(t, got.LastSharedDate.Equal(fixedNow))
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := newTestQuestionnaireService(newFixture())
		_, err := svc.SetStatus(ctx, "u1", "q1", "archived")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("not the author", func(t *testing.T) {
		f := newFixture()
		f.questionnaires.On("FindByIDForUpdate", ctx, "q1").Return(sharedQuestionnaire("q1", "u1"), nil)
		svc := newTestQuestionnaireService(f)
		_, err := svc.SetStatus(ctx, "u2", "q1", model.StatusClosed)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestQuestionnaireService_Update_Patch(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	qn := sharedQuestionnaire("q1", "u1")
	qn.Content = "keep me"
	f.questionnaires.On("FindByIDForUpdate", ctx, "q1").Return(qn, nil)
	f.questionnaires.On("Update", ctx, mock.Anything).Return(echoQuestionnaire, nil)
	svc := newTestQuestionnaireService(f)

	got, err := svc.Update(ctx, "u1", "q1", QuestionnairePatch{
		Title:             ptr("Dinner"),
		IsLimitAnswer:     ptr(true),
		LimitAnswerNumber: ptr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "Dinner", got.Title)
	assert.Equal(t, "keep me", got.Content)
	assert.True(t, got.IsLimitAnswer)
	assert.Equal(t, 10, got.LimitAnswerNumber)
	assert.True(t, got.ModifyDate.Equal(fixedNow))

	_, err = svc.Update(ctx, "u1", "q1", QuestionnairePatch{LimitAnswerNumber: ptr(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestQuestionnaireService_Copy(t *testing.T) {
	ctx := context.Background()
	src := sharedQuestionnaire("q1", "u1")
	shared := fixedNow.Add(-time.Hour)
	src.FirstSharedDate = &shared
	src.LastSharedDate = &shared

	f := newFixture()
	f.questionnaires.On("FindByID", ctx, "q1").Return(src, nil)
	f.questions.On("ListByQuestionnaire", ctx, "q1").Return([]model.Question{
		{ID: "qa", QuestionnaireID: "q1", Ordering: 1},
		{ID: "qb", QuestionnaireID: "q1", Ordering: 2},
	}, nil)
	f.options.On("ListByQuestionnaire", ctx, "q1").Return([]model.Option{
		{ID: "oa", QuestionID: "qa", Ordering: 1},
	}, nil)
	f.logic.On("ListByQuestionnaire", ctx, "q1").Return([]model.LogicRelation{
		{ID: "l1", QuestionID: "qb", OptionID: "oa"},
	}, nil)

	var copyID string
	f.questionnaires.On("Create", ctx, mock.MatchedBy(func(q *model.Questionnaire) bool {
		copyID = q.ID
		return q.ID != "q1" && q.Status == model.StatusClosed &&
			q.FirstSharedDate == nil && q.LastSharedDate == nil && q.CreateDate.Equal(fixedNow)
	})).Return(echoQuestionnaire, nil)

	newQ := map[string]string{}
	f.questions.On("Create", ctx, mock.Anything).Return(func(_ context.Context, q *model.Question) *model.Question {
		newQ[strconv.Itoa(q.Ordering)] = q.ID
		return q
	}, nil)
	var newOpt *model.Option
	f.options.On("Create", ctx, mock.Anything).Return(func(_ context.Context, o *model.Option) *model.Option {
		newOpt = o
		return o
	}, nil)
	f.logic.On("Create", ctx, mock.MatchedBy(func(lr *model.LogicRelation) bool {
		return lr.QuestionID == newQ["2"] && lr.OptionID == newOpt.ID
	})).Return(&model.LogicRelation{ID: "l2"}, nil)
	f.questions.On("ListByQuestionnaire", ctx, mock.MatchedBy(func(id string) bool { return id != "q1" })).Return([]model.Question{}, nil)
	f.options.On("ListByQuestionnaire", ctx, mock.MatchedBy(func(id string) bool { return id != "q1" })).Return([]model.Option{}, nil)
	f.logic.On("ListByQuestionnaire", ctx, mock.MatchedBy(func(id string) bool { return id != "q1" })).Return([]model.LogicRelation{}, nil)

	svc := newTestQuestionnaireService(f)
	d, err := svc.Copy(ctx, "u1", "q1")
	require.NoError(t, err)
	assert.Equal(t, copyID, d.ID)
	assert.Len(t, newQ, 2)
	require.NotNil(t, newOpt)
	assert.Equal(t, newQ["1"], newOpt.QuestionID)
	f.assertExpectations(t)
}

func TestQuestionnaireService_Sort(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.questionnaires.On("List", ctx, repository.QuestionnaireFilter{
		ExcludeStatus: model.StatusDeleted,
		Sort:          repository.SortAnswerNumDesc,
	}, repository.PageQuery{Limit: 10}).Return(&repository.PageResult[model.QuestionnaireSummary]{Total: 0}, nil)
	svc := newTestQuestionnaireService(f)

	_, err := svc.Sort(ctx, "-answer_num", 0, 0)
	require.NoError(t, err)

	_, err = svc.Sort(ctx, "title; DROP TABLE questionnaires", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
	f.assertExpectations(t)
}

func TestQuestionnaireService_ReorderQuestions(t *testing.T) {
	ctx := context.Background()
	current := []model.Question{{ID: "a", Ordering: 1}, {ID: "b", Ordering: 2}, {ID: "c", Ordering: 3}}

	t.Run("renumbers", func(t *testing.T) {
		f := newFixture()
		f.questionnaires.On("FindByIDForUpdate", ctx, "q1").Return(sharedQuestionnaire("q1", "u1"), nil)
		f.questions.On("ListByQuestionnaire", ctx, "q1").Return(current, nil)
		f.questions.On("SetOrdering", ctx, "c", 1).Return(nil).Once()
		f.questions.On("SetOrdering", ctx, "a", 2).Return(nil).Once()
		f.questions.On("SetOrdering", ctx, "b", 3).Return(nil).Once()
		svc := newTestQuestionnaireService(f)

		_, err := svc.ReorderQuestions(ctx, "u1", "q1", []string{"c", "a", "b"})
		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("rejects non-permutation", func(t *testing.T) {
		for _, ids := range [][]string{{"a", "b"}, {"a", "b", "x"}, {"a", "a", "b"}} {
			f := newFixture()
			f.questionnaires.On("FindByIDForUpdate", ctx, "q1").Return(sharedQuestionnaire("q1", "u1"), nil)
			f.questions.On("ListByQuestionnaire", ctx, "q1").Return(current, nil)
			svc := newTestQuestionnaireService(f)

			_, err := svc.ReorderQuestions(ctx, "u1", "q1", ids)
			assert.ErrorIs(t, err, ErrInvalidInput, "ids %v", ids)
			f.questions.AssertNotCalled(t, "SetOrdering", mock.Anything, mock.Anything, mock.Anything)
		}
	})
}
