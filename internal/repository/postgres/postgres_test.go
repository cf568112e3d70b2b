package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestTransactor_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits and routes repository calls through the tx", func(t *testing.T) {
		db, mock := newMock(t)
		tr := NewTransactor(db)
		repo := NewQuestionPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE questions SET ordering = ordering \\+ \\$3").
			WithArgs("qn-1", 2, 1).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		err := tr.WithinTx(ctx, func(ctx context.Context) error {
			return repo.ShiftOrdering(ctx, "qn-1", 2, 1)
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock := newMock(t)
		tr := NewTransactor(db)

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := tr.WithinTx(ctx, func(ctx context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested calls join the outer tx", func(t *testing.T) {
		db, mock := newMock(t)
		tr := NewTransactor(db)

		mock.ExpectBegin()
		mock.ExpectCommit()

		calls := 0
		err := tr.WithinTx(ctx, func(ctx context.Context) error {
			return tr.WithinTx(ctx, func(ctx context.Context) error {
				calls++
				return nil
			})
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock := newMock(t)
		tr := NewTransactor(db)

		mock.ExpectBegin().WillReturnError(errors.New("conn refused"))

		err := tr.WithinTx(ctx, func(ctx context.Context) error { return nil })
		assert.ErrorContains(t, err, "begin tx: conn refused")
	})
}

func TestUserPostgres(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewUserPostgres(db)
	now := time.Now().UTC()

	t.Run("create", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("u-1", "alice", "hash", now).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "date_joined"}).
				AddRow("u-1", "alice", "hash", now))

		u, err := repo.Create(ctx, &model.User{ID: "u-1", Username: "alice", PasswordHash: "hash", DateJoined: now})
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
	})

	t.Run("find by username not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE username = \\$1").
			WithArgs("bob").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByUsername(ctx, "bob")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, u)
	})

	t.Run("update password on missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET password_hash").
			WithArgs("u-9", "new").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdatePassword(ctx, "u-9", "new")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

var questionnaireRowColumns = []string{
	"id", "title", "content", "author_id", "create_date",
	"first_shared_date", "last_shared_date", "modify_date", "status", "type",
	"is_locked", "password", "is_required_login", "is_only_answer_once", "order_type",
	"is_show_result", "is_limit_answer", "limit_answer_number", "answer_num",
}

func TestQuestionnairePostgres_FindByIDForUpdate(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewQuestionnairePostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery("FROM questionnaires q WHERE q.id = \\$1 FOR UPDATE").
		WithArgs("qn-1").
		WillReturnRows(sqlmock.NewRows(questionnaireRowColumns).AddRow(
			"qn-1", "Lunch poll", "", "u-1", now,
			now, nil, now, "shared", "vote",
			true, "secret", false, false, "disorder",
			true, true, 50, 7,
		))

	qn, err := repo.FindByIDForUpdate(ctx, "qn-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusShared, qn.Status)
	assert.Equal(t, model.TypeVote, qn.Type)
	assert.Equal(t, model.OrderShuffled, qn.OrderType)
	require.NotNil(t, qn.FirstSharedDate)
	assert.Nil(t, qn.LastSharedDate)
	assert.Equal(t, 50, qn.LimitAnswerNumber)
	assert.Equal(t, 7, qn.AnswerNum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionnairePostgres_List(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewQuestionnairePostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM questionnaires q WHERE q.title ILIKE (.+) AND q.author_id = \\$2 AND q.status <> \\$3").
		WithArgs("poll", "u-1", "deleted").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("ORDER BY answer_num DESC, q.id DESC LIMIT \\$4 OFFSET \\$5").
		WithArgs("poll", "u-1", "deleted", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status", "type", "create_date", "last_shared_date", "answer_num"}).
			AddRow("qn-1", "Lunch poll", "closed", "normal", now, nil, 3))

	res, err := repo.List(ctx, repository.QuestionnaireFilter{
		Search:        "poll",
		AuthorID:      "u-1",
		ExcludeStatus: model.StatusDeleted,
		Sort:          repository.SortAnswerNumDesc,
	}, repository.PageQuery{Limit: 10, Offset: 0})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 3, res.Items[0].AnswerNum)
	assert.Nil(t, res.Items[0].LastSharedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionnairePostgres_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewQuestionnairePostgres(db)

	mock.ExpectExec("UPDATE questionnaires SET").WillReturnResult(sqlmock.NewResult(0, 0))

	qn, err := repo.Update(ctx, &model.Questionnaire{ID: "missing", Status: model.StatusClosed})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Nil(t, qn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var questionRowColumns = []string{
	"id", "questionnaire_id", "title", "content", "type", "order_type", "modify_date",
	"ordering", "is_must_answer", "is_limit_answer", "limit_answer_number", "is_scoring",
	"question_score", "answer",
}

func TestQuestionPostgres(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewQuestionPostgres(db)
	now := time.Now().UTC()

	t.Run("list by questionnaire", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM questions WHERE questionnaire_id = \\$1 ORDER BY ordering ASC").
			WithArgs("qn-1").
			WillReturnRows(sqlmock.NewRows(questionRowColumns).
				AddRow("q-1", "qn-1", "Name", "", "completion", "order", now, 1, true, false, 0, false, nil, "").
				AddRow("q-2", "qn-1", "Capital of France", "", "single-choice", "order", now, 2, false, false, 0, true, 5, "Paris"))

		items, err := repo.ListByQuestionnaire(ctx, "qn-1")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Nil(t, items[0].QuestionScore)
		require.NotNil(t, items[1].QuestionScore)
		assert.Equal(t, 5, *items[1].QuestionScore)
		assert.Equal(t, model.QuestionSingleChoice, items[1].Type)
	})

	t.Run("count", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM questions").
			WithArgs("qn-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		n, err := repo.Count(ctx, "qn-1")
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("set ordering on missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE questions SET ordering = \\$2 WHERE id = \\$1").
			WithArgs("q-9", 3).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetOrdering(ctx, "q-9", 3), sql.ErrNoRows)
	})

	t.Run("lock", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM questions WHERE id = \\$1 FOR UPDATE").
			WithArgs("q-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("q-1"))

		assert.NoError(t, repo.Lock(ctx, "q-1"))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOptionPostgres(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewOptionPostgres(db)

	cols := []string{"id", "question_id", "title", "content", "ordering", "is_limit_answer",
		"limit_answer_number", "is_answer_choice", "score", "answer", "is_attr_limit",
		"attr_limit_type", "validator_regex", "is_must_answer"}

	t.Run("create", func(t *testing.T) {
		score := 2.5
		mock.ExpectQuery("INSERT INTO options AS o").
			WithArgs("o-1", "q-1", "Paris", "", 1, false, 0, true, 2.5, "", false, "", "", false).
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow("o-1", "q-1", "Paris", "", 1, false, 0, true, 2.5, "", false, "", "", false))

		o, err := repo.Create(ctx, &model.Option{ID: "o-1", QuestionID: "q-1", Title: "Paris", Ordering: 1, IsAnswerChoice: true, Score: &score})
		require.NoError(t, err)
		require.NotNil(t, o.Score)
		assert.InDelta(t, 2.5, *o.Score, 0.001)
	})

	t.Run("list by questionnaire joins questions", func(t *testing.T) {
		mock.ExpectQuery("FROM options o JOIN questions qs ON qs.id = o.question_id WHERE qs.questionnaire_id = \\$1").
			WithArgs("qn-1").
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow("o-1", "q-1", "A", "", 1, false, 0, false, nil, "", false, "", "", false).
				AddRow("o-2", "q-1", "B", "", 2, true, 10, false, nil, "", false, "", "", false))

		items, err := repo.ListByQuestionnaire(ctx, "qn-1")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Nil(t, items[0].Score)
		assert.True(t, items[1].IsLimitAnswer)
	})

	t.Run("shift", func(t *testing.T) {
		mock.ExpectExec("UPDATE options SET ordering = ordering \\+ \\$3 WHERE question_id = \\$1 AND ordering >= \\$2").
			WithArgs("q-1", 3, -1).
			WillReturnResult(sqlmock.NewResult(0, 2))

		assert.NoError(t, repo.ShiftOrdering(ctx, "q-1", 3, -1))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnswerPostgres(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewAnswerPostgres(db)
	now := time.Now().UTC()

	t.Run("create sheet without respondent", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO answer_sheets").
			WithArgs("s-1", "qn-1", nil, now, now, "10.0.0.1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "questionnaire_id", "respondent_id", "started_time", "modified_time", "ip"}).
				AddRow("s-1", "qn-1", nil, now, now, "10.0.0.1"))

		s, err := repo.CreateSheet(ctx, &model.AnswerSheet{ID: "s-1", QuestionnaireID: "qn-1", StartedTime: now, ModifiedTime: now, IP: "10.0.0.1"})
		require.NoError(t, err)
		assert.Nil(t, s.RespondentID)
	})

	t.Run("create details", func(t *testing.T) {
		text := "Ada"
		mock.ExpectExec("INSERT INTO answer_details").
			WithArgs("d-1", "s-1", "q-1", "o-1", "Ada").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO answer_details").
			WithArgs("d-2", "s-1", "q-2", "o-5", nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.CreateDetails(ctx, []model.AnswerDetail{
			{ID: "d-1", SheetID: "s-1", QuestionID: "q-1", OptionID: "o-1", Content: &text},
			{ID: "d-2", SheetID: "s-1", QuestionID: "q-2", OptionID: "o-5"},
		})
		assert.NoError(t, err)
	})

	t.Run("count by option", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(DISTINCT sheet_id\\) FROM answer_details WHERE option_id = \\$1").
			WithArgs("o-5").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

		n, err := repo.CountSheetsByOption(ctx, "o-5")
		require.NoError(t, err)
		assert.Equal(t, 12, n)
	})

	t.Run("details by questionnaire", func(t *testing.T) {
		mock.ExpectQuery("FROM answer_details d JOIN answer_sheets s ON s.id = d.sheet_id WHERE s.questionnaire_id = \\$1").
			WithArgs("qn-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "sheet_id", "question_id", "option_id", "content"}).
				AddRow("d-1", "s-1", "q-1", "o-1", "Ada").
				AddRow("d-2", "s-1", "q-2", "o-5", nil))

		items, err := repo.ListDetailsByQuestionnaire(ctx, "qn-1")
		require.NoError(t, err)
		require.Len(t, items, 2)
		require.NotNil(t, items[0].Content)
		assert.Equal(t, "Ada", *items[0].Content)
		assert.Nil(t, items[1].Content)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogicRelationPostgres(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewLogicRelationPostgres(db)

	mock.ExpectQuery("INSERT INTO question_option_logic_relations").
		WithArgs("lr-1", "q-3", "o-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "question_id", "option_id"}).AddRow("lr-1", "q-3", "o-1"))
	mock.ExpectQuery("FROM question_option_logic_relations lr JOIN questions qs").
		WithArgs("qn-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "question_id", "option_id"}).AddRow("lr-1", "q-3", "o-1"))

	lr, err := repo.Create(ctx, &model.LogicRelation{ID: "lr-1", QuestionID: "q-3", OptionID: "o-1"})
	require.NoError(t, err)
	assert.Equal(t, "o-1", lr.OptionID)

	items, err := repo.ListByQuestionnaire(ctx, "qn-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConstraintViolations(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("duplicate username", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewUserPostgres(db)

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("u-2", "alice", "hash", now).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		u, err := repo.Create(ctx, &model.User{ID: "u-2", Username: "alice", PasswordHash: "hash", DateJoined: now})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.ErrorContains(t, err, "users_username_key")
		assert.Nil(t, u)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate logic relation", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewLogicRelationPostgres(db)

		mock.ExpectQuery("INSERT INTO question_option_logic_relations").
			WithArgs("lr-2", "q-3", "o-1").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_logic_relation"})

		_, err := repo.Create(ctx, &model.LogicRelation{ID: "lr-2", QuestionID: "q-3", OptionID: "o-1"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("questionnaire author gone", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewQuestionnairePostgres(db)

		mock.ExpectExec("INSERT INTO questionnaires").
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "questionnaires_author_id_fkey"})

		_, err := repo.Create(ctx, &model.Questionnaire{ID: "qn-1", AuthorID: "u-gone", CreateDate: now, ModifyDate: now})
		assert.ErrorIs(t, err, repository.ErrMissingReference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("respondent gone", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewAnswerPostgres(db)
		respondent := "u-gone"

		mock.ExpectQuery("INSERT INTO answer_sheets").
			WillReturnError(&pgconn.PgError{Code: "23503"})

		_, err := repo.CreateSheet(ctx, &model.AnswerSheet{ID: "s-1", QuestionnaireID: "qn-1", RespondentID: &respondent})
		assert.ErrorIs(t, err, repository.ErrMissingReference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other errors pass through", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewUserPostgres(db)
		boom := errors.New("conn reset")

		mock.ExpectQuery("INSERT INTO users").WillReturnError(boom)

		_, err := repo.Create(ctx, &model.User{ID: "u-3", Username: "carol", DateJoined: now})
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, repository.ErrDuplicate)
	})
}

func TestQuestionnairePostgres_ListEscapesSearch(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := NewQuestionnairePostgres(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM questionnaires q WHERE q.title ILIKE (.+) ESCAPE").
		WithArgs(`50\%\_off\\`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("LIMIT \\$2 OFFSET \\$3").
		WithArgs(`50\%\_off\\`, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status", "type", "create_date", "last_shared_date", "answer_num"}))

	res, err := repo.List(ctx, repository.QuestionnaireFilter{Search: `50%_off\`}, repository.PageQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}
