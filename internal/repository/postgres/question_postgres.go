package postgres

import (
	"context"
	"database/sql"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
)

// QuestionPostgres is a PostgreSQL implementation of repository.QuestionRepository.
type QuestionPostgres struct {
	db *sql.DB
}

// NewQuestionPostgres creates a new QuestionPostgres repository.
func NewQuestionPostgres(db *sql.DB) *QuestionPostgres {
	return &QuestionPostgres{db: db}
}

var _ repository.QuestionRepository = (*QuestionPostgres)(nil)

const questionColumns = `id, questionnaire_id, title, content, type, order_type, modify_date,
		ordering, is_must_answer, is_limit_answer, limit_answer_number, is_scoring,
		question_score, answer`

func scanQuestion(row scanner) (*model.Question, error) {
	var (
		q              model.Question
		qType, ordType string
		score          sql.NullInt64
	)
	if err := row.Scan(
		&q.ID, &q.QuestionnaireID, &q.Title, &q.Content, &qType, &ordType, &q.ModifyDate,
		&q.Ordering, &q.IsMustAnswer, &q.IsLimitAnswer, &q.LimitAnswerNumber, &q.IsScoring,
		&score, &q.Answer,
	); err != nil {
		return nil, err
	}
	q.Type = model.QuestionType(qType)
	q.OrderType = model.OrderType(ordType)
	if score.Valid {
		v := int(score.Int64)
		q.QuestionScore = &v
	}
	return &q, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// Create inserts a question at its ordering; callers shift siblings first.
func (r *QuestionPostgres) Create(ctx context.Context, q *model.Question) (*model.Question, error) {
	const ins = `
		INSERT INTO questions (id, questionnaire_id, title, content, type, order_type, modify_date,
			ordering, is_must_answer, is_limit_answer, limit_answer_number, is_scoring,
			question_score, answer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + questionColumns
	return scanQuestion(conn(ctx, r.db).QueryRowContext(ctx, ins,
		q.ID, q.QuestionnaireID, q.Title, q.Content, string(q.Type), string(q.OrderType), q.ModifyDate,
		q.Ordering, q.IsMustAnswer, q.IsLimitAnswer, q.LimitAnswerNumber, q.IsScoring,
		nullInt(q.QuestionScore), q.Answer,
	))
}

func (r *QuestionPostgres) FindByID(ctx context.Context, id string) (*model.Question, error) {
	const q = `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	return scanQuestion(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// ListByQuestionnaire returns the questionnaire's questions by ordering.
func (r *QuestionPostgres) ListByQuestionnaire(ctx context.Context, questionnaireID string) ([]model.Question, error) {
	const q = `SELECT ` + questionColumns + ` FROM questions WHERE questionnaire_id = $1 ORDER BY ordering ASC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, questionnaireID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Question, 0)
	for rows.Next() {
		item, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update overwrites the question's mutable columns, ordering included.
func (r *QuestionPostgres) Update(ctx context.Context, q *model.Question) (*model.Question, error) {
	const upd = `
		UPDATE questions SET
			title = $2, content = $3, type = $4, order_type = $5, modify_date = $6,
			ordering = $7, is_must_answer = $8, is_limit_answer = $9, limit_answer_number = $10,
			is_scoring = $11, question_score = $12, answer = $13
		WHERE id = $1
		RETURNING ` + questionColumns
	return scanQuestion(conn(ctx, r.db).QueryRowContext(ctx, upd,
		q.ID, q.Title, q.Content, string(q.Type), string(q.OrderType), q.ModifyDate,
		q.Ordering, q.IsMustAnswer, q.IsLimitAnswer, q.LimitAnswerNumber,
		q.IsScoring, nullInt(q.QuestionScore), q.Answer,
	))
}

func (r *QuestionPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM questions WHERE id = $1`
	_, err := conn(ctx, r.db).ExecContext(ctx, q, id)
	return err
}

func (r *QuestionPostgres) Count(ctx context.Context, questionnaireID string) (int, error) {
	const q = `SELECT COUNT(*) FROM questions WHERE questionnaire_id = $1`
	var n int
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, questionnaireID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *QuestionPostgres) SetOrdering(ctx context.Context, id string, ordering int) error {
	const q = `UPDATE questions SET ordering = $2 WHERE id = $1`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, id, ordering)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *QuestionPostgres) ShiftOrdering(ctx context.Context, questionnaireID string, from, delta int) error {
	const q = `UPDATE questions SET ordering = ordering + $3 WHERE questionnaire_id = $1 AND ordering >= $2`
	_, err := conn(ctx, r.db).ExecContext(ctx, q, questionnaireID, from, delta)
	return err
}

func (r *QuestionPostgres) Lock(ctx context.Context, id string) error {
	const q = `SELECT id FROM questions WHERE id = $1 FOR UPDATE`
	var got string
	return conn(ctx, r.db).QueryRowContext(ctx, q, id).Scan(&got)
}
