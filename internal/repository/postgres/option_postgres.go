package postgres

import (
	"context"
	"database/sql"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
)

// OptionPostgres is a PostgreSQL implementation of repository.OptionRepository.
type OptionPostgres struct {
	db *sql.DB
}

// NewOptionPostgres creates a new OptionPostgres repository.
func NewOptionPostgres(db *sql.DB) *OptionPostgres {
	return &OptionPostgres{db: db}
}

var _ repository.OptionRepository = (*OptionPostgres)(nil)

const optionColumns = `o.id, o.question_id, o.title, o.content, o.ordering, o.is_limit_answer,
		o.limit_answer_number, o.is_answer_choice, o.score, o.answer, o.is_attr_limit,
		o.attr_limit_type, o.validator_regex, o.is_must_answer`

func scanOption(row scanner) (*model.Option, error) {
	var (
		o     model.Option
		score sql.NullFloat64
	)
	if err := row.Scan(
		&o.ID, &o.QuestionID, &o.Title, &o.Content, &o.Ordering, &o.IsLimitAnswer,
		&o.LimitAnswerNumber, &o.IsAnswerChoice, &score, &o.Answer, &o.IsAttrLimit,
		&o.AttrLimitType, &o.ValidatorRegex, &o.IsMustAnswer,
	); err != nil {
		return nil, err
	}
	if score.Valid {
		v := score.Float64
		o.Score = &v
	}
	return &o, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func (r *OptionPostgres) scanAll(rows *sql.Rows) ([]model.Option, error) {
	defer rows.Close()
	items := make([]model.Option, 0)
	for rows.Next() {
		item, err := scanOption(rows)
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

// Create inserts an option at its ordering; callers shift siblings first.
func (r *OptionPostgres) Create(ctx context.Context, o *model.Option) (*model.Option, error) {
	const ins = `
		INSERT INTO options AS o (id, question_id, title, content, ordering, is_limit_answer,
			limit_answer_number, is_answer_choice, score, answer, is_attr_limit,
			attr_limit_type, validator_regex, is_must_answer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + optionColumns
	return scanOption(conn(ctx, r.db).QueryRowContext(ctx, ins,
		o.ID, o.QuestionID, o.Title, o.Content, o.Ordering, o.IsLimitAnswer,
		o.LimitAnswerNumber, o.IsAnswerChoice, nullFloat(o.Score), o.Answer, o.IsAttrLimit,
		o.AttrLimitType, o.ValidatorRegex, o.IsMustAnswer,
	))
}

func (r *OptionPostgres) FindByID(ctx context.Context, id string) (*model.Option, error) {
	const q = `SELECT ` + optionColumns + ` FROM options o WHERE o.id = $1`
	return scanOption(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

func (r *OptionPostgres) ListByQuestion(ctx context.Context, questionID string) ([]model.Option, error) {
	const q = `SELECT ` + optionColumns + ` FROM options o WHERE o.question_id = $1 ORDER BY o.ordering ASC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, questionID)
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

func (r *OptionPostgres) ListByQuestionnaire(ctx context.Context, questionnaireID string) ([]model.Option, error) {
	const q = `
		SELECT ` + optionColumns + `
		FROM options o
		JOIN questions qs ON qs.id = o.question_id
		WHERE qs.questionnaire_id = $1
		ORDER BY qs.ordering ASC, o.ordering ASC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, questionnaireID)
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

// Update overwrites the option's mutable columns, ordering included.
func (r *OptionPostgres) Update(ctx context.Context, o *model.Option) (*model.Option, error) {
	const upd = `
		UPDATE options AS o SET
			title = $2, content = $3, ordering = $4, is_limit_answer = $5, limit_answer_number = $6,
			is_answer_choice = $7, score = $8, answer = $9, is_attr_limit = $10,
			attr_limit_type = $11, validator_regex = $12, is_must_answer = $13
		WHERE o.id = $1
		RETURNING ` + optionColumns
	return scanOption(conn(ctx, r.db).QueryRowContext(ctx, upd,
		o.ID, o.Title, o.Content, o.Ordering, o.IsLimitAnswer, o.LimitAnswerNumber,
		o.IsAnswerChoice, nullFloat(o.Score), o.Answer, o.IsAttrLimit,
		o.AttrLimitType, o.ValidatorRegex, o.IsMustAnswer,
	))
}

func (r *OptionPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM options WHERE id = $1`
	_, err := conn(ctx, r.db).ExecContext(ctx, q, id)
	return err
}

func (r *OptionPostgres) Count(ctx context.Context, questionID string) (int, error) {
	const q = `SELECT COUNT(*) FROM options WHERE question_id = $1`
	var n int
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, questionID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *OptionPostgres) SetOrdering(ctx context.Context, id string, ordering int) error {
	const q = `UPDATE options SET ordering = $2 WHERE id = $1`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, id, ordering)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *OptionPostgres) ShiftOrdering(ctx context.Context, questionID string, from, delta int) error {
	const q = `UPDATE options SET ordering = ordering + $3 WHERE question_id = $1 AND ordering >= $2`
	_, err := conn(ctx, r.db).ExecContext(ctx, q, questionID, from, delta)
	return err
}

func (r *OptionPostgres) Lock(ctx context.Context, id string) error {
	const q = `SELECT id FROM options WHERE id = $1 FOR UPDATE`
	var got string
	return conn(ctx, r.db).QueryRowContext(ctx, q, id).Scan(&got)
}
