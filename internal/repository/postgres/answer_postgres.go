package postgres

import (
	"context"
	"database/sql"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
)

// AnswerPostgres is a PostgreSQL implementation of repository.AnswerRepository.
type AnswerPostgres struct {
	db *sql.DB
}

// NewAnswerPostgres creates a new AnswerPostgres repository.
func NewAnswerPostgres(db *sql.DB) *AnswerPostgres {
	return &AnswerPostgres{db: db}
}

var _ repository.AnswerRepository = (*AnswerPostgres)(nil)

const (
	sheetColumns  = `id, questionnaire_id, respondent_id, started_time, modified_time, ip`
	detailColumns = `d.id, d.sheet_id, d.question_id, d.option_id, d.content`
)

func scanSheet(row scanner) (*model.AnswerSheet, error) {
	var (
		s          model.AnswerSheet
		respondent sql.NullString
	)
	if err := row.Scan(&s.ID, &s.QuestionnaireID, &respondent, &s.StartedTime, &s.ModifiedTime, &s.IP); err != nil {
		return nil, err
	}
	s.RespondentID = stringPtr(respondent)
	return &s, nil
}

func scanDetail(row scanner) (*model.AnswerDetail, error) {
	var (
		d       model.AnswerDetail
		content sql.NullString
	)
	if err := row.Scan(&d.ID, &d.SheetID, &d.QuestionID, &d.OptionID, &content); err != nil {
		return nil, err
	}
	d.Content = stringPtr(content)
	return &d, nil
}

func collectSheets(rows *sql.Rows) ([]model.AnswerSheet, error) {
	defer rows.Close()
	items := make([]model.AnswerSheet, 0)
	for rows.Next() {
		s, err := scanSheet(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func collectDetails(rows *sql.Rows) ([]model.AnswerDetail, error) {
	defer rows.Close()
	items := make([]model.AnswerDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *AnswerPostgres) CreateSheet(ctx context.Context, s *model.AnswerSheet) (*model.AnswerSheet, error) {
	const q = `
		INSERT INTO answer_sheets (id, questionnaire_id, respondent_id, started_time, modified_time, ip)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + sheetColumns
	return inserted(scanSheet(conn(ctx, r.db).QueryRowContext(ctx, q,
		s.ID, s.QuestionnaireID, nullString(s.RespondentID), s.StartedTime, s.ModifiedTime, s.IP,
	)))
}

// CreateDetails inserts details one row at a time on the ctx connection.
func (r *AnswerPostgres) CreateDetails(ctx context.Context, details []model.AnswerDetail) error {
	const q = `
		INSERT INTO answer_details (id, sheet_id, question_id, option_id, content)
		VALUES ($1, $2, $3, $4, $5)
	`
	db := conn(ctx, r.db)
	for _, d := range details {
		if _, err := db.ExecContext(ctx, q, d.ID, d.SheetID, d.QuestionID, d.OptionID, nullString(d.Content)); err != nil {
			return err
		}
	}
	return nil
}

func (r *AnswerPostgres) FindSheet(ctx context.Context, id string) (*model.AnswerSheet, error) {
	const q = `SELECT ` + sheetColumns + ` FROM answer_sheets WHERE id = $1`
	return scanSheet(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// ListSheets returns a page of sheets, newest first, with the total count.
func (r *AnswerPostgres) ListSheets(ctx context.Context, questionnaireID string, pq repository.PageQuery) (*repository.PageResult[model.AnswerSheet], error) {
	db := conn(ctx, r.db)

	const qCount = `SELECT COUNT(*) FROM answer_sheets WHERE questionnaire_id = $1`
	var total int
	if err := db.QueryRowContext(ctx, qCount, questionnaireID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + sheetColumns + `
		FROM answer_sheets
		WHERE questionnaire_id = $1
		ORDER BY modified_time DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := db.QueryContext(ctx, qList, questionnaireID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	items, err := collectSheets(rows)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.AnswerSheet]{Items: items, Total: total}, nil
}

func (r *AnswerPostgres) ListAllSheets(ctx context.Context, questionnaireID string) ([]model.AnswerSheet, error) {
	const q = `
		SELECT ` + sheetColumns + `
		FROM answer_sheets
		WHERE questionnaire_id = $1
		ORDER BY modified_time ASC, id ASC
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, questionnaireID)
	if err != nil {
		return nil, err
	}
	return collectSheets(rows)
}

func (r *AnswerPostgres) ListDetailsBySheet(ctx context.Context, sheetID string) ([]model.AnswerDetail, error) {
	const q = `
		SELECT ` + detailColumns + `
		FROM answer_details d
		JOIN questions qs ON qs.id = d.question_id
		JOIN options o ON o.id = d.option_id
		WHERE d.sheet_id = $1
		ORDER BY qs.ordering ASC, o.ordering ASC
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, sheetID)
	if err != nil {
		return nil, err
	}
	return collectDetails(rows)
}

func (r *AnswerPostgres) ListDetailsByQuestionnaire(ctx context.Context, questionnaireID string) ([]model.AnswerDetail, error) {
	const q = `
		SELECT ` + detailColumns + `
		FROM answer_details d
		JOIN answer_sheets s ON s.id = d.sheet_id
		WHERE s.questionnaire_id = $1
		ORDER BY d.sheet_id ASC
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, questionnaireID)
	if err != nil {
		return nil, err
	}
	return collectDetails(rows)
}

// DeleteSheet removes a sheet; its details cascade.
func (r *AnswerPostgres) DeleteSheet(ctx context.Context, id string) error {
	const q = `DELETE FROM answer_sheets WHERE id = $1`
	_, err := conn(ctx, r.db).ExecContext(ctx, q, id)
	return err
}

func (r *AnswerPostgres) count(ctx context.Context, q string, args ...any) (int, error) {
	var n int
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *AnswerPostgres) CountSheets(ctx context.Context, questionnaireID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM answer_sheets WHERE questionnaire_id = $1`, questionnaireID)
}

func (r *AnswerPostgres) CountSheetsByRespondent(ctx context.Context, questionnaireID, respondentID string) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM answer_sheets WHERE questionnaire_id = $1 AND respondent_id = $2`,
		questionnaireID, respondentID)
}

func (r *AnswerPostgres) CountSheetsByQuestion(ctx context.Context, questionID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(DISTINCT sheet_id) FROM answer_details WHERE question_id = $1`, questionID)
}

func (r *AnswerPostgres) CountSheetsByOption(ctx context.Context, optionID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(DISTINCT sheet_id) FROM answer_details WHERE option_id = $1`, optionID)
}
