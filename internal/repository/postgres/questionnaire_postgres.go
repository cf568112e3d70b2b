package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
)

// QuestionnairePostgres is a PostgreSQL implementation of repository.QuestionnaireRepository.
type QuestionnairePostgres struct {
	db *sql.DB
}

// NewQuestionnairePostgres creates a new QuestionnairePostgres repository.
func NewQuestionnairePostgres(db *sql.DB) *QuestionnairePostgres {
	return &QuestionnairePostgres{db: db}
}

var _ repository.QuestionnaireRepository = (*QuestionnairePostgres)(nil)

const questionnaireColumns = `q.id, q.title, q.content, q.author_id, q.create_date,
		q.first_shared_date, q.last_shared_date, q.modify_date, q.status, q.type,
		q.is_locked, q.password, q.is_required_login, q.is_only_answer_once, q.order_type,
		q.is_show_result, q.is_limit_answer, q.limit_answer_number,
		(SELECT COUNT(*) FROM answer_sheets s WHERE s.questionnaire_id = q.id) AS answer_num`

var questionnaireSortSQL = map[repository.QuestionnaireSort]string{
	repository.SortCreateDateDesc:     "q.create_date DESC, q.id DESC",
	repository.SortCreateDateAsc:      "q.create_date ASC, q.id ASC",
	repository.SortLastSharedDateDesc: "q.last_shared_date DESC NULLS LAST, q.id DESC",
	repository.SortLastSharedDateAsc:  "q.last_shared_date ASC NULLS LAST, q.id ASC",
	repository.SortAnswerNumDesc:      "answer_num DESC, q.id DESC",
	repository.SortAnswerNumAsc:       "answer_num ASC, q.id ASC",
}

// likeEscaper makes LIKE wildcards in user search text match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanQuestionnaire(row scanner) (*model.Questionnaire, error) {
	var (
		q              model.Questionnaire
		firstShared    sql.NullTime
		lastShared     sql.NullTime
		status, qnType string
		orderType      string
	)
	if err := row.Scan(
		&q.ID, &q.Title, &q.Content, &q.AuthorID, &q.CreateDate,
		&firstShared, &lastShared, &q.ModifyDate, &status, &qnType,
		&q.IsLocked, &q.Password, &q.IsRequiredLogin, &q.IsOnlyAnswerOnce, &orderType,
		&q.IsShowResult, &q.IsLimitAnswer, &q.LimitAnswerNumber,
		&q.AnswerNum,
	); err != nil {
		return nil, err
	}
	q.FirstSharedDate = timePtr(firstShared)
	q.LastSharedDate = timePtr(lastShared)
	q.Status = model.QuestionnaireStatus(status)
	q.Type = model.QuestionnaireType(qnType)
	q.OrderType = model.OrderType(orderType)
	return &q, nil
}

// Create inserts a questionnaire and returns the stored row.
func (r *QuestionnairePostgres) Create(ctx context.Context, q *model.Questionnaire) (*model.Questionnaire, error) {
	const ins = `
		INSERT INTO questionnaires (id, title, content, author_id, create_date,
			first_shared_date, last_shared_date, modify_date, status, type,
			is_locked, password, is_required_login, is_only_answer_once, order_type,
			is_show_result, is_limit_answer, limit_answer_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	if _, err := conn(ctx, r.db).ExecContext(ctx, ins,
		q.ID, q.Title, q.Content, q.AuthorID, q.CreateDate,
		nullTime(q.FirstSharedDate), nullTime(q.LastSharedDate), q.ModifyDate, string(q.Status), string(q.Type),
		q.IsLocked, q.Password, q.IsRequiredLogin, q.IsOnlyAnswerOnce, string(q.OrderType),
		q.IsShowResult, q.IsLimitAnswer, q.LimitAnswerNumber,
	); err != nil {
		return nil, constraintErr(err)
	}
	return r.FindByID(ctx, q.ID)
}

// FindByID fetches a single questionnaire by its ID.
func (r *QuestionnairePostgres) FindByID(ctx context.Context, id string) (*model.Questionnaire, error) {
	const q = `SELECT ` + questionnaireColumns + ` FROM questionnaires q WHERE q.id = $1`
	return scanQuestionnaire(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// FindByIDForUpdate fetches and row-locks a questionnaire. It must run inside a transaction.
func (r *QuestionnairePostgres) FindByIDForUpdate(ctx context.Context, id string) (*model.Questionnaire, error) {
	const q = `SELECT ` + questionnaireColumns + ` FROM questionnaires q WHERE q.id = $1 FOR UPDATE`
	return scanQuestionnaire(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// List returns questionnaire summaries matching f with a total count.
func (r *QuestionnairePostgres) List(ctx context.Context, f repository.QuestionnaireFilter, pq repository.PageQuery) (*repository.PageResult[model.QuestionnaireSummary], error) {
	var (
		where []string
		args  []any
	)
	if f.Search != "" {
		args = append(args, likeEscaper.Replace(f.Search))
		where = append(where, fmt.Sprintf(`q.title ILIKE '%%' || $%d || '%%' ESCAPE '\'`, len(args)))
	}
	if f.AuthorID != "" {
		args = append(args, f.AuthorID)
		where = append(where, fmt.Sprintf("q.author_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("q.status = $%d", len(args)))
	}
	if f.ExcludeStatus != "" {
		args = append(args, string(f.ExcludeStatus))
		where = append(where, fmt.Sprintf("q.status <> $%d", len(args)))
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	db := conn(ctx, r.db)

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM questionnaires q"+whereSQL, args...).Scan(&total); err != nil {
		return nil, err
	}

	orderBy, ok := questionnaireSortSQL[f.Sort]
	if !ok {
		orderBy = questionnaireSortSQL[repository.SortCreateDateDesc]
	}
	args = append(args, pq.Limit, pq.Offset)
	qList := fmt.Sprintf(`
		SELECT q.id, q.title, q.status, q.type, q.create_date, q.last_shared_date,
			(SELECT COUNT(*) FROM answer_sheets s WHERE s.questionnaire_id = q.id) AS answer_num
		FROM questionnaires q%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, whereSQL, orderBy, len(args)-1, len(args))

	rows, err := db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.QuestionnaireSummary, 0)
	for rows.Next() {
		var (
			s              model.QuestionnaireSummary
			status, qnType string
			lastShared     sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.Title, &status, &qnType, &s.CreateDate, &lastShared, &s.AnswerNum); err != nil {
			return nil, err
		}
		s.Status = model.QuestionnaireStatus(status)
		s.Type = model.QuestionnaireType(qnType)
		s.LastSharedDate = timePtr(lastShared)
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.QuestionnaireSummary]{Items: items, Total: total}, nil
}

// Update overwrites every mutable column of the questionnaire.
func (r *QuestionnairePostgres) Update(ctx context.Context, q *model.Questionnaire) (*model.Questionnaire, error) {
	const upd = `
		UPDATE questionnaires SET
			title = $2, content = $3, first_shared_date = $4, last_shared_date = $5,
			modify_date = $6, status = $7, type = $8, is_locked = $9, password = $10,
			is_required_login = $11, is_only_answer_once = $12, order_type = $13,
			is_show_result = $14, is_limit_answer = $15, limit_answer_number = $16
		WHERE id = $1
	`
	res, err := conn(ctx, r.db).ExecContext(ctx, upd,
		q.ID, q.Title, q.Content, nullTime(q.FirstSharedDate), nullTime(q.LastSharedDate),
		q.ModifyDate, string(q.Status), string(q.Type), q.IsLocked, q.Password,
		q.IsRequiredLogin, q.IsOnlyAnswerOnce, string(q.OrderType),
		q.IsShowResult, q.IsLimitAnswer, q.LimitAnswerNumber,
	)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, q.ID)
}

// Delete removes a questionnaire; questions, options, sheets and details cascade.
func (r *QuestionnairePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM questionnaires WHERE id = $1`
	_, err := conn(ctx, r.db).ExecContext(ctx, q, id)
	return err
}
