package postgres

import (
	"context"
	"database/sql"

	"surveyapi/internal/model"
	"surveyapi/internal/repository"
)

// LogicRelationPostgres is a PostgreSQL implementation of repository.LogicRelationRepository.
type LogicRelationPostgres struct {
	db *sql.DB
}

// NewLogicRelationPostgres creates a new LogicRelationPostgres repository.
func NewLogicRelationPostgres(db *sql.DB) *LogicRelationPostgres {
	return &LogicRelationPostgres{db: db}
}

var _ repository.LogicRelationRepository = (*LogicRelationPostgres)(nil)

func scanLogicRelation(row scanner) (*model.LogicRelation, error) {
	var lr model.LogicRelation
	if err := row.Scan(&lr.ID, &lr.QuestionID, &lr.OptionID); err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *LogicRelationPostgres) Create(ctx context.Context, lr *model.LogicRelation) (*model.LogicRelation, error) {
	const q = `
		INSERT INTO question_option_logic_relations (id, question_id, option_id)
		VALUES ($1, $2, $3)
		RETURNING id, question_id, option_id
	`
	return inserted(scanLogicRelation(conn(ctx, r.db).QueryRowContext(ctx, q, lr.ID, lr.QuestionID, lr.OptionID)))
}

func (r *LogicRelationPostgres) FindByID(ctx context.Context, id string) (*model.LogicRelation, error) {
	const q = `SELECT id, question_id, option_id FROM question_option_logic_relations WHERE id = $1`
	return scanLogicRelation(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

func (r *LogicRelationPostgres) ListByQuestionnaire(ctx context.Context, questionnaireID string) ([]model.LogicRelation, error) {
	const q = `
		SELECT lr.id, lr.question_id, lr.option_id
		FROM question_option_logic_relations lr
		JOIN questions qs ON qs.id = lr.question_id
		WHERE qs.questionnaire_id = $1
		ORDER BY qs.ordering ASC, lr.id ASC
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, questionnaireID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.LogicRelation, 0)
	for rows.Next() {
		lr, err := scanLogicRelation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *lr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *LogicRelationPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM question_option_logic_relations WHERE id = $1`
	_, err := conn(ctx, r.db).ExecContext(ctx, q, id)
	return err
}
