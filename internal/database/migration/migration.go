package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelQuery reports whether the last table created by steps already exists.
const sentinelQuery = "SELECT to_regclass('public.question_option_logic_relations') IS NOT NULL"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID         PRIMARY KEY DEFAULT uuid_generate_v4(),
  username      VARCHAR(150) NOT NULL UNIQUE,
  password_hash TEXT         NOT NULL,
  date_joined   TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_questionnaires",
		SQL: `CREATE TABLE IF NOT EXISTS questionnaires (
  id                  UUID         PRIMARY KEY DEFAULT uuid_generate_v4(),
  title               VARCHAR(255) NOT NULL,
  content             TEXT         NOT NULL DEFAULT '',
  author_id           UUID         NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  create_date         TIMESTAMPTZ  NOT NULL DEFAULT now(),
  first_shared_date   TIMESTAMPTZ,
  last_shared_date    TIMESTAMPTZ,
  modify_date         TIMESTAMPTZ  NOT NULL DEFAULT now(),
  status              VARCHAR(50)  NOT NULL DEFAULT 'closed' CHECK (status IN ('deleted', 'shared', 'closed')),
  type                VARCHAR(50)  NOT NULL DEFAULT 'normal' CHECK (type IN ('normal', 'vote', 'exam', 'signup')),
  is_locked           BOOLEAN      NOT NULL DEFAULT false,
  password            VARCHAR(255) NOT NULL DEFAULT '',
  is_required_login   BOOLEAN      NOT NULL DEFAULT false,
  is_only_answer_once BOOLEAN      NOT NULL DEFAULT false,
  order_type          VARCHAR(50)  NOT NULL DEFAULT 'order' CHECK (order_type IN ('order', 'disorder')),
  is_show_result      BOOLEAN      NOT NULL DEFAULT false,
  is_limit_answer     BOOLEAN      NOT NULL DEFAULT false,
  limit_answer_number INTEGER      NOT NULL DEFAULT 0 CHECK (limit_answer_number >= 0)
);`,
	},
	{
		Name: "create_table_questions",
		SQL: `CREATE TABLE IF NOT EXISTS questions (
  id                  UUID         PRIMARY KEY DEFAULT uuid_generate_v4(),
  questionnaire_id    UUID         NOT NULL REFERENCES questionnaires (id) ON DELETE CASCADE,
  title               VARCHAR(255) NOT NULL,
  content             TEXT         NOT NULL DEFAULT '',
  type                VARCHAR(50)  NOT NULL CHECK (type IN ('single-choice', 'multiple-choice', 'completion', 'scoring')),
  order_type          VARCHAR(50)  NOT NULL DEFAULT 'order' CHECK (order_type IN ('order', 'disorder')),
  modify_date         TIMESTAMPTZ  NOT NULL DEFAULT now(),
  ordering            INTEGER      NOT NULL CHECK (ordering > 0),
  is_must_answer      BOOLEAN      NOT NULL DEFAULT false,
  is_limit_answer     BOOLEAN      NOT NULL DEFAULT false,
  limit_answer_number INTEGER      NOT NULL DEFAULT 0 CHECK (limit_answer_number >= 0),
  is_scoring          BOOLEAN      NOT NULL DEFAULT false,
  question_score      INTEGER,
  answer              TEXT         NOT NULL DEFAULT '',
  CONSTRAINT uq_questions_ordering UNIQUE (questionnaire_id, ordering) DEFERRABLE INITIALLY DEFERRED
);`,
	},
	{
		Name: "create_table_options",
		SQL: `CREATE TABLE IF NOT EXISTS options (
  id                  UUID         PRIMARY KEY DEFAULT uuid_generate_v4(),
  question_id         UUID         NOT NULL REFERENCES questions (id) ON DELETE CASCADE,
  title               VARCHAR(255) NOT NULL,
  content             TEXT         NOT NULL DEFAULT '',
  ordering            INTEGER      NOT NULL CHECK (ordering > 0),
  is_limit_answer     BOOLEAN      NOT NULL DEFAULT false,
  limit_answer_number INTEGER      NOT NULL DEFAULT 0 CHECK (limit_answer_number >= 0),
  is_answer_choice    BOOLEAN      NOT NULL DEFAULT false,
  score               NUMERIC(4,1),
  answer              VARCHAR(255) NOT NULL DEFAULT '',
  is_attr_limit       BOOLEAN      NOT NULL DEFAULT false,
  attr_limit_type     VARCHAR(255) NOT NULL DEFAULT '',
  validator_regex     VARCHAR(255) NOT NULL DEFAULT '',
  is_must_answer      BOOLEAN      NOT NULL DEFAULT false,
  CONSTRAINT uq_options_ordering UNIQUE (question_id, ordering) DEFERRABLE INITIALLY DEFERRED
);`,
	},
	{
		Name: "create_table_answer_sheets",
		SQL: `CREATE TABLE IF NOT EXISTS answer_sheets (
  id               UUID         PRIMARY KEY DEFAULT uuid_generate_v4(),
  questionnaire_id UUID         NOT NULL REFERENCES questionnaires (id) ON DELETE CASCADE,
  respondent_id    UUID         REFERENCES users (id) ON DELETE SET NULL,
  started_time     TIMESTAMPTZ  NOT NULL DEFAULT now(),
  modified_time    TIMESTAMPTZ  NOT NULL DEFAULT now(),
  ip               VARCHAR(255) NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_table_answer_details",
		SQL: `CREATE TABLE IF NOT EXISTS answer_details (
  id          UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  sheet_id    UUID NOT NULL REFERENCES answer_sheets (id) ON DELETE CASCADE,
  question_id UUID NOT NULL REFERENCES questions (id) ON DELETE CASCADE,
  option_id   UUID NOT NULL REFERENCES options (id) ON DELETE CASCADE,
  content     TEXT
);`,
	},
	{
		Name: "create_index_questionnaires_author",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_questionnaires_author_status ON questionnaires (author_id, status);`,
	},
	{
		Name: "create_index_answer_sheets_questionnaire",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_answer_sheets_questionnaire ON answer_sheets (questionnaire_id, respondent_id);`,
	},
	{
		Name: "create_index_answer_details_question",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_answer_details_question ON answer_details (question_id, sheet_id);`,
	},
	{
		Name: "create_index_answer_details_option",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_answer_details_option ON answer_details (option_id, sheet_id);`,
	},
	{
		Name: "create_table_question_option_logic_relations",
		SQL: `CREATE TABLE IF NOT EXISTS question_option_logic_relations (
  id          UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  question_id UUID NOT NULL REFERENCES questions (id) ON DELETE CASCADE,
  option_id   UUID NOT NULL REFERENCES options (id) ON DELETE CASCADE,
  CONSTRAINT uq_logic_relation UNIQUE (question_id, option_id)
);`,
	},
}

// EnsureMigrated checks whether the survey schema exists and creates it if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)
	log.Info("db_migration_check", "status", "starting")

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			"status", "success",
			"detail", "schema already exists, skipping migration",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.Info("db_migration_start", "status", "in_progress", "steps", len(steps))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Debug("db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
