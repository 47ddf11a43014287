package store

import (
	"context"
	"fmt"
)

// DDL shared by SQLite and Postgres. Timestamps are fixed-width UTC text so
// they sort correctly on both.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS words (
		id            BIGINT PRIMARY KEY,
		word          TEXT NOT NULL,
		components    TEXT NOT NULL DEFAULT '[]',
		meaning_count INTEGER NOT NULL DEFAULT 0,
		categories    TEXT NOT NULL DEFAULT '[]',
		level         TEXT NOT NULL DEFAULT '',
		frequency     DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS phrases (
		id            BIGINT PRIMARY KEY,
		word_ids      TEXT NOT NULL DEFAULT '[]',
		meaning_count INTEGER NOT NULL DEFAULT 0,
		categories    TEXT NOT NULL DEFAULT '[]',
		level         TEXT NOT NULL DEFAULT '',
		frequency     DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS word_groups (
		id         BIGINT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		members    TEXT NOT NULL DEFAULT '[]',
		categories TEXT NOT NULL DEFAULT '[]',
		level      TEXT NOT NULL DEFAULT '',
		frequency  DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id        BIGINT PRIMARY KEY,
		categories     TEXT NOT NULL DEFAULT '[]',
		current_level  TEXT NOT NULL DEFAULT '',
		target_level   TEXT NOT NULL DEFAULT '',
		desired_level  TEXT NOT NULL DEFAULT '',
		daily_minutes  INTEGER NOT NULL DEFAULT 0,
		learning_speed DOUBLE PRECISION NOT NULL DEFAULT 0,
		region         TEXT NOT NULL DEFAULT '',
		public         BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS review_records (
		user_id      BIGINT NOT NULL,
		item_type    TEXT NOT NULL,
		item_id      BIGINT NOT NULL,
		state        TEXT,
		logs         TEXT NOT NULL DEFAULT '[]',
		last_answer  TEXT NOT NULL DEFAULT '',
		last_correct BOOLEAN,
		last_rating  INTEGER NOT NULL DEFAULT 0,
		in_rotation  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		version      BIGINT NOT NULL DEFAULT 1,
		PRIMARY KEY (user_id, item_type, item_id)
	)`,
	`CREATE INDEX IF NOT EXISTS review_records_rotation ON review_records (user_id, in_rotation)`,
	`CREATE TABLE IF NOT EXISTS study_sets (
		id             TEXT PRIMARY KEY,
		user_id        BIGINT NOT NULL,
		standalone_ids TEXT NOT NULL,
		compound_ids   TEXT NOT NULL,
		group_ids      TEXT NOT NULL,
		created_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS study_sets_user ON study_sets (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS root_study_sets (
		id             TEXT PRIMARY KEY,
		user_id        BIGINT NOT NULL,
		root           TEXT NOT NULL,
		standalone_ids TEXT NOT NULL,
		compound_ids   TEXT NOT NULL,
		group_ids      TEXT NOT NULL,
		created_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS root_study_sets_user ON root_study_sets (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS answer_errors (
		id             TEXT PRIMARY KEY,
		user_id        BIGINT NOT NULL,
		item_type      TEXT NOT NULL,
		item_id        BIGINT NOT NULL,
		correct_text   TEXT NOT NULL,
		submitted_text TEXT NOT NULL,
		category       TEXT NOT NULL,
		rationale      TEXT NOT NULL DEFAULT '',
		fallback       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS answer_errors_user ON answer_errors (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS llm_events (
		id            TEXT PRIMARY KEY,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    BIGINT NOT NULL DEFAULT 0,
		success       BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
