package db

import (
	"database/sql"
	"fmt"
)

// Migrate creates the schema. Every statement is idempotent, so it runs on
// each open.
func Migrate(database *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := database.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS schedules (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		date        TEXT NOT NULL,
		time        TEXT NOT NULL DEFAULT '',
		all_day     INTEGER NOT NULL DEFAULT 0,
		owner       TEXT NOT NULL DEFAULT '',
		completed   INTEGER NOT NULL DEFAULT 0,
		position    INTEGER NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_schedules_position ON schedules(position)`,

	// target_id has no foreign key; relations to a deleted schedule dangle.
	`CREATE TABLE IF NOT EXISTS relations (
		schedule_id TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		target_id   TEXT NOT NULL,
		type        TEXT NOT NULL CHECK(type IN ('parent','parallel')),
		ordinal     INTEGER NOT NULL,
		PRIMARY KEY (schedule_id, target_id, type)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_relations_target ON relations(target_id)`,

	`CREATE TABLE IF NOT EXISTS backups (
		date        TEXT PRIMARY KEY,
		created_at  TEXT NOT NULL,
		data        TEXT NOT NULL
	)`,
}
