package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Mirror tables carry no foreign keys: rows arrive from concurrent queue
// workers in no particular order.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL DEFAULT '',
		email        TEXT NOT NULL DEFAULT '',
		category     TEXT NOT NULL DEFAULT 'general',
		degree       TEXT NOT NULL DEFAULT '',
		cgpa         REAL NOT NULL DEFAULT 0,
		profile_json TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS internships (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL DEFAULT '',
		company      TEXT NOT NULL DEFAULT '',
		domain       TEXT NOT NULL DEFAULT '',
		location     TEXT NOT NULL DEFAULT '',
		total_slots  INTEGER NOT NULL DEFAULT 0 CHECK(total_slots >= 0),
		filled_slots INTEGER NOT NULL DEFAULT 0 CHECK(filled_slots >= 0 AND filled_slots <= total_slots),
		start_date   TEXT,
		deadline     TEXT,
		listing_json TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS placements (
		student_id    TEXT NOT NULL,
		internship_id TEXT NOT NULL,
		score         REAL NOT NULL,
		applied_at    TEXT NOT NULL,
		PRIMARY KEY (student_id, internship_id)
	)`,
	`CREATE TABLE IF NOT EXISTS progress_records (
		student_id     TEXT NOT NULL,
		internship_id  TEXT NOT NULL,
		completion_pct REAL NOT NULL DEFAULT 0 CHECK(completion_pct >= 0 AND completion_pct <= 100),
		last_updated   TEXT NOT NULL,
		created_at     TEXT NOT NULL,
		PRIMARY KEY (student_id, internship_id)
	)`,
	`CREATE TABLE IF NOT EXISTS milestones (
		student_id    TEXT NOT NULL,
		internship_id TEXT NOT NULL,
		id            TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		due_date      TEXT,
		completed     INTEGER NOT NULL DEFAULT 0,
		completed_at  TEXT,
		feedback      TEXT NOT NULL DEFAULT '',
		order_index   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (student_id, internship_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id          TEXT PRIMARY KEY,
		author_id   TEXT NOT NULL DEFAULT '',
		target_kind TEXT NOT NULL CHECK(target_kind IN ('student','internship','event')),
		target_id   TEXT NOT NULL,
		rating      INTEGER NOT NULL CHECK(rating BETWEEN 1 AND 5),
		comment     TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id                TEXT PRIMARY KEY,
		title             TEXT NOT NULL DEFAULT '',
		kind              TEXT NOT NULL DEFAULT '',
		start_at          TEXT NOT NULL,
		end_at            TEXT NOT NULL,
		status            TEXT NOT NULL CHECK(status IN ('scheduled','cancelled')),
		participants_json TEXT NOT NULL DEFAULT '[]',
		resources_json    TEXT NOT NULL DEFAULT '[]',
		created_at        TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS resources (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		kind       TEXT NOT NULL DEFAULT '',
		capacity   INTEGER NOT NULL CHECK(capacity >= 1),
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		resource_id TEXT NOT NULL,
		event_id    TEXT NOT NULL,
		start_at    TEXT NOT NULL,
		end_at      TEXT NOT NULL,
		PRIMARY KEY (resource_id, event_id)
	)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id            TEXT PRIMARY KEY,
		target_kind   TEXT NOT NULL,
		target_id     TEXT NOT NULL DEFAULT '',
		student_id    TEXT NOT NULL DEFAULT '',
		internship_id TEXT NOT NULL DEFAULT '',
		event_id      TEXT NOT NULL DEFAULT '',
		resource_id   TEXT NOT NULL DEFAULT '',
		severity      TEXT NOT NULL CHECK(severity IN ('low','medium','high')),
		reason        TEXT NOT NULL,
		status        TEXT NOT NULL CHECK(status IN ('active','resolved')),
		created_at    TEXT NOT NULL
	)`,
	`ALTER TABLE alerts ADD COLUMN resolved_at TEXT`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_target ON feedback(target_kind, target_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_event ON bookings(event_id)`,
}
