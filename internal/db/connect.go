package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:gradematrix.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/gradematrix?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL,
  password_hash TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS enrollments (
  course_id TEXT NOT NULL,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  PRIMARY KEY (course_id, user_id)
);

CREATE TABLE IF NOT EXISTS activities (
  id TEXT PRIMARY KEY,
  course_id TEXT NOT NULL,
  title TEXT NOT NULL,
  kind TEXT NOT NULL,                -- standard|rubric|tracked
  max_score REAL NOT NULL DEFAULT 100,
  position INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS rubric_definitions (
  activity_id TEXT PRIMARY KEY REFERENCES activities(id) ON DELETE CASCADE,
  criteria_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS grade_records (
  id TEXT PRIMARY KEY,
  activity_id TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
  student_id TEXT NOT NULL,
  value REAL NOT NULL DEFAULT 0,
  grader_id TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  UNIQUE (activity_id, student_id)
);

CREATE TABLE IF NOT EXISTS grading_instances (
  id TEXT PRIMARY KEY,
  record_id TEXT NOT NULL UNIQUE REFERENCES grade_records(id) ON DELETE CASCADE,
  activity_id TEXT NOT NULL,
  raw_score REAL NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS criterion_selections (
  instance_id TEXT NOT NULL REFERENCES grading_instances(id) ON DELETE CASCADE,
  criterion_id TEXT NOT NULL,
  level_id TEXT NOT NULL,
  remark TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (instance_id, criterion_id)
);

CREATE TABLE IF NOT EXISTS feedback_notes (
  record_id TEXT PRIMARY KEY REFERENCES grade_records(id) ON DELETE CASCADE,
  body TEXT NOT NULL,
  updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS grade_cache (
  activity_id TEXT NOT NULL,
  student_id TEXT NOT NULL,
  value REAL NOT NULL,
  updated_at INTEGER NOT NULL,
  PRIMARY KEY (activity_id, student_id)
);

CREATE TABLE IF NOT EXISTS tracking_events (
  seq INTEGER PRIMARY KEY AUTOINCREMENT, -- BIGSERIAL in Postgres
  student_id TEXT NOT NULL,
  activity_id TEXT NOT NULL,
  element TEXT NOT NULL,                 -- status|completion|total_time|...
  value TEXT NOT NULL,
  at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tracking_events_pair
  ON tracking_events (student_id, activity_id);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL,
  password_hash TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS enrollments (
  course_id TEXT NOT NULL,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  PRIMARY KEY (course_id, user_id)
);

CREATE TABLE IF NOT EXISTS activities (
  id TEXT PRIMARY KEY,
  course_id TEXT NOT NULL,
  title TEXT NOT NULL,
  kind TEXT NOT NULL,
  max_score DOUBLE PRECISION NOT NULL DEFAULT 100,
  position INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS rubric_definitions (
  activity_id TEXT PRIMARY KEY REFERENCES activities(id) ON DELETE CASCADE,
  criteria_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS grade_records (
  id TEXT PRIMARY KEY,
  activity_id TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
  student_id TEXT NOT NULL,
  value DOUBLE PRECISION NOT NULL DEFAULT 0,
  grader_id TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL,
  UNIQUE (activity_id, student_id)
);

CREATE TABLE IF NOT EXISTS grading_instances (
  id TEXT PRIMARY KEY,
  record_id TEXT NOT NULL UNIQUE REFERENCES grade_records(id) ON DELETE CASCADE,
  activity_id TEXT NOT NULL,
  raw_score DOUBLE PRECISION NOT NULL DEFAULT 0,
  updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS criterion_selections (
  instance_id TEXT NOT NULL REFERENCES grading_instances(id) ON DELETE CASCADE,
  criterion_id TEXT NOT NULL,
  level_id TEXT NOT NULL,
  remark TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (instance_id, criterion_id)
);

CREATE TABLE IF NOT EXISTS feedback_notes (
  record_id TEXT PRIMARY KEY REFERENCES grade_records(id) ON DELETE CASCADE,
  body TEXT NOT NULL,
  updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS grade_cache (
  activity_id TEXT NOT NULL,
  student_id TEXT NOT NULL,
  value DOUBLE PRECISION NOT NULL,
  updated_at BIGINT NOT NULL,
  PRIMARY KEY (activity_id, student_id)
);

CREATE TABLE IF NOT EXISTS tracking_events (
  seq BIGSERIAL PRIMARY KEY,
  student_id TEXT NOT NULL,
  activity_id TEXT NOT NULL,
  element TEXT NOT NULL,
  value TEXT NOT NULL,
  at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tracking_events_pair
  ON tracking_events (student_id, activity_id);
`
