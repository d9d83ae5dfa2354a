package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

// Driver selects the SQL backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Store persists categories, questions, exams and attempts.
type Store struct {
	db     *sql.DB
	driver Driver
}

// New opens the database and ensures the schema exists. For sqlite, dsn is a
// file path or ":memory:"; for postgres it is a connection URL.
func New(driver Driver, dsn string) (*Store, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite"
		if dsn == "" {
			dsn = "smarttrainer.db"
		}
		if dsn != ":memory:" && !strings.Contains(dsn, "?") {
			dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		}
	case DriverPostgres:
		drvName = "pgx"
		if dsn == "" {
			dsn = "postgres://localhost:5432/smarttrainer?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if driver == DriverSQLite {
		// Each sqlite connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := schemaSQLite
	if s.driver == DriverPostgres {
		schema = schemaPostgres
	}
	_, err := s.db.Exec(schema)
	return err
}

// q rewrites ?-placeholders into $n for postgres.
func (s *Store) q(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// withTx runs fn in a transaction, committing when fn returns nil.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func now() time.Time {
	return time.Now().UTC()
}

type scanner interface {
	Scan(dest ...any) error
}

// dbtx is implemented by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT,
	color TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
	question TEXT NOT NULL,
	options TEXT NOT NULL,
	correct_answer INTEGER NOT NULL,
	difficulty TEXT NOT NULL DEFAULT 'medium',
	explanation TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_questions_category ON questions(category_id);

CREATE TABLE IF NOT EXISTS exams (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT,
	category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
	duration_minutes INTEGER NOT NULL,
	total_questions INTEGER NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS exam_attempts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	exam_id INTEGER NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
	score REAL NOT NULL DEFAULT 0,
	total_questions INTEGER NOT NULL,
	correct_answers INTEGER NOT NULL,
	time_taken_minutes INTEGER NOT NULL DEFAULT 0,
	answers TEXT NOT NULL,
	completed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_attempts_exam ON exam_attempts(exam_id);

CREATE TABLE IF NOT EXISTS imported_files (
	path TEXT PRIMARY KEY,
	sha256 TEXT NOT NULL,
	imported_at DATETIME NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS categories (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	color TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
	id BIGSERIAL PRIMARY KEY,
	category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
	question TEXT NOT NULL,
	options TEXT NOT NULL,
	correct_answer INTEGER NOT NULL,
	difficulty TEXT NOT NULL DEFAULT 'medium',
	explanation TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_questions_category ON questions(category_id);

CREATE TABLE IF NOT EXISTS exams (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
	duration_minutes INTEGER NOT NULL,
	total_questions INTEGER NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS exam_attempts (
	id BIGSERIAL PRIMARY KEY,
	exam_id BIGINT NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
	score DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_questions INTEGER NOT NULL,
	correct_answers INTEGER NOT NULL,
	time_taken_minutes INTEGER NOT NULL DEFAULT 0,
	answers TEXT NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_attempts_exam ON exam_attempts(exam_id);

CREATE TABLE IF NOT EXISTS imported_files (
	path TEXT PRIMARY KEY,
	sha256 TEXT NOT NULL,
	imported_at TIMESTAMPTZ NOT NULL
);
`
