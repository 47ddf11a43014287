// Package store persists the study engine's state in SQLite (default) or
// Postgres through sqlx.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"

	// Postgres driver, selected by postgres:// DSNs.
	_ "github.com/lib/pq"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

// Store holds the database handle and hands out repositories.
type Store struct {
	db *sqlx.DB
}

// Open connects to dsn and creates any missing tables. DSNs starting with
// postgres:// or postgresql:// use Postgres; anything else is a SQLite path
// or URI.
func Open(dsn string) (*Store, error) {
	driver := driverFor(dsn)
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == driverSQLite {
		// SQLite has a single writer; one connection also keeps :memory:
		// databases alive for the life of the store.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// DB returns the underlying handle for raw queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Driver returns "sqlite" or "postgres".
func (s *Store) Driver() string {
	return s.db.DriverName()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Catalog() *CatalogRepo          { return &CatalogRepo{db: s.db} }
func (s *Store) Profiles() *ProfileRepo         { return &ProfileRepo{db: s.db} }
func (s *Store) Reviews() *ReviewRepo           { return &ReviewRepo{db: s.db} }
func (s *Store) StudySets() *StudySetRepo       { return &StudySetRepo{db: s.db} }
func (s *Store) AnswerErrors() *AnswerErrorRepo { return &AnswerErrorRepo{db: s.db} }
func (s *Store) LLMEvents() *LLMEventRepo       { return &LLMEventRepo{db: s.db} }

func init() {
	sqlx.BindDriver(driverSQLite, sqlx.QUESTION)
}

func driverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return driverPostgres
	}
	return driverSQLite
}

func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath returns $XDG_DATA_HOME/lexicon/lexicon.db, falling back to
// ~/.local/share, and creates the parent directory.
func DefaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "lexicon", "lexicon.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of a SQLite path. Postgres DSNs
// and in-memory databases are left alone.
func EnsureDir(dsn string) error {
	if driverFor(dsn) != driverSQLite || strings.HasPrefix(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	return os.MkdirAll(filepath.Dir(dsn), 0o755)
}
