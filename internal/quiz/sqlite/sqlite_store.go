package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath is used when no database file is configured.
const DefaultPath = "quiz.db"

// connParams are applied by the driver to every connection it opens, so they
// survive the pool replacing a broken connection.
const connParams = "_foreign_keys=on&_busy_timeout=5000"

var errForeignKeysOff = errors.New("sqlite: foreign key enforcement is off")

// SQLiteStore keeps questions and answer keys in a single database file.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens or creates the database file at path and makes sure the quiz
// tables exist.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; sqlite serialises writes anyway.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.checkForeignKeys(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return store, nil
}

func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + connParams
	}
	return path + "?" + connParams
}

func (s *SQLiteStore) checkForeignKeys(ctx context.Context) error {
	var enabled int
	if err := s.db.QueryRowContext(ctx, `PRAGMA foreign_keys;`).Scan(&enabled); err != nil {
		return fmt.Errorf("read sqlite foreign_keys: %w", err)
	}
	if enabled != 1 {
		return errForeignKeysOff
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
