package sqlite

import (
	"context"
)

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	// answers.question_id is the primary key, which gives one answer key per
	// question. The reference is enforced because Open turns foreign keys on.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS questions (
			question_id TEXT PRIMARY KEY,
			prompt TEXT NOT NULL,
			options_json TEXT NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS answers (
			question_id TEXT PRIMARY KEY REFERENCES questions(question_id) ON DELETE CASCADE,
			correct_index INTEGER NOT NULL CHECK (correct_index BETWEEN 0 AND 3),
			reasoning TEXT NOT NULL
		);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
