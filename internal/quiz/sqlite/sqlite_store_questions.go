package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"quickquiz/internal/quiz"
)

func (s *SQLiteStore) SampleQuestions(ctx context.Context, size int) ([]quiz.Question, error) {
	if size <= 0 {
		return []quiz.Question{}, nil
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT question_id, prompt, options_json
		 FROM questions
		 ORDER BY RANDOM()
		 LIMIT ?`,
		size,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]quiz.Question, 0, size)
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}

	return questions, rows.Err()
}

func (s *SQLiteStore) GetQuestion(ctx context.Context, id string) (quiz.Question, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT question_id, prompt, options_json FROM questions WHERE question_id = ?`,
		id,
	)
	question, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Question{}, quiz.ErrNotFound
		}
		return quiz.Question{}, err
	}
	return question, nil
}

// SaveItems upserts questions and their answer keys in one transaction.
func (s *SQLiteStore) SaveItems(ctx context.Context, items []quiz.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().UnixNano()
	for _, item := range items {
		optionsJSON, err := json.Marshal(item.Question.Options)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO questions (question_id, prompt, options_json, created_at_unix)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(question_id) DO UPDATE SET
				prompt = excluded.prompt,
				options_json = excluded.options_json`,
			item.Question.ID,
			item.Question.Text,
			string(optionsJSON),
			now,
		); err != nil {
			return err
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO answers (question_id, correct_index, reasoning)
			 VALUES (?, ?, ?)
			 ON CONFLICT(question_id) DO UPDATE SET
				correct_index = excluded.correct_index,
				reasoning = excluded.reasoning`,
			item.Question.ID,
			item.Answer.CorrectOptionIndex,
			item.Answer.Reasoning,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (quiz.Question, error) {
	var (
		question    quiz.Question
		optionsJSON string
	)
	if err := row.Scan(&question.ID, &question.Text, &optionsJSON); err != nil {
		return quiz.Question{}, err
	}
	if err := json.Unmarshal([]byte(optionsJSON), &question.Options); err != nil {
		return quiz.Question{}, err
	}
	return question, nil
}
