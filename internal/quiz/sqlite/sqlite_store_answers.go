package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"quickquiz/internal/quiz"
)

func (s *SQLiteStore) GetAnswer(ctx context.Context, questionID string) (quiz.Answer, error) {
	answer := quiz.Answer{QuestionID: questionID}
	err := s.db.QueryRowContext(
		ctx,
		`SELECT correct_index, reasoning FROM answers WHERE question_id = ?`,
		questionID,
	).Scan(&answer.CorrectOptionIndex, &answer.Reasoning)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Answer{}, quiz.ErrNotFound
		}
		return quiz.Answer{}, err
	}
	return answer, nil
}

func (s *SQLiteStore) GetAnswers(ctx context.Context, questionIDs []string) ([]quiz.Answer, error) {
	if len(questionIDs) == 0 {
		return []quiz.Answer{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(questionIDs)), ",")
	args := make([]any, 0, len(questionIDs))
	for _, id := range questionIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT question_id, correct_index, reasoning
		 FROM answers
		 WHERE question_id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make([]quiz.Answer, 0, len(questionIDs))
	for rows.Next() {
		var answer quiz.Answer
		if err := rows.Scan(&answer.QuestionID, &answer.CorrectOptionIndex, &answer.Reasoning); err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}

	return answers, rows.Err()
}
