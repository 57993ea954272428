package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"quickquiz/internal/quiz"
)

type PoolConfig struct {
	MaxConns        int32
	MaxConnLifetime time.Duration
}

// Store reads questions and answer keys from PostgreSQL. The schema is
// managed by the migrations applied with quiz-migrate.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string, cfg PoolConfig, log zerolog.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().
		Int32("max_conns", poolCfg.MaxConns).
		Msg("PostgreSQL connected")

	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) SampleQuestions(ctx context.Context, size int) ([]quiz.Question, error) {
	if size <= 0 {
		return []quiz.Question{}, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id::text, text, options
		 FROM questions
		 ORDER BY random()
		 LIMIT $1`,
		size,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]quiz.Question, 0, size)
	for rows.Next() {
		var question quiz.Question
		if err := rows.Scan(&question.ID, &question.Text, &question.Options); err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}

	return questions, rows.Err()
}

func (s *Store) GetQuestion(ctx context.Context, id string) (quiz.Question, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return quiz.Question{}, quiz.ErrInvalidID
	}

	var question quiz.Question
	err = s.pool.QueryRow(ctx,
		`SELECT id::text, text, options FROM questions WHERE id = $1`,
		parsed,
	).Scan(&question.ID, &question.Text, &question.Options)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return quiz.Question{}, quiz.ErrNotFound
		}
		return quiz.Question{}, err
	}
	return question, nil
}

func (s *Store) GetAnswer(ctx context.Context, questionID string) (quiz.Answer, error) {
	parsed, err := uuid.Parse(questionID)
	if err != nil {
		return quiz.Answer{}, quiz.ErrInvalidID
	}

	var answer quiz.Answer
	err = s.pool.QueryRow(ctx,
		`SELECT question_id::text, correct_option_index, reasoning
		 FROM answers
		 WHERE question_id = $1`,
		parsed,
	).Scan(&answer.QuestionID, &answer.CorrectOptionIndex, &answer.Reasoning)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return quiz.Answer{}, quiz.ErrNotFound
		}
		return quiz.Answer{}, err
	}
	return answer, nil
}

func (s *Store) GetAnswers(ctx context.Context, questionIDs []string) ([]quiz.Answer, error) {
	ids := make([]string, 0, len(questionIDs))
	for _, id := range questionIDs {
		if parsed, err := uuid.Parse(id); err == nil {
			ids = append(ids, parsed.String())
		}
	}
	if len(ids) == 0 {
		return []quiz.Answer{}, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT question_id::text, correct_option_index, reasoning
		 FROM answers
		 WHERE question_id = ANY($1::uuid[])`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make([]quiz.Answer, 0, len(ids))
	for rows.Next() {
		var answer quiz.Answer
		if err := rows.Scan(&answer.QuestionID, &answer.CorrectOptionIndex, &answer.Reasoning); err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}

	return answers, rows.Err()
}

func (s *Store) SaveItems(ctx context.Context, items []quiz.Item) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, item := range items {
		id, err := uuid.Parse(item.Question.ID)
		if err != nil {
			return fmt.Errorf("question %q: %w", item.Question.ID, quiz.ErrInvalidID)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO questions (id, text, options)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO UPDATE SET text = EXCLUDED.text, options = EXCLUDED.options`,
			id, item.Question.Text, item.Question.Options,
		); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO answers (question_id, correct_option_index, reasoning)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (question_id) DO UPDATE SET
				correct_option_index = EXCLUDED.correct_option_index,
				reasoning = EXCLUDED.reasoning`,
			id, item.Answer.CorrectOptionIndex, item.Answer.Reasoning,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
