package quiz

import (
	"context"
	"errors"
)

var (
	ErrInvalidID    = errors.New("invalid id")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("store unavailable")
)

type QuestionRepository interface {
	SampleQuestions(ctx context.Context, size int) ([]Question, error)
	GetQuestion(ctx context.Context, id string) (Question, error)
}

// AnswerRepository reads answer keys. GetAnswers omits ids that have no
// answer instead of failing.
type AnswerRepository interface {
	GetAnswer(ctx context.Context, questionID string) (Answer, error)
	GetAnswers(ctx context.Context, questionIDs []string) ([]Answer, error)
}

type ItemWriter interface {
	SaveItems(ctx context.Context, items []Item) error
}

// Store is implemented by every storage driver.
type Store interface {
	QuestionRepository
	AnswerRepository
	ItemWriter
	Close() error
}
