package session

import (
	"context"

	"quickquiz/internal/quiz"
)

// Local runs the controller against an in-process quiz.Service instead of
// the HTTP API.
type Local struct {
	Service *quiz.Service
}

var _ API = Local{}

func (l Local) GetQuestions(ctx context.Context) ([]quiz.Question, error) {
	return l.Service.SampleQuestions(ctx)
}

func (l Local) GetAnswer(ctx context.Context, questionID string) (quiz.Answer, error) {
	return l.Service.LookupAnswer(ctx, questionID)
}

func (l Local) SubmitScore(ctx context.Context, answers []quiz.SubmittedAnswer) (int, error) {
	return l.Service.Score(ctx, answers)
}
