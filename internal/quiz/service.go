package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

type Service struct {
	questions QuestionRepository
	answers   AnswerRepository
	log       zerolog.Logger
}

func NewService(questions QuestionRepository, answers AnswerRepository, log zerolog.Logger) *Service {
	return &Service{
		questions: questions,
		answers:   answers,
		log:       log,
	}
}

// SampleQuestions draws up to SampleSize questions. Fewer stored questions
// simply yield a shorter sample.
func (s *Service) SampleQuestions(ctx context.Context) ([]Question, error) {
	questions, err := s.questions.SampleQuestions(ctx, SampleSize)
	if err != nil {
		return nil, unavailable(err)
	}
	if len(questions) > SampleSize {
		questions = questions[:SampleSize]
	}
	return questions, nil
}

// LookupAnswer rejects malformed ids before touching the store.
func (s *Service) LookupAnswer(ctx context.Context, questionID string) (Answer, error) {
	id, err := NormalizeID(questionID)
	if err != nil {
		return Answer{}, err
	}

	answer, err := s.answers.GetAnswer(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Answer{}, ErrNotFound
		}
		return Answer{}, unavailable(err)
	}
	return answer, nil
}

// Score loads every referenced answer key in one batched read and scores the
// submission against it.
func (s *Service) Score(ctx context.Context, submitted []SubmittedAnswer) (int, error) {
	if len(submitted) == 0 {
		return 0, nil
	}

	seen := make(map[string]struct{}, len(submitted))
	ids := make([]string, 0, len(submitted))
	for _, item := range submitted {
		id, err := NormalizeID(item.QuestionID)
		if err != nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	key := make(map[string]int, len(ids))
	if len(ids) > 0 {
		answers, err := s.answers.GetAnswers(ctx, ids)
		if err != nil {
			return 0, unavailable(err)
		}
		for _, answer := range answers {
			key[answer.QuestionID] = answer.CorrectOptionIndex
		}
	}

	if missing := missingIDs(ids, key); len(missing) > 0 {
		s.log.Warn().
			Strs("question_ids", missing).
			Msg("score submission references questions without an answer key")
	}

	return ScoreSubmission(submitted, key), nil
}

func missingIDs(ids []string, key map[string]int) []string {
	var missing []string
	for _, id := range ids {
		if _, ok := key[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func unavailable(err error) error {
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
