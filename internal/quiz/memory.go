package quiz

import (
	"context"
	"math/rand"
	"sync"
)

// MemoryStore keeps questions and answers in process memory. It backs the
// "memory" store driver and the HTTP tests.
type MemoryStore struct {
	mu        sync.RWMutex
	order     []string
	questions map[string]Question
	answers   map[string]Answer
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		questions: make(map[string]Question),
		answers:   make(map[string]Answer),
	}
}

func (m *MemoryStore) SampleQuestions(_ context.Context, size int) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if size <= 0 || len(m.order) == 0 {
		return []Question{}, nil
	}

	picked := rand.Perm(len(m.order))
	if size < len(picked) {
		picked = picked[:size]
	}

	sample := make([]Question, 0, len(picked))
	for _, idx := range picked {
		sample = append(sample, cloneQuestion(m.questions[m.order[idx]]))
	}
	return sample, nil
}

func (m *MemoryStore) GetQuestion(_ context.Context, id string) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	question, ok := m.questions[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return cloneQuestion(question), nil
}

func (m *MemoryStore) GetAnswer(_ context.Context, questionID string) (Answer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	answer, ok := m.answers[questionID]
	if !ok {
		return Answer{}, ErrNotFound
	}
	return answer, nil
}

func (m *MemoryStore) GetAnswers(_ context.Context, questionIDs []string) ([]Answer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	answers := make([]Answer, 0, len(questionIDs))
	for _, id := range questionIDs {
		if answer, ok := m.answers[id]; ok {
			answers = append(answers, answer)
		}
	}
	return answers, nil
}

// SaveItems upserts by question id. An item without an answer key is
// stored as a question only.
func (m *MemoryStore) SaveItems(_ context.Context, items []Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range items {
		question := cloneQuestion(item.Question)
		if question.ID == "" {
			question.ID = MakeQuestionID(question.Text, question.Options)
		}
		if _, exists := m.questions[question.ID]; !exists {
			m.order = append(m.order, question.ID)
		}
		m.questions[question.ID] = question

		if item.Answer.Reasoning == "" && item.Answer.QuestionID == "" {
			continue
		}
		answer := item.Answer
		answer.QuestionID = question.ID
		m.answers[question.ID] = answer
	}
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
