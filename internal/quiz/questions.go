package quiz

import (
	"strings"

	"github.com/google/uuid"
)

const (
	// SampleSize is the number of questions drawn for one session.
	SampleSize  = 5
	OptionCount = 4
)

// questionNamespace seeds deterministic ids for questions that arrive without one.
var questionNamespace = uuid.MustParse("6f1c2a7e-3d0b-4c55-9a8e-51d0f3b7c2a4")

// Question is the public view of a stored question. It never carries the
// answer key; that lives in Answer.
type Question struct {
	ID      string   `json:"id" validate:"required,uuid"`
	Text    string   `json:"text" validate:"required"`
	Options []string `json:"options" validate:"len=4,dive,required"`
}

type Answer struct {
	QuestionID         string `json:"questionId" validate:"required,uuid"`
	CorrectOptionIndex int    `json:"correctOptionIndex" validate:"min=0,max=3"`
	Reasoning          string `json:"reasoning" validate:"required"`
}

type SubmittedAnswer struct {
	QuestionID    string `json:"questionId"`
	SelectedIndex int    `json:"selectedIndex"`
}

// Item pairs a question with its answer key. Only the seeding path writes items.
type Item struct {
	Question Question `json:"question"`
	Answer   Answer   `json:"answer"`
}

// NormalizeID returns the canonical form of a question identifier or
// ErrInvalidID when the input is not a UUID.
func NormalizeID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", ErrInvalidID
	}
	return parsed.String(), nil
}

// MakeQuestionID derives a stable id from the prompt and the ordered options,
// so re-importing identical content updates the same record.
func MakeQuestionID(text string, options []string) string {
	var keyBuilder strings.Builder
	keyBuilder.WriteString(text)
	for _, option := range options {
		keyBuilder.WriteString("|")
		keyBuilder.WriteString(option)
	}
	return uuid.NewSHA1(questionNamespace, []byte(keyBuilder.String())).String()
}

func cloneQuestion(question Question) Question {
	question.Options = append([]string(nil), question.Options...)
	return question
}
