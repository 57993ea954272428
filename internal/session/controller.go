package session

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"quickquiz/internal/quiz"
)

const (
	MsgFetchQuestionsFailed = "Failed to fetch questions"
	MsgNoQuestions          = "No questions available"
	MsgLookupFailed         = "Failed to get answer"
	MsgScoreFailed          = "Failed to score"
)

var (
	ErrInvalidTransition = errors.New("action not allowed in current phase")
	ErrOptionOutOfRange  = errors.New("option index out of range")
	ErrNoQuestions       = errors.New("no questions available")
)

// NoHighlight is the cursor value while no option is highlighted.
const NoHighlight = -1

// API is the server surface the controller drives. The HTTP client
// implements it; so can an in-process adapter over quiz.Service.
type API interface {
	GetQuestions(ctx context.Context) ([]quiz.Question, error)
	GetAnswer(ctx context.Context, questionID string) (quiz.Answer, error)
	SubmitScore(ctx context.Context, answers []quiz.SubmittedAnswer) (int, error)
}

type Phase int

const (
	PhaseWelcome Phase = iota
	PhaseQuiz
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseWelcome:
		return "welcome"
	case PhaseQuiz:
		return "quiz"
	case PhaseResult:
		return "result"
	default:
		return "unknown"
	}
}

// Feedback is shown after a wrong selection until acknowledged.
type Feedback struct {
	SelectedIndex int
	CorrectIndex  int
	Reasoning     string
}

// ReviewItem is one row of the result screen. Known is false when the
// answer key could not be fetched for that row.
type ReviewItem struct {
	QuestionID    string
	Question      quiz.Question
	SelectedIndex int
	CorrectIndex  int
	Reasoning     string
	Known         bool
}

// Controller sequences one user's quiz. It is not safe for concurrent use;
// the terminal loop owns it.
type Controller struct {
	api API

	phase     Phase
	questions []quiz.Question
	position  int

	// answers is what gets scored. It is appended before the answer key is
	// checked, so it can run ahead of feedback.
	answers []quiz.SubmittedAnswer

	score        int
	scored       bool
	scorePending bool

	feedback  *Feedback
	highlight int
	review    []ReviewItem
	message   string
}

func NewController(api API) *Controller {
	return &Controller{api: api, highlight: NoHighlight}
}

func (c *Controller) Phase() Phase { return c.phase }

func (c *Controller) Message() string { return c.message }

func (c *Controller) Position() int { return c.position }

func (c *Controller) Total() int { return len(c.questions) }

// Highlighted returns the cursor position, or NoHighlight.
func (c *Controller) Highlighted() int { return c.highlight }

func (c *Controller) ScorePending() bool { return c.scorePending }

func (c *Controller) Current() (quiz.Question, bool) {
	if c.phase != PhaseQuiz || c.position >= len(c.questions) {
		return quiz.Question{}, false
	}
	return c.questions[c.position], true
}

func (c *Controller) Answers() []quiz.SubmittedAnswer {
	return append([]quiz.SubmittedAnswer(nil), c.answers...)
}

func (c *Controller) Score() (int, bool) {
	return c.score, c.scored
}

func (c *Controller) Feedback() (Feedback, bool) {
	if c.feedback == nil {
		return Feedback{}, false
	}
	return *c.feedback, true
}

func (c *Controller) Review() []ReviewItem {
	return append([]ReviewItem(nil), c.review...)
}

// Begin fetches a sample and starts the quiz. On failure the controller
// stays on the welcome screen with a message.
func (c *Controller) Begin(ctx context.Context) error {
	if c.phase != PhaseWelcome {
		return ErrInvalidTransition
	}

	questions, err := c.api.GetQuestions(ctx)
	if err != nil {
		c.message = MsgFetchQuestionsFailed
		return err
	}
	if len(questions) == 0 {
		c.message = MsgNoQuestions
		return ErrNoQuestions
	}

	c.reset()
	c.questions = questions
	c.phase = PhaseQuiz
	return nil
}

// Select records the choice, then checks it against the answer key. A
// correct choice advances; a wrong one opens the feedback panel.
func (c *Controller) Select(ctx context.Context, idx int) error {
	current, ok := c.Current()
	if !ok || c.feedback != nil || c.scorePending {
		return ErrInvalidTransition
	}
	if idx < 0 || idx >= len(current.Options) {
		return ErrOptionOutOfRange
	}

	c.highlight = idx
	c.answers = append(c.answers, quiz.SubmittedAnswer{
		QuestionID:    current.ID,
		SelectedIndex: idx,
	})

	answer, err := c.api.GetAnswer(ctx, current.ID)
	if err != nil {
		c.message = MsgLookupFailed
		return err
	}
	c.message = ""

	if answer.CorrectOptionIndex == idx {
		return c.advance(ctx)
	}

	c.feedback = &Feedback{
		SelectedIndex: idx,
		CorrectIndex:  answer.CorrectOptionIndex,
		Reasoning:     answer.Reasoning,
	}
	return nil
}

// Acknowledge closes the feedback panel and moves on.
func (c *Controller) Acknowledge(ctx context.Context) error {
	if c.phase != PhaseQuiz || c.feedback == nil {
		return ErrInvalidTransition
	}
	c.feedback = nil
	return c.advance(ctx)
}

// RetryScore re-submits the recorded answers after a failed scoring call.
func (c *Controller) RetryScore(ctx context.Context) error {
	if c.phase != PhaseQuiz || !c.scorePending {
		return ErrInvalidTransition
	}
	return c.finish(ctx)
}

// Retake clears the finished session and returns to the welcome screen.
func (c *Controller) Retake() error {
	if c.phase != PhaseResult {
		return ErrInvalidTransition
	}
	c.reset()
	c.phase = PhaseWelcome
	return nil
}

// MoveHighlight moves the cursor cyclically over the current options. From
// the unset state moving down lands on the first option and moving up on the
// last. Select also writes the cursor; whichever ran last wins.
func (c *Controller) MoveHighlight(delta int) {
	current, ok := c.Current()
	if !ok || c.feedback != nil || len(current.Options) == 0 || delta == 0 {
		return
	}
	n := len(current.Options)
	if c.highlight == NoHighlight {
		if delta > 0 {
			c.highlight = 0
		} else {
			c.highlight = n - 1
		}
		return
	}
	c.highlight = ((c.highlight+delta)%n + n) % n
}

func (c *Controller) advance(ctx context.Context) error {
	if c.position < len(c.questions)-1 {
		c.position++
		c.highlight = NoHighlight
		return nil
	}
	return c.finish(ctx)
}

func (c *Controller) finish(ctx context.Context) error {
	score, err := c.api.SubmitScore(ctx, c.Answers())
	if err != nil {
		c.scorePending = true
		c.message = MsgScoreFailed
		return err
	}

	c.scorePending = false
	c.message = ""
	c.score = score
	c.scored = true
	c.phase = PhaseResult
	c.review = c.loadReview(ctx)
	return nil
}

// loadReview fetches every recorded answer's key concurrently. Each lookup
// writes only its own slot; a failed lookup leaves that row unknown.
func (c *Controller) loadReview(ctx context.Context) []ReviewItem {
	byID := make(map[string]quiz.Question, len(c.questions))
	for _, question := range c.questions {
		byID[question.ID] = question
	}

	items := make([]ReviewItem, len(c.answers))
	var g errgroup.Group
	for i, submitted := range c.answers {
		items[i] = ReviewItem{
			QuestionID:    submitted.QuestionID,
			Question:      byID[submitted.QuestionID],
			SelectedIndex: submitted.SelectedIndex,
			CorrectIndex:  -1,
		}
		g.Go(func() error {
			answer, err := c.api.GetAnswer(ctx, submitted.QuestionID)
			if err != nil {
				return nil
			}
			items[i].CorrectIndex = answer.CorrectOptionIndex
			items[i].Reasoning = answer.Reasoning
			items[i].Known = true
			return nil
		})
	}
	_ = g.Wait()

	return items
}

func (c *Controller) reset() {
	c.questions = nil
	c.position = 0
	c.answers = nil
	c.score = 0
	c.scored = false
	c.scorePending = false
	c.feedback = nil
	c.highlight = NoHighlight
	c.review = nil
	c.message = ""
}
