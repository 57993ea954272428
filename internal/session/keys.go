package session

import "context"

type KeyKind int

const (
	KeyNone KeyKind = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyDigit
	KeyRune
	KeyInterrupt
)

type Key struct {
	Kind  KeyKind
	Digit int  // 1-9 for KeyDigit
	Rune  rune // for KeyRune
}

// HandleKey applies one key press to the current phase. Keys that mean
// nothing in the current phase are ignored. Quitting is left to the caller.
func (c *Controller) HandleKey(ctx context.Context, key Key) error {
	switch c.phase {
	case PhaseWelcome:
		if key.Kind == KeyEnter {
			return c.Begin(ctx)
		}
	case PhaseQuiz:
		return c.handleQuizKey(ctx, key)
	case PhaseResult:
		if key.Kind == KeyRune && (key.Rune == 'r' || key.Rune == 'R') {
			return c.Retake()
		}
	}
	return nil
}

func (c *Controller) handleQuizKey(ctx context.Context, key Key) error {
	// While the feedback panel is open only an explicit acknowledgement
	// gets through.
	if c.feedback != nil {
		if key.Kind == KeyEnter {
			return c.Acknowledge(ctx)
		}
		return nil
	}
	if c.scorePending {
		if key.Kind == KeyEnter {
			return c.RetryScore(ctx)
		}
		return nil
	}

	current, ok := c.Current()
	if !ok {
		return nil
	}

	switch key.Kind {
	case KeyUp, KeyLeft:
		c.MoveHighlight(-1)
	case KeyDown, KeyRight:
		c.MoveHighlight(1)
	case KeyDigit:
		if key.Digit >= 1 && key.Digit <= len(current.Options) {
			return c.Select(ctx, key.Digit-1)
		}
	case KeyEnter:
		if c.highlight == NoHighlight {
			return nil
		}
		return c.Select(ctx, c.highlight)
	}
	return nil
}
