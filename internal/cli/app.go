package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"quickquiz/internal/session"
)

type Options struct {
	// ClearScreen redraws from the top of the terminal on every frame.
	ClearScreen bool
	Log         zerolog.Logger

	// DescribeError, when set, rewrites errors that should reach the user's
	// log, such as an unreachable server. Errors it returns unchanged stay at
	// debug.
	DescribeError func(error) error
}

// Run drives the controller from key presses on in until the user quits or
// in is exhausted.
func Run(ctx context.Context, in io.Reader, out io.Writer, controller *session.Controller, opts Options) error {
	keys := newKeyReader(in)

	for {
		if err := render(out, controller, opts.ClearScreen); err != nil {
			return err
		}

		key, err := keys.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		if quits(controller.Phase(), key) {
			fmt.Fprintln(out)
			return nil
		}

		if err := controller.HandleKey(ctx, key); err != nil {
			logKeyError(opts, controller.Phase(), err)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func logKeyError(opts Options, phase session.Phase, err error) {
	if opts.DescribeError != nil {
		if described := opts.DescribeError(err); described != err {
			opts.Log.Warn().
				Err(described).
				Str("phase", phase.String()).
				Msg("request failed")
			return
		}
	}
	opts.Log.Debug().
		Err(err).
		Str("phase", phase.String()).
		Msg("key handling failed")
}

func quits(phase session.Phase, key session.Key) bool {
	if key.Kind == session.KeyInterrupt {
		return true
	}
	if key.Kind != session.KeyRune || (key.Rune != 'q' && key.Rune != 'Q') {
		return false
	}
	return phase == session.PhaseWelcome || phase == session.PhaseResult
}

func render(out io.Writer, c *session.Controller, clearScreen bool) error {
	var buf bytes.Buffer
	if clearScreen {
		buf.WriteString("\x1b[H\x1b[2J")
	}

	switch c.Phase() {
	case session.PhaseWelcome:
		renderWelcome(&buf)
	case session.PhaseQuiz:
		renderQuiz(&buf, c)
	case session.PhaseResult:
		renderResult(&buf, c)
	}

	if msg := c.Message(); msg != "" {
		fmt.Fprintf(&buf, "\n! %s\n", msg)
	}

	_, err := out.Write(buf.Bytes())
	return err
}

func renderWelcome(buf *bytes.Buffer) {
	fmt.Fprintln(buf, "Quick Quiz")
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "Up to five questions, four options each.")
	fmt.Fprintln(buf, "Press Enter to begin, q to quit.")
}

func renderQuiz(buf *bytes.Buffer, c *session.Controller) {
	question, ok := c.Current()
	if !ok {
		return
	}

	fmt.Fprintf(buf, "Question %d of %d\n\n", c.Position()+1, c.Total())
	fmt.Fprintf(buf, "%s\n\n", question.Text)

	feedback, showFeedback := c.Feedback()
	for idx, option := range question.Options {
		marker := "  "
		if idx == c.Highlighted() {
			marker = "> "
		}
		fmt.Fprintf(buf, "%s%d. %s\n", marker, idx+1, option)
	}
	fmt.Fprintln(buf)

	switch {
	case showFeedback:
		fmt.Fprintf(buf, "Incorrect. The correct answer is %d. %s\n",
			feedback.CorrectIndex+1, optionText(question.Options, feedback.CorrectIndex))
		fmt.Fprintf(buf, "%s\n\n", feedback.Reasoning)
		fmt.Fprintln(buf, "Press Enter to continue.")
	case c.ScorePending():
		fmt.Fprintln(buf, "Press Enter to retry scoring.")
	default:
		fmt.Fprintf(buf, "Use arrow keys and Enter, or press 1-%d.\n", len(question.Options))
	}
}

func renderResult(buf *bytes.Buffer, c *session.Controller) {
	score, _ := c.Score()
	fmt.Fprintf(buf, "Your score: %d%%\n\n", score)

	review := c.Review()
	if len(review) > 0 {
		fmt.Fprintln(buf, "Review:")
	}
	for idx, item := range review {
		text := item.Question.Text
		if text == "" {
			text = item.QuestionID
		}
		fmt.Fprintf(buf, "%d. %s\n", idx+1, text)
		fmt.Fprintf(buf, "   your answer:    %s\n", optionText(item.Question.Options, item.SelectedIndex))
		if !item.Known {
			fmt.Fprintln(buf, "   correct answer: unknown")
			continue
		}
		fmt.Fprintf(buf, "   correct answer: %s\n", optionText(item.Question.Options, item.CorrectIndex))
		if item.SelectedIndex != item.CorrectIndex {
			fmt.Fprintf(buf, "   %s\n", item.Reasoning)
		}
	}

	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "Press r to retake, q to quit.")
}

func optionText(options []string, index int) string {
	if index < 0 || index >= len(options) {
		return fmt.Sprintf("option %d", index+1)
	}
	return options[index]
}
