package seed

import (
	"fmt"
	"html"
	"math/rand"

	"quickquiz/internal/opentdb"
	"quickquiz/internal/quiz"
)

// FromOpenTDB converts trivia payloads into rows. Options are shuffled; the
// id is derived from the unshuffled answers so re-imports stay stable.
func FromOpenTDB(raw []opentdb.RawQuestion) []Row {
	rows := make([]Row, 0, len(raw))
	for i, item := range raw {
		row := Row{Number: i + 1}
		if len(item.IncorrectAnswers)+1 != quiz.OptionCount {
			row.Record.Text = html.UnescapeString(item.Question)
			row.ParseErr = fmt.Sprintf("expected %d options, got %d", quiz.OptionCount, len(item.IncorrectAnswers)+1)
			rows = append(rows, row)
			continue
		}
		row.Record = buildRecord(item)
		rows = append(rows, row)
	}
	return rows
}

func buildRecord(raw opentdb.RawQuestion) Record {
	type choice struct {
		text      string
		isCorrect bool
	}

	correct := html.UnescapeString(raw.CorrectAnswer)
	stable := []string{correct}
	choices := []choice{{text: correct, isCorrect: true}}
	for _, incorrect := range raw.IncorrectAnswers {
		text := html.UnescapeString(incorrect)
		stable = append(stable, text)
		choices = append(choices, choice{text: text})
	}

	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	options := make([]string, len(choices))
	correctIndex := -1
	for idx, candidate := range choices {
		options[idx] = candidate.text
		if candidate.isCorrect {
			correctIndex = idx
		}
	}

	text := html.UnescapeString(raw.Question)
	return Record{
		ID:                 quiz.MakeQuestionID(text, stable),
		Text:               text,
		Options:            options,
		CorrectOptionIndex: correctIndex,
		Reasoning: fmt.Sprintf("The correct answer is %s (%s, %s).",
			correct, html.UnescapeString(raw.Category), raw.Difficulty),
	}
}
