package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"quickquiz/internal/quiz"
)

var ErrUnsupportedFormat = errors.New("unsupported seed file format")

// Record is one question with its answer key as it appears in a seed file.
// An empty ID is replaced by a content-derived one.
type Record struct {
	ID                 string   `json:"id,omitempty"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
	Reasoning          string   `json:"reasoning"`
}

// Row is a record together with where it came from. ParseErr is set when
// the source row could not be read into a record at all.
type Row struct {
	Number   int
	Record   Record
	ParseErr string
}

type RowError struct {
	Row   int    `json:"row"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error"`
}

type Report struct {
	TotalRows   int        `json:"total_rows"`
	SuccessRows int        `json:"success_rows"`
	FailedRows  int        `json:"failed_rows"`
	Errors      []RowError `json:"errors"`
}

func (r *Report) fail(row Row, msg string) {
	r.FailedRows++
	r.Errors = append(r.Errors, RowError{Row: row.Number, Text: row.Record.Text, Error: msg})
}

// LoadFile reads rows from a .json or .xlsx file.
func LoadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(f)
	case ".xlsx":
		return LoadXLSX(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Build turns rows into validated items. Invalid rows are reported and
// left out.
func Build(rows []Row) ([]quiz.Item, *Report) {
	report := &Report{Errors: make([]RowError, 0)}
	items := make([]quiz.Item, 0, len(rows))
	seen := make(map[string]int, len(rows))

	for _, row := range rows {
		report.TotalRows++

		if row.ParseErr != "" {
			report.fail(row, row.ParseErr)
			continue
		}

		item, err := toItem(row.Record)
		if err != nil {
			report.fail(row, err.Error())
			continue
		}
		if first, dup := seen[item.Question.ID]; dup {
			report.fail(row, fmt.Sprintf("duplicate of row %d", first))
			continue
		}
		seen[item.Question.ID] = row.Number

		items = append(items, item)
		report.SuccessRows++
	}

	return items, report
}

// Import validates rows and saves the valid ones in a single write.
func Import(ctx context.Context, writer quiz.ItemWriter, rows []Row, log zerolog.Logger) (*Report, error) {
	items, report := Build(rows)

	for _, rowErr := range report.Errors {
		log.Warn().
			Int("row", rowErr.Row).
			Str("text", rowErr.Text).
			Str("error", rowErr.Error).
			Msg("seed row rejected")
	}

	if len(items) == 0 {
		return report, nil
	}
	if err := writer.SaveItems(ctx, items); err != nil {
		return report, fmt.Errorf("save items: %w", err)
	}

	log.Info().
		Int("total", report.TotalRows).
		Int("saved", report.SuccessRows).
		Int("failed", report.FailedRows).
		Msg("seed import finished")
	return report, nil
}

// ImportFile loads path and imports its rows. quiz-service uses it to fill a
// store at startup, which is the only way to put data in the memory driver.
func ImportFile(ctx context.Context, writer quiz.ItemWriter, path string, log zerolog.Logger) (*Report, error) {
	rows, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return Import(ctx, writer, rows, log)
}

func toItem(record Record) (quiz.Item, error) {
	text := strings.TrimSpace(record.Text)
	options := make([]string, len(record.Options))
	for i, option := range record.Options {
		options[i] = strings.TrimSpace(option)
	}

	id := quiz.MakeQuestionID(text, options)
	if strings.TrimSpace(record.ID) != "" {
		normalized, err := quiz.NormalizeID(record.ID)
		if err != nil {
			return quiz.Item{}, fmt.Errorf("id %q is not a UUID", record.ID)
		}
		id = normalized
	}

	item := quiz.Item{
		Question: quiz.Question{ID: id, Text: text, Options: options},
		Answer: quiz.Answer{
			QuestionID:         id,
			CorrectOptionIndex: record.CorrectOptionIndex,
			Reasoning:          strings.TrimSpace(record.Reasoning),
		},
	}
	if err := quiz.ValidateItem(item); err != nil {
		return quiz.Item{}, err
	}
	return item, nil
}
