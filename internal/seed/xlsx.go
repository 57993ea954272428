package seed

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var xlsxOptionColumns = []string{"option_1", "option_2", "option_3", "option_4"}

// LoadXLSX reads the first sheet. The header row names the columns; the
// correct_option column is 1-based so it matches how options are numbered
// on screen.
func LoadXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("excel sheet is empty")
	}
	sheetRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(sheetRows) < 2 {
		return nil, errors.New("no data rows found")
	}

	header := map[string]int{}
	for i, h := range sheetRows[0] {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}
	required := append([]string{"text", "correct_option", "reasoning"}, xlsxOptionColumns...)
	for _, col := range required {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	rows := make([]Row, 0, len(sheetRows)-1)
	for i := 1; i < len(sheetRows); i++ {
		cells := sheetRows[i]
		get := func(key string) string {
			idx, ok := header[key]
			if !ok || idx >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[idx])
		}

		if isBlank(cells) {
			continue
		}

		row := Row{
			Number: i + 1,
			Record: Record{
				ID:        get("id"),
				Text:      get("text"),
				Reasoning: get("reasoning"),
			},
		}
		for _, col := range xlsxOptionColumns {
			row.Record.Options = append(row.Record.Options, get(col))
		}

		correct, err := strconv.Atoi(get("correct_option"))
		if err != nil || correct < 1 || correct > len(xlsxOptionColumns) {
			row.ParseErr = fmt.Sprintf("correct_option must be 1-%d", len(xlsxOptionColumns))
		} else {
			row.Record.CorrectOptionIndex = correct - 1
		}

		rows = append(rows, row)
	}
	return rows, nil
}

func isBlank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
