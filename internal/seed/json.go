package seed

import (
	"encoding/json"
	"fmt"
	"io"
)

// LoadJSON reads an array of records. Rows are numbered from 1 in file order.
func LoadJSON(r io.Reader) ([]Row, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode seed json: %w", err)
	}

	rows := make([]Row, 0, len(records))
	for i, record := range records {
		rows = append(rows, Row{Number: i + 1, Record: record})
	}
	return rows, nil
}
