package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/peanut-survey/peanut-survey/internal/survey"
)

// Table is the decoded content of a data file.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadAll reads the header and every row of a data file.
func ReadAll(path string) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close() //nolint:errcheck // read-only file close

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}
	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// ReadHeader reads only the first row of a data file.
func ReadHeader(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close() //nolint:errcheck // read-only file close

	header, err := csv.NewReader(f).Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: missing header row", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return header, nil
}

// RowProblem describes an invalid data row. Line is 1-based and counts the
// header.
type RowProblem struct {
	Line    int
	Column  string
	Message string
}

func (p RowProblem) String() string {
	if p.Column == "" {
		return fmt.Sprintf("line %d: %s", p.Line, p.Message)
	}
	return fmt.Sprintf("line %d, %s: %s", p.Line, p.Column, p.Message)
}

// Check verifies that a data file was written for def and that every row
// holds a valid timestamp and valid answers. It returns the number of rows
// checked and any problems found.
func Check(path string, def *survey.Definition) (int, []RowProblem, error) {
	table, err := ReadAll(path)
	if err != nil {
		return 0, nil, err
	}
	if !slices.Equal(table.Header, def.Columns()) {
		return 0, nil, fmt.Errorf("%s: %w: got %q, want %q", path, ErrHeaderMismatch, table.Header, def.Columns())
	}

	var problems []RowProblem
	for i, row := range table.Rows {
		line := i + 2
		if _, err := time.Parse(TimestampLayout, row[0]); err != nil {
			problems = append(problems, RowProblem{Line: line, Column: survey.TimestampColumn, Message: "invalid timestamp"})
		}
		for j, f := range def.Fields() {
			if err := f.Validate(row[j+1]); err != nil {
				problems = append(problems, RowProblem{Line: line, Column: f.Name, Message: err.Error()})
			}
		}
	}
	return len(table.Rows), problems, nil
}
