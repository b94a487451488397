// Package loanfile reads and writes loan lists as CSV or YAML.
package loanfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/loan-payoff/internal/model"
)

// Errors returned while reading loan files.
var (
	ErrMissingColumn     = errors.New("missing required column")
	ErrInvalidRow        = errors.New("invalid row")
	ErrUnsupportedFormat = errors.New("unsupported loan file format")
)

// File is the content of a loan file.
type File struct {
	Loans []model.Loan `yaml:"loans"`
	// Extra is only present in YAML files.
	Extra float64 `yaml:"extra"`
}

// RowError locates a problem in a loan file. Row is 1-based and counts the
// CSV header, so it matches what a spreadsheet shows.
type RowError struct {
	Err    error
	Column string
	Row    int
}

func (e *RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Load reads the file at path, choosing the format by extension.
func Load(path string) (File, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user on purpose
	if err != nil {
		return File{}, fmt.Errorf("failed to open loan file: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		loans, err := ReadCSV(f)
		if err != nil {
			return File{}, fmt.Errorf("%s: %w", path, err)
		}
		return File{Loans: loans}, nil
	case ".yaml", ".yml":
		file, err := ReadYAML(f)
		if err != nil {
			return File{}, fmt.Errorf("%s: %w", path, err)
		}
		return file, nil
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
