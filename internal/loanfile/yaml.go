package loanfile

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ReadYAML parses a document of the form
//
//	extra: 100
//	loans:
//	  - name: car
//	    initial_value: 10000
//	    rate: 0.004167
//	    number_of_payments: 48
//	    payment_amount: 241.79
func ReadYAML(r io.Reader) (File, error) {
	var file File

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, loan := range file.Loans {
		row := i + 1
		switch {
		case loan.Name == "":
			return File{}, &RowError{Row: row, Column: ColumnName, Err: fmt.Errorf("%w: missing value", ErrInvalidRow)}
		case loan.NumberOfPayments <= 0:
			return File{}, &RowError{Row: row, Column: ColumnNumberOfPayments, Err: fmt.Errorf("%w: must be positive", ErrInvalidRow)}
		}
	}
	if file.Extra < 0 {
		return File{}, fmt.Errorf("%w: extra must not be negative", ErrInvalidRow)
	}

	return file, nil
}

// WriteYAML writes f in the form ReadYAML accepts.
func WriteYAML(w io.Writer, f File) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(f); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	return encoder.Close()
}
