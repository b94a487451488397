package loanfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/money"
)

// Column names understood in CSV headers.
const (
	ColumnName              = "name"
	ColumnInitialValue      = "initial_value"
	ColumnRate              = "rate"
	ColumnAnnualRatePercent = "annual_rate_percent"
	ColumnNumberOfPayments  = "number_of_payments"
	ColumnPaymentAmount     = "payment_amount"
)

var requiredColumns = []string{
	ColumnName,
	ColumnInitialValue,
	ColumnNumberOfPayments,
	ColumnPaymentAmount,
}

// ReadCSV parses loans from CSV with a header row. Columns may come in any
// order and unknown columns are ignored. The rate is taken from "rate" as a
// periodic fraction or from "annual_rate_percent", which is divided by 1200.
func ReadCSV(r io.Reader) ([]model.Loan, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &RowError{Row: 1, Err: fmt.Errorf("%w: empty file", ErrMissingColumn)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			return nil, &RowError{Row: 1, Column: c, Err: ErrMissingColumn}
		}
	}
	_, hasRate := columns[ColumnRate]
	_, hasAnnual := columns[ColumnAnnualRatePercent]
	if !hasRate && !hasAnnual {
		return nil, &RowError{Row: 1, Column: ColumnRate, Err: ErrMissingColumn}
	}

	var loans []model.Loan
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, &RowError{Row: row, Err: fmt.Errorf("%w: %v", ErrInvalidRow, err)}
		}
		if blank(record) {
			continue
		}

		loan, err := parseRecord(record, columns, row)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}

	return loans, nil
}

func parseRecord(record []string, columns map[string]int, row int) (model.Loan, error) {
	field := func(name string) (string, bool) {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return "", false
		}
		v := strings.TrimSpace(record[i])
		return v, v != ""
	}
	fail := func(column string, err error) error {
		return &RowError{Row: row, Column: column, Err: fmt.Errorf("%w: %v", ErrInvalidRow, err)}
	}

	var loan model.Loan
	var ok bool
	if loan.Name, ok = field(ColumnName); !ok {
		return loan, fail(ColumnName, errors.New("missing value"))
	}

	amounts := []struct {
		dst    *float64
		column string
	}{
		{&loan.InitialValue, ColumnInitialValue},
		{&loan.PaymentAmount, ColumnPaymentAmount},
	}
	for _, a := range amounts {
		v, ok := field(a.column)
		if !ok {
			return loan, fail(a.column, errors.New("missing value"))
		}
		amount, err := money.Parse(v)
		if err != nil {
			return loan, fail(a.column, err)
		}
		*a.dst = amount
	}

	n, ok := field(ColumnNumberOfPayments)
	if !ok {
		return loan, fail(ColumnNumberOfPayments, errors.New("missing value"))
	}
	payments, err := strconv.Atoi(n)
	if err != nil || payments <= 0 {
		return loan, fail(ColumnNumberOfPayments, fmt.Errorf("not a positive whole number: %q", n))
	}
	loan.NumberOfPayments = payments

	if v, ok := field(ColumnRate); ok {
		if loan.Rate, err = money.ParseRate(v); err != nil {
			return loan, fail(ColumnRate, err)
		}
	} else if v, ok := field(ColumnAnnualRatePercent); ok {
		annual, err := money.ParseRate(v)
		if err != nil {
			return loan, fail(ColumnAnnualRatePercent, err)
		}
		loan.Rate = annual / 12 / 100
	} else {
		return loan, fail(ColumnRate, errors.New("missing value"))
	}

	return loan, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// WriteCSV writes loans with a header row that ReadCSV accepts.
func WriteCSV(w io.Writer, loans []model.Loan) error {
	writer := csv.NewWriter(w)

	header := []string{ColumnName, ColumnInitialValue, ColumnRate, ColumnNumberOfPayments, ColumnPaymentAmount}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, loan := range loans {
		record := []string{
			loan.Name,
			strconv.FormatFloat(loan.InitialValue, 'f', 2, 64),
			strconv.FormatFloat(loan.Rate, 'f', -1, 64),
			strconv.Itoa(loan.NumberOfPayments),
			strconv.FormatFloat(loan.PaymentAmount, 'f', 2, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write loan %q: %w", loan.Name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
