package fintrack

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Transaction logs travel as semicolon-separated CSV:
//
//	Date;Ticker;Type;Amount;Price
//	2024-01-10;AAPL;Buy;10;100
//
// Dates are ISO-8601, Type is one of Buy, Sell, Short, Cover
// (case-insensitive), Amount is the whole-number share count and Price the
// per-share execution price in the ticker's native currency.

var csvHeader = []string{"Date", "Ticker", "Type", "Amount", "Price"}

// ReadCSV parses a transaction log. Records come back in input order,
// validated; the first bad record aborts the whole read with a
// ValidationError naming its line.
func ReadCSV(r io.Reader) ([]Transaction, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("malformed csv: %v", err)}
	}
	if len(records) == 0 {
		return nil, &ValidationError{Reason: "empty csv, missing header"}
	}
	if err := checkHeader(records[0]); err != nil {
		return nil, err
	}

	var txs []Transaction
	for i, record := range records[1:] {
		line := i + 2 // 1-based, after the header
		tx, err := parseRecord(record)
		if err != nil {
			if verr, ok := err.(*ValidationError); ok {
				verr.Line = line
			}
			return nil, err
		}
		if err := tx.Validate(); err != nil {
			if verr, ok := err.(*ValidationError); ok {
				verr.Line = line
			}
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func checkHeader(record []string) error {
	if len(record) != len(csvHeader) {
		return &ValidationError{Line: 1, Reason: fmt.Sprintf("want %d columns, got %d", len(csvHeader), len(record))}
	}
	for i, want := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(record[i]), want) {
			return &ValidationError{Line: 1, Reason: fmt.Sprintf("want header %q, got %q", want, record[i])}
		}
	}
	return nil
}

func parseRecord(record []string) (Transaction, error) {
	if len(record) != len(csvHeader) {
		return Transaction{}, &ValidationError{Reason: fmt.Sprintf("want %d columns, got %d", len(csvHeader), len(record))}
	}
	on, err := ParseDate(record[0])
	if err != nil {
		return Transaction{}, &ValidationError{Field: "date", Reason: err.Error()}
	}
	kind, err := ParseKind(record[2])
	if err != nil {
		return Transaction{}, &ValidationError{Field: "type", Reason: err.Error()}
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return Transaction{}, &ValidationError{Field: "amount", Reason: fmt.Sprintf("not a number: %q", record[3])}
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
	if err != nil {
		return Transaction{}, &ValidationError{Field: "price", Reason: fmt.Sprintf("not a number: %q", record[4])}
	}
	return NewTransaction(on, strings.TrimSpace(record[1]), kind, amount, price), nil
}

// WriteCSV writes a transaction log in the same format ReadCSV reads.
func WriteCSV(w io.Writer, txs []Transaction) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, tx := range txs {
		record := []string{
			tx.Date.String(),
			tx.Ticker,
			tx.Kind.String(),
			tx.Amount.String(),
			tx.Price.Decimal().String(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVFile is a TransactionSource reading a semicolon-separated log file.
type CSVFile struct {
	Path string
}

func (f CSVFile) Transactions(_ context.Context) ([]Transaction, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

var _ TransactionSource = CSVFile{}
