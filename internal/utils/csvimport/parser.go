// Package csvimport turns a bank-style CSV export into transaction records.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Column names recognised in the header row, matched case-insensitively.
var columnAliases = map[string]string{
	"date":        "date",
	"description": "description",
	"desc":        "description",
	"details":     "description",
	"memo":        "description",
	"amount":      "amount",
	"balance":     "balance",
	"category":    "category",
}

var dateLayouts = []string{
	domain.DateLayout,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// ErrNoHeader is returned for an empty file or a header without any known column.
var ErrNoHeader = fmt.Errorf("%w: csv has no recognisable header row", apperrors.ErrValidation)

// LineError reports the 1-based line that failed to parse.
type LineError struct {
	Line  int
	Field string
	Err   error
}

func (e *LineError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d %s: %v", e.Line, e.Field, e.Err)
}

func (e *LineError) Unwrap() []error {
	return []error{apperrors.ErrValidation, e.Err}
}

// Parse reads every data row. The returned records carry no IDs or audit
// fields; callers assign those before persisting. Any malformed row fails the
// whole parse.
func Parse(r io.Reader) ([]domain.Transaction, error) {
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1

	header, err := csvr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, &LineError{Line: 1, Err: err}
	}
	columns := mapHeader(header)
	if len(columns) == 0 {
		return nil, ErrNoHeader
	}

	txns := []domain.Transaction{}
	for {
		rec, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.StartLine
			}
			return nil, &LineError{Line: line, Err: err}
		}
		line, _ := csvr.FieldPos(0)
		if isBlank(rec) {
			continue
		}
		txn, err := parseRow(rec, columns, line)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func mapHeader(header []string) map[string]int {
	columns := make(map[string]int)
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if field, ok := columnAliases[key]; ok {
			if _, dup := columns[field]; !dup {
				columns[field] = i
			}
		}
	}
	return columns
}

func parseRow(rec []string, columns map[string]int, line int) (domain.Transaction, error) {
	cell := func(field string) string {
		i, ok := columns[field]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var txn domain.Transaction
	var err error
	if txn.Date, err = ParseDate(cell("date")); err != nil {
		return txn, &LineError{Line: line, Field: "date", Err: err}
	}
	if txn.Amount, err = ParseAmount(cell("amount")); err != nil {
		return txn, &LineError{Line: line, Field: "amount", Err: err}
	}
	if txn.Balance, err = ParseAmount(cell("balance")); err != nil {
		return txn, &LineError{Line: line, Field: "balance", Err: err}
	}
	txn.Description = cell("description")
	txn.Category = cell("category")
	return txn, nil
}

// ParseDate accepts the common bank export layouts. Empty input is a missing date.
func ParseDate(s string) (domain.Date, error) {
	if s == "" {
		return domain.Date{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.DateOf(t), nil
		}
	}
	return domain.Date{}, fmt.Errorf("unrecognised date %q", s)
}

// ParseAmount accepts currency symbols, comma or apostrophe thousands
// separators and accounting style "(12.50)" negatives. Anything else that is
// not a plain decimal number is rejected. Empty input is a missing amount.
func ParseAmount(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	raw := s
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.Map(func(r rune) rune {
		if r == ',' || r == '\'' || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if !isPlainDecimal(s) {
		return decimal.NullDecimal{}, fmt.Errorf("invalid amount %q", raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if negative {
		d = d.Abs().Neg()
	}
	return decimal.NewNullDecimal(d), nil
}

// isPlainDecimal reports whether s is an optional sign followed by digits with
// at most one decimal point. Exponents and embedded spaces are not allowed.
func isPlainDecimal(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
