// Package normalize converts locale-formatted source values into canonical types.
package normalize

import (
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Veraticus/financelama/internal/common"
	"github.com/shopspring/decimal"
)

// Absent is the sentinel for a value the source did not provide. It cannot
// occur in a trimmed source cell, so it never collides with real data.
const Absent = "\x00absent"

var errEmpty = errors.New("empty value")

// Amount parses a locale-formatted amount. With decimalComma the input uses
// "." for thousands and "," for decimals ("1.234,56"); otherwise "," groups
// thousands and "." is the decimal point ("1,234.56").
func Amount(raw string, decimalComma bool) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer(" ", "", "\u00a0", "", "'", "").Replace(s)
	if s == "" {
		return decimal.Zero, &common.ParseError{Field: "amount", Value: raw, Err: errEmpty}
	}

	if decimalComma {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	// decimal.NewFromString accepts exponents; bank exports never contain them.
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, &common.ParseError{Field: "amount", Value: raw, Err: errors.New("non-numeric residue")}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &common.ParseError{Field: "amount", Value: raw, Err: err}
	}
	return d, nil
}

// Date parses raw with a Go reference layout such as "02.01.2006" and drops
// any time component.
func Date(raw, layout string) (civil.Date, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return civil.Date{}, &common.ParseError{Field: "date", Value: raw, Err: errEmpty}
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return civil.Date{}, &common.ParseError{Field: "date", Value: raw, Err: err}
	}
	return civil.DateOf(t), nil
}

// FillMissing maps empty and whitespace-only values to Absent. Other values
// are returned unchanged.
func FillMissing(field string) string {
	if strings.TrimSpace(field) == "" {
		return Absent
	}
	return field
}
