package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// IDRange is an inclusive range of store row ids.
type IDRange struct {
	From int64
	To   int64
}

// ParseIDRange parses "617-620" into an inclusive range.
// A single id ("42") yields a range of one.
func ParseIDRange(s string) (IDRange, error) {
	s = strings.TrimSpace(s)
	from, to, found := strings.Cut(s, "-")
	lo, err := strconv.ParseInt(strings.TrimSpace(from), 10, 64)
	if err != nil {
		return IDRange{}, fmt.Errorf("invalid row id %q: %w", from, err)
	}
	if !found {
		return IDRange{From: lo, To: lo}, nil
	}
	hi, err := strconv.ParseInt(strings.TrimSpace(to), 10, 64)
	if err != nil {
		return IDRange{}, fmt.Errorf("invalid row id %q: %w", to, err)
	}
	if hi < lo {
		return IDRange{}, fmt.Errorf("invalid range %q: end before start", s)
	}
	return IDRange{From: lo, To: hi}, nil
}

// RowSelector addresses stored rows by id and/or inclusive id ranges.
type RowSelector struct {
	IDs    []int64
	Ranges []IDRange
}

// IsEmpty reports whether the selector addresses no rows at all.
func (s RowSelector) IsEmpty() bool {
	return len(s.IDs) == 0 && len(s.Ranges) == 0
}

// ImportRecord is one entry of the import log.
type ImportRecord struct {
	ImportedAt time.Time
	ID         string
	Path       string
	Format     string
	Read       int
	Inserted   int
	Dropped    int
}

// MonthOf returns the first day of the month containing d.
func MonthOf(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}
