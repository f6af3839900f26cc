// Package model holds the canonical data types shared across the pipeline.
package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// InfoReported marks synthetic rows produced by report aggregation.
const InfoReported = "REPORTED"

// Transaction is one financial movement in the canonical schema.
//
// Text fields use the empty string for "not provided". Category and Report are
// mutable annotations and never take part in duplicate detection.
type Transaction struct {
	Day            civil.Date
	Value          decimal.Decimal // negative = outflow
	Account        string
	Info           string
	Orderer        string
	Reason         string
	OrdererAccount string
	OrdererBank    string
	Category       string // empty until categorized
	Report         string // empty until assigned
	ID             int64  // store row id, zero before persisted
}

// IsCategorized reports whether the categorizer already assigned a label.
func (t *Transaction) IsCategorized() bool {
	return t.Category != ""
}

// IsReported reports whether the transaction belongs to a report.
func (t *Transaction) IsReported() bool {
	return t.Report != ""
}

// IsExpense reports whether the transaction is an outflow.
func (t *Transaction) IsExpense() bool {
	return t.Value.IsNegative()
}
