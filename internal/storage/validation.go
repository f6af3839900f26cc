// Package storage provides the SQLite persistence layer for canonical transactions.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/financelama/internal/common"
	"github.com/Veraticus/financelama/internal/model"
	"github.com/Veraticus/financelama/internal/service"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidRange       = errors.New("invalid id range")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidImport      = errors.New("invalid import record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of transactions. An empty slice is
// valid; a nil one is not.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return nil
	}
	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID != 0 {
		return fmt.Errorf("%w: already stored as %d", ErrInvalidTransaction, txn.ID)
	}
	if !txn.Day.IsValid() {
		return fmt.Errorf("%w: invalid day %s", ErrInvalidTransaction, txn.Day)
	}
	return nil
}

// validateUpdate checks that column is mutable and sel addresses rows.
func validateUpdate(column string, sel model.RowSelector) error {
	switch column {
	case service.ColumnCategory, service.ColumnReport:
	default:
		return fmt.Errorf("%w: %q", common.ErrUnsupportedColumn, column)
	}
	if sel.IsEmpty() {
		return common.ErrEmptySelection
	}
	for _, r := range sel.Ranges {
		if r.To < r.From {
			return fmt.Errorf("%w: %d-%d", ErrInvalidRange, r.From, r.To)
		}
	}
	return nil
}

// validateImportRecord validates an import log entry.
func validateImportRecord(record *model.ImportRecord) error {
	if record == nil {
		return fmt.Errorf("%w: import record", ErrNilParameter)
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidImport)
	}
	if strings.TrimSpace(record.Path) == "" {
		return fmt.Errorf("%w: missing path", ErrInvalidImport)
	}
	if record.ImportedAt.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidImport)
	}
	if record.Read < 0 || record.Inserted < 0 || record.Dropped < 0 {
		return fmt.Errorf("%w: negative count", ErrInvalidImport)
	}
	return nil
}
