// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/Veraticus/financelama/internal/model"
)

// Columns that UpdateWhere may change. Identity fields are immutable.
const (
	ColumnCategory = "category"
	ColumnReport   = "report"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *civil.Date
	EndDate   *civil.Date
	// Accounts restricts the result to these accounts when non-empty.
	Accounts []string
	// Uncategorized selects only rows without a category.
	Uncategorized bool
	// Reports restricts the result to rows labeled with one of these reports
	// when non-empty.
	Reports []string
}

// TransactionStore holds the row operations the pipeline needs. It is
// satisfied both by the store and by an open store transaction.
type TransactionStore interface {
	Select(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	InsertAppend(ctx context.Context, transactions []model.Transaction) (int, error)
	UpdateWhere(ctx context.Context, column, value string, sel model.RowSelector) (int64, error)
	SetCategory(ctx context.Context, id int64, category string) error
	SetReport(ctx context.Context, name string, sel model.RowSelector) (int64, error)

	// Import log
	RecordImport(ctx context.Context, record *model.ImportRecord) error
	ListImports(ctx context.Context) ([]model.ImportRecord, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	TransactionStore

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	TransactionStore
	Commit() error
	Rollback() error
}
