// Package testutil provides shared test helpers: migrated stores and encoded
// bank export fixtures.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/Veraticus/financelama/internal/model"
	"github.com/Veraticus/financelama/internal/service"
	"github.com/Veraticus/financelama/internal/storage"
)

// TestDB represents a migrated in-memory test database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database seeded with rows.
// It automatically handles migrations and cleanup.
func SetupTestDB(t *testing.T, rows ...model.Transaction) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(rows) > 0 {
		if _, err := store.InsertAppend(ctx, rows); err != nil {
			t.Fatalf("failed to seed transactions: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// All returns every stored row or fails the test.
func (db *TestDB) All() []model.Transaction {
	db.t.Helper()
	rows, err := db.Storage.Select(context.Background(), service.TransactionFilter{})
	if err != nil {
		db.t.Fatalf("failed to select transactions: %v", err)
	}
	return rows
}

// WithTransaction executes fn within a database transaction that is always
// rolled back afterwards.
func (db *TestDB) WithTransaction(fn func(tx service.Transaction) error) error {
	tx, err := db.Storage.BeginTx(context.Background())
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	return fn(tx)
}
