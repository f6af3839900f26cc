package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/Veraticus/financelama/internal/common"
	"github.com/Veraticus/financelama/internal/model"
	"github.com/Veraticus/financelama/internal/service"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, account, day, info, orderer, orderer_account, orderer_bank, reason, value, category, report`

// Select returns the rows matching filter ordered by day, then insertion order.
func (s *SQLiteStorage) Select(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return selectTransactions(ctx, s.db, filter)
}

func selectTransactions(ctx context.Context, q queryable, filter service.TransactionFilter) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`

	var (
		where []string
		args  []any
	)
	if len(filter.Accounts) > 0 {
		var (
			accounts []any
			orNull   bool
		)
		for _, account := range filter.Accounts {
			if account == "" {
				orNull = true
				continue
			}
			accounts = append(accounts, account)
		}
		var conds []string
		if len(accounts) > 0 {
			conds = append(conds, "account IN ("+placeholders(len(accounts))+")")
			args = append(args, accounts...)
		}
		if orNull {
			conds = append(conds, "account IS NULL")
		}
		where = append(where, "("+strings.Join(conds, " OR ")+")")
	}
	if filter.Uncategorized {
		where = append(where, "category IS NULL")
	}
	if len(filter.Reports) > 0 {
		where = append(where, "report IN ("+placeholders(len(filter.Reports))+")")
		for _, r := range filter.Reports {
			args = append(args, r)
		}
	}
	if filter.StartDate != nil {
		where = append(where, "day >= ?")
		args = append(args, filter.StartDate.String())
	}
	if filter.EndDate != nil {
		where = append(where, "day <= ?")
		args = append(args, filter.EndDate.String())
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY day, id"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// InsertAppend appends transactions in one statement batch and returns the
// number of rows written. Identity is not checked here; callers merge first.
func (s *SQLiteStorage) InsertAppend(ctx context.Context, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}
	if len(transactions) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	n, err := insertTransactions(ctx, tx, transactions)
	if err != nil {
		return 0, wrapBusy(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", wrapBusy(err))
	}
	return n, nil
}

func insertTransactions(ctx context.Context, tx *sql.Tx, transactions []model.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			account, day, info, orderer, orderer_account, orderer_bank,
			reason, value, category, report
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, txn := range transactions {
		if _, err := stmt.ExecContext(ctx,
			nullable(txn.Account),
			txn.Day.String(),
			nullable(txn.Info),
			nullable(txn.Orderer),
			nullable(txn.OrdererAccount),
			nullable(txn.OrdererBank),
			nullable(txn.Reason),
			txn.Value.String(),
			nullable(txn.Category),
			nullable(txn.Report),
		); err != nil {
			return 0, fmt.Errorf("failed to insert transaction %d: %w", i, err)
		}
	}

	return len(transactions), nil
}

// UpdateWhere sets column to value on every selected row. Only the category
// and report annotations can be changed; an empty value clears them.
func (s *SQLiteStorage) UpdateWhere(ctx context.Context, column, value string, sel model.RowSelector) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateUpdate(column, sel); err != nil {
		return 0, err
	}
	return updateWhere(ctx, s.db, column, value, sel)
}

func updateWhere(ctx context.Context, q queryable, column, value string, sel model.RowSelector) (int64, error) {
	where, args := selectorClause(sel)
	// column is one of the whitelisted names checked by validateUpdate.
	query := fmt.Sprintf("UPDATE transactions SET %s = ? WHERE %s", column, where)

	result, err := q.ExecContext(ctx, query, append([]any{nullable(value)}, args...)...)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", column, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}

// SetCategory assigns category to the row with the given id.
func (s *SQLiteStorage) SetCategory(ctx context.Context, id int64, category string) error {
	return setCategory(ctx, s, id, category)
}

func setCategory(ctx context.Context, store service.TransactionStore, id int64, category string) error {
	if err := validateString(category, "category"); err != nil {
		return err
	}
	n, err := store.UpdateWhere(ctx, service.ColumnCategory, category, model.RowSelector{IDs: []int64{id}})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// SetReport labels the selected rows with report name. Returns the number
// of rows labeled, or ErrNotFound when the selection matches no row.
func (s *SQLiteStorage) SetReport(ctx context.Context, name string, sel model.RowSelector) (int64, error) {
	return setReport(ctx, s, name, sel)
}

func setReport(ctx context.Context, store service.TransactionStore, name string, sel model.RowSelector) (int64, error) {
	n, err := store.UpdateWhere(ctx, service.ColumnReport, name, sel)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("no transactions selected: %w", common.ErrNotFound)
	}
	return n, nil
}

// Count returns the number of stored rows.
func (s *SQLiteStorage) Count(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction

	for rows.Next() {
		var (
			txn                                    model.Transaction
			account, info, orderer, ordererAccount sql.NullString
			ordererBank, reason, category, report  sql.NullString
			day, value                             string
		)

		if err := rows.Scan(
			&txn.ID, &account, &day, &info, &orderer, &ordererAccount,
			&ordererBank, &reason, &value, &category, &report,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		parsedDay, err := civil.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("transaction %d has invalid day %q: %w", txn.ID, day, err)
		}
		parsedValue, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("transaction %d has invalid value %q: %w", txn.ID, value, err)
		}

		txn.Day = parsedDay
		txn.Value = parsedValue
		txn.Account = account.String
		txn.Info = info.String
		txn.Orderer = orderer.String
		txn.OrdererAccount = ordererAccount.String
		txn.OrdererBank = ordererBank.String
		txn.Reason = reason.String
		txn.Category = category.String
		txn.Report = report.String

		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// selectorClause renders sel as a WHERE condition over id.
func selectorClause(sel model.RowSelector) (string, []any) {
	var (
		parts []string
		args  []any
	)
	if len(sel.IDs) > 0 {
		parts = append(parts, "id IN ("+placeholders(len(sel.IDs))+")")
		for _, id := range sel.IDs {
			args = append(args, id)
		}
	}
	for _, r := range sel.Ranges {
		parts = append(parts, "id BETWEEN ? AND ?")
		args = append(args, r.From, r.To)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// nullable stores the empty string as NULL; NULL reads back as "".
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// queryable is an interface satisfied by both *sql.DB and *sql.Tx.
type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
