package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/financelama/internal/model"
)

// RecordImport appends one entry to the import log.
func (s *SQLiteStorage) RecordImport(ctx context.Context, record *model.ImportRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateImportRecord(record); err != nil {
		return err
	}
	return recordImport(ctx, s.db, record)
}

func recordImport(ctx context.Context, q queryable, record *model.ImportRecord) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO imports (id, path, format, read_count, inserted_count, dropped_count, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Path, record.Format, record.Read, record.Inserted, record.Dropped, record.ImportedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}
	return nil
}

// ListImports returns the import log, oldest first.
func (s *SQLiteStorage) ListImports(ctx context.Context) ([]model.ImportRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return listImports(ctx, s.db)
}

func listImports(ctx context.Context, q queryable) ([]model.ImportRecord, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, path, format, read_count, inserted_count, dropped_count, imported_at
		FROM imports
		ORDER BY imported_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.ImportRecord
	for rows.Next() {
		var r model.ImportRecord
		if err := rows.Scan(&r.ID, &r.Path, &r.Format, &r.Read, &r.Inserted, &r.Dropped, &r.ImportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating imports: %w", err)
	}
	return records, nil
}
