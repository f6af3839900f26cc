// Package pipeline wires the importer, the merger, the categorizer and the
// report view to a store. Every operation runs one connect-read-write-commit
// cycle against the store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/financelama/internal/categorize"
	"github.com/Veraticus/financelama/internal/common"
	"github.com/Veraticus/financelama/internal/dedup"
	"github.com/Veraticus/financelama/internal/importer"
	"github.com/Veraticus/financelama/internal/model"
	"github.com/Veraticus/financelama/internal/report"
	"github.com/Veraticus/financelama/internal/service"
	"github.com/google/uuid"
)

// updateChunk bounds the ids bound into one UPDATE statement.
const updateChunk = 500

// Pipeline runs lama's operations against one store.
type Pipeline struct {
	store       service.Storage
	importer    *importer.Importer
	categorizer *categorize.Categorizer
	now         func() time.Time
}

// New creates a pipeline. The store handle is owned by the caller.
func New(store service.Storage, imp *importer.Importer, categorizer *categorize.Categorizer) *Pipeline {
	return &Pipeline{
		store:       store,
		importer:    imp,
		categorizer: categorizer,
		now:         time.Now,
	}
}

// ImportFile imports one file: map, merge against the stored rows of the same
// accounts, append the new rows and log the import, all in one store
// transaction. With dryRun nothing is committed.
func (p *Pipeline) ImportFile(ctx context.Context, path string, dryRun bool) (*FileResult, error) {
	mapped, err := p.importer.ImportFile(ctx, path)
	if err != nil {
		return nil, err
	}

	result, err := p.storeMapped(ctx, mapped, dryRun)
	if err != nil {
		return nil, err
	}

	verb := "Imported"
	if dryRun {
		verb = "Would import"
	}
	slog.InfoContext(ctx, fmt.Sprintf("%s %d/%d transactions from %s", verb, result.Inserted, result.Read, path),
		"format", result.Format,
		"dropped", result.Dropped)

	return result, nil
}

func (p *Pipeline) storeMapped(ctx context.Context, mapped *importer.Result, dryRun bool) (*FileResult, error) {
	result := &FileResult{
		Path:    mapped.Path,
		Format:  mapped.Format,
		Read:    mapped.Read,
		Dropped: mapped.Dropped,
		DryRun:  dryRun,
	}

	tx, err := p.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var existing []model.Transaction
	if len(mapped.Transactions) > 0 {
		existing, err = tx.Select(ctx, service.TransactionFilter{Accounts: dedup.Accounts(mapped.Transactions)})
		if err != nil {
			return nil, fmt.Errorf("failed to load stored transactions: %w", err)
		}
	}

	fresh, err := dedup.Merge(existing, mapped.Transactions)
	if err != nil {
		return nil, fmt.Errorf("failed to merge %s: %w", mapped.Path, err)
	}

	inserted, err := tx.InsertAppend(ctx, fresh)
	if err != nil {
		return nil, fmt.Errorf("failed to store transactions from %s: %w", mapped.Path, err)
	}
	result.Inserted = inserted

	if dryRun {
		return result, nil
	}

	record := &model.ImportRecord{
		ID:         uuid.NewString(),
		Path:       mapped.Path,
		Format:     result.Format,
		Read:       result.Read,
		Inserted:   inserted,
		Dropped:    result.Dropped,
		ImportedAt: p.now(),
	}
	if err := tx.RecordImport(ctx, record); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import of %s: %w", mapped.Path, err)
	}
	result.ImportID = record.ID

	return result, nil
}

// ImportPaths imports every file named by paths. Directories contribute their
// regular files and patterns are expanded as globs. Files are processed in
// order and a failing file never stops the batch; its error is recorded in
// the batch result. onFile, when not nil, is called after each file.
func (p *Pipeline) ImportPaths(ctx context.Context, paths []string, dryRun bool, onFile func(FileResult)) (*BatchResult, error) {
	files, err := ExpandPaths(paths)
	if err != nil {
		return nil, err
	}

	batch := &BatchResult{}
	for _, file := range files {
		if ctx.Err() != nil {
			return batch, ctx.Err()
		}

		res, err := p.ImportFile(ctx, file, dryRun)
		if err != nil {
			res = &FileResult{Path: file, DryRun: dryRun, Err: err}
			logFileError(ctx, file, err)
		}
		batch.Files = append(batch.Files, *res)

		if onFile != nil {
			onFile(*res)
		}
	}
	return batch, nil
}

// ImportDirectory imports the regular files directly inside dir.
func (p *Pipeline) ImportDirectory(ctx context.Context, dir string, dryRun bool, onFile func(FileResult)) (*BatchResult, error) {
	return p.ImportPaths(ctx, []string{dir}, dryRun, onFile)
}

func logFileError(ctx context.Context, path string, err error) {
	var unknown *common.UnknownFormatError
	if errors.As(err, &unknown) {
		slog.WarnContext(ctx, "Skipping file with unknown format",
			"file", path,
			"discriminator", unknown.Discriminator)
		return
	}
	slog.ErrorContext(ctx, "Failed to import file",
		"file", path,
		"error", err)
}

// Categorize assigns categories to uncategorized rows, or to every row with
// force, and returns the number of rows written.
func (p *Pipeline) Categorize(ctx context.Context, force bool) (int, error) {
	total, err := p.categorize(ctx, force)
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Categorized transactions",
		"count", total,
		"force", force)

	return total, nil
}

func (p *Pipeline) categorize(ctx context.Context, force bool) (int, error) {
	tx, err := p.store.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.Select(ctx, service.TransactionFilter{Uncategorized: !force})
	if err != nil {
		return 0, fmt.Errorf("failed to load transactions: %w", err)
	}

	updated := p.categorizer.Categorize(ctx, rows, force)

	var (
		order []string
		ids   = make(map[string][]int64)
	)
	for _, row := range updated {
		if _, ok := ids[row.Category]; !ok {
			order = append(order, row.Category)
		}
		ids[row.Category] = append(ids[row.Category], row.ID)
	}

	total := 0
	for _, category := range order {
		all := ids[category]
		for start := 0; start < len(all); start += updateChunk {
			end := min(start+updateChunk, len(all))
			n, err := tx.UpdateWhere(ctx, service.ColumnCategory, category, model.RowSelector{IDs: all[start:end]})
			if err != nil {
				return 0, fmt.Errorf("failed to assign %s: %w", category, err)
			}
			total += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit categories: %w", err)
	}
	return total, nil
}

// SetCategory overrides the category of one row.
func (p *Pipeline) SetCategory(ctx context.Context, id int64, category string) error {
	return p.store.SetCategory(ctx, id, strings.TrimSpace(category))
}

// SetReport labels the selected rows with a report name and returns the
// number of rows labeled. Reusing a name merges the groups.
func (p *Pipeline) SetReport(ctx context.Context, name string, sel model.RowSelector) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, &common.UserError{UserMessage: "report name cannot be empty"}
	}
	n, err := p.store.SetReport(ctx, name, sel)
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "Assigned report",
		"report", name,
		"rows", n)
	return n, nil
}

// View returns the stored rows matching filter with every report collapsed
// into one summary row. A report is shown when any of its rows matches the
// filter, and its summary always covers all of its rows.
func (p *Pipeline) View(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	tx, err := p.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.Select(ctx, filter)
	if err != nil {
		return nil, err
	}

	var (
		plain   []model.Transaction
		reports []string
		seen    = make(map[string]bool)
	)
	for _, row := range rows {
		if !row.IsReported() {
			plain = append(plain, row)
			continue
		}
		if !seen[row.Report] {
			seen[row.Report] = true
			reports = append(reports, row.Report)
		}
	}
	if len(reports) == 0 {
		return plain, nil
	}

	members, err := tx.Select(ctx, service.TransactionFilter{Reports: reports})
	if err != nil {
		return nil, fmt.Errorf("failed to load report members: %w", err)
	}
	return append(plain, report.Aggregate(members)...), nil
}

// Imports returns the import log.
func (p *Pipeline) Imports(ctx context.Context) ([]model.ImportRecord, error) {
	return p.store.ListImports(ctx)
}
