// Package importer detects the layout of a source file and maps its rows into
// canonical transactions.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/financelama/internal/common"
	"github.com/Veraticus/financelama/internal/format"
	"github.com/Veraticus/financelama/internal/model"
	"github.com/Veraticus/financelama/internal/normalize"
	"github.com/Veraticus/financelama/internal/ofx"
)

// Result is the outcome of mapping one file. Nothing is persisted.
type Result struct {
	Format       string
	Path         string
	Transactions []model.Transaction
	// Read counts data rows before drop rules were applied.
	Read    int
	Dropped int
}

// Importer maps files of any registered format.
type Importer struct {
	registry  *format.Registry
	ofx       *ofx.Parser
	dropRules []DropRule
}

// Option configures an Importer.
type Option func(*Importer)

// WithDropRules replaces the default drop rules. Nil disables dropping.
func WithDropRules(rules []DropRule) Option {
	return func(i *Importer) {
		i.dropRules = rules
	}
}

// New creates an importer over registry.
func New(registry *format.Registry, opts ...Option) *Importer {
	i := &Importer{
		registry:  registry,
		ofx:       ofx.NewParser(),
		dropRules: DefaultDropRules(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Detect returns the format of the file at path.
func (i *Importer) Detect(path string) (format.Format, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return format.Format{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	f, _, err := i.detect(path, content)
	return f, err
}

// detect tries every registered format in order against the first line,
// decoded with that format's encoding. It also returns the parsed first line.
func (i *Importer) detect(path string, content []byte) (format.Format, []string, error) {
	isOFX := ofx.Sniff(content)
	for _, f := range i.registry.Formats() {
		if f.Kind == format.KindOFX {
			if isOFX {
				return f, nil, nil
			}
			continue
		}
		text, err := decode(content, f.Encoding)
		if err != nil {
			continue
		}
		if header := firstRecord(text, f.Comma()); f.Matches(header) {
			return f, header, nil
		}
	}

	return format.Format{}, nil, &common.UnknownFormatError{Path: path, Discriminator: leadingToken(content)}
}

// leadingToken returns the first cell of the first line for error reports,
// whichever of the usual delimiters the file uses.
func leadingToken(content []byte) string {
	line, _, _ := strings.Cut(strings.TrimPrefix(string(content), "\ufeff"), "\n")
	if i := strings.IndexAny(line, ";,\t"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(line), `"`))
}

// ImportFile reads, detects and maps the file at path. A malformed row aborts
// the whole file with a *common.ParseError carrying path and row.
func (i *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return i.Import(ctx, path, content)
}

// Import maps content that was read from path.
func (i *Importer) Import(ctx context.Context, path string, content []byte) (*Result, error) {
	f, header, err := i.detect(path, content)
	if err != nil {
		return nil, err
	}

	var rows []model.Transaction
	switch f.Kind {
	case format.KindOFX:
		rows, err = i.ofx.ParseFile(ctx, bytes.NewReader(content))
	default:
		rows, err = i.mapDelimited(&f, header, content)
	}
	if err != nil {
		var pe *common.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, fmt.Errorf("failed to import %s as %s: %w", path, f.Name, err)
	}

	result := &Result{Format: f.Name, Path: path, Read: len(rows)}
	for idx := range rows {
		if dropped(i.dropRules, &rows[idx]) {
			result.Dropped++
			continue
		}
		result.Transactions = append(result.Transactions, rows[idx])
	}

	slog.DebugContext(ctx, "Mapped file",
		"file", path,
		"format", f.Name,
		"read", result.Read,
		"dropped", result.Dropped)

	return result, nil
}

// mapDelimited applies f's column mapping to every data row below the header.
func (i *Importer) mapDelimited(f *format.Format, first []string, content []byte) ([]model.Transaction, error) {
	text, err := decode(content, f.Encoding)
	if err != nil {
		return nil, err
	}
	account := f.AccountFrom(first)

	reader := newReader(skipLines(text, f.HeaderRow), f.Comma())
	names, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read column names: %w", err)
	}
	index := make(map[string]int, len(names))
	for col, name := range names {
		name = strings.TrimSpace(name)
		if _, seen := index[name]; !seen {
			index[name] = col
		}
	}

	var rows []model.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}
		if blank(record) {
			continue
		}

		fields := make([]string, len(format.CanonicalFields))
		for field, sources := range f.Columns {
			fields[field] = join(record, index, sources)
		}

		tx, err := toTransaction(f, account, fields)
		if err != nil {
			var pe *common.ParseError
			if errors.As(err, &pe) {
				pe.Row = len(rows) + 1
			}
			return nil, err
		}
		rows = append(rows, tx)
	}
	return rows, nil
}

func toTransaction(f *format.Format, account string, fields []string) (model.Transaction, error) {
	day, err := normalize.Date(fields[format.FieldDay], f.DateLayout)
	if err != nil {
		return model.Transaction{}, err
	}
	value, err := normalize.Amount(fields[format.FieldValue], f.DecimalComma)
	if err != nil {
		return model.Transaction{}, err
	}
	return model.Transaction{
		Account:        account,
		Day:            day,
		Info:           fields[format.FieldInfo],
		Orderer:        fields[format.FieldOrderer],
		Reason:         fields[format.FieldReason],
		OrdererAccount: fields[format.FieldOrdererAccount],
		OrdererBank:    fields[format.FieldOrdererBank],
		Value:          value,
	}, nil
}

// join concatenates the named source columns with a single space. Columns the
// file lacks count as empty; an all-blank result is the empty string.
func join(record []string, index map[string]int, sources []string) string {
	parts := make([]string, len(sources))
	for n, name := range sources {
		if col, ok := index[name]; ok && col < len(record) {
			parts[n] = record[col]
		}
	}
	joined := strings.Join(parts, " ")
	if strings.TrimSpace(joined) == "" {
		return ""
	}
	return joined
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
