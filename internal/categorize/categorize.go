// Package categorize assigns spending categories by keyword lookup.
package categorize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/financelama/internal/common"
	"github.com/Veraticus/financelama/internal/model"
)

// FallbackCategory is assigned when no keyword matches.
const FallbackCategory = "other"

// Category is one entry of the keyword table.
type Category struct {
	Name     string   `mapstructure:"name" yaml:"name"`
	Keywords []string `mapstructure:"keywords" yaml:"keywords"`
}

// Table is an ordered keyword table. Earlier categories take precedence when
// keywords of several categories match.
type Table []Category

// Validate rejects unnamed categories, repeated names and blank keywords.
func (t Table) Validate() error {
	names := make(map[string]struct{}, len(t))
	for i, c := range t {
		if strings.TrimSpace(c.Name) == "" {
			return &common.ConfigurationError{Reason: fmt.Sprintf("category %d has no name", i+1)}
		}
		if _, dup := names[c.Name]; dup {
			return &common.ConfigurationError{Reason: fmt.Sprintf("category %q declared twice", c.Name)}
		}
		names[c.Name] = struct{}{}
		for _, kw := range c.Keywords {
			if strings.TrimSpace(kw) == "" {
				return &common.ConfigurationError{Reason: fmt.Sprintf("category %q has an empty keyword", c.Name)}
			}
		}
	}
	return nil
}

// Categorizer matches transactions against a keyword table.
type Categorizer struct {
	fallback string
	table    Table
	// lowered[i] holds the lower-cased keywords of table[i].
	lowered [][]string
}

// New validates table and prepares it for matching. An empty fallback means
// FallbackCategory.
func New(table Table, fallback string) (*Categorizer, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(fallback) == "" {
		fallback = FallbackCategory
	}

	c := &Categorizer{
		table:    table,
		fallback: fallback,
		lowered:  make([][]string, len(table)),
	}
	for i, cat := range table {
		for _, kw := range cat.Keywords {
			c.lowered[i] = append(c.lowered[i], strings.ToLower(kw))
		}
	}
	return c, nil
}

// Match returns the first category, in table order, with a keyword that
// occurs in text ignoring case. Without a match it returns the fallback.
func (c *Categorizer) Match(text string) string {
	text = strings.ToLower(text)
	for i, keywords := range c.lowered {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return c.table[i].Name
			}
		}
	}
	return c.fallback
}

// Categorize assigns a category to every uncategorized row, or to all rows
// when force is set, and returns the assigned rows. The input is not modified.
func (c *Categorizer) Categorize(ctx context.Context, rows []model.Transaction, force bool) []model.Transaction {
	var updated []model.Transaction
	for _, row := range rows {
		if row.IsCategorized() && !force {
			continue
		}
		row.Category = c.Match(row.Orderer + row.Reason)
		updated = append(updated, row)

		slog.DebugContext(ctx, "Categorized transaction",
			"row_id", row.ID,
			"transaction", trace(&row),
			"category", row.Category)
	}
	return updated
}

// Fallback returns the category used when nothing matches.
func (c *Categorizer) Fallback() string {
	return c.fallback
}

// Table returns the keyword table in precedence order.
func (c *Categorizer) Table() Table {
	return c.table
}

// trace renders orderer|info|reason cut to 80 characters.
func trace(row *model.Transaction) string {
	s := []rune(row.Orderer + "|" + row.Info + "|" + row.Reason)
	if len(s) > 80 {
		s = s[:80]
	}
	return string(s)
}
