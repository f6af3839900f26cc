package importer

import (
	"fmt"
	"strings"

	"github.com/Veraticus/financelama/internal/common"
	"github.com/Veraticus/financelama/internal/model"
)

// Fields a drop rule can inspect.
const (
	DropFieldOrderer = "orderer"
	DropFieldReason  = "reason"
	DropFieldInfo    = "info"
)

// DropRule discards imported rows whose Field contains any of Keywords,
// compared case-insensitively. Used for transfers between own accounts
// that would otherwise be counted twice.
type DropRule struct {
	Field    string   `mapstructure:"field" yaml:"field"`
	Keywords []string `mapstructure:"keywords" yaml:"keywords"`
}

// DefaultDropRules drops credit card settlements and internal rebookings.
func DefaultDropRules() []DropRule {
	return []DropRule{
		{Field: DropFieldOrderer, Keywords: []string{"KREDITKARTENABRECHNUNG", "Ausgleich Kreditkarte"}},
		{Field: DropFieldReason, Keywords: []string{"umbuchung"}},
	}
}

// Validate rejects rules on fields that cannot be inspected.
func (r DropRule) Validate() error {
	switch r.Field {
	case DropFieldOrderer, DropFieldReason, DropFieldInfo:
	default:
		return &common.ConfigurationError{Reason: fmt.Sprintf("drop rule on unknown field %q", r.Field)}
	}
	for _, kw := range r.Keywords {
		if strings.TrimSpace(kw) == "" {
			return &common.ConfigurationError{Reason: fmt.Sprintf("empty keyword in drop rule on %s", r.Field)}
		}
	}
	return nil
}

// Matches reports whether tx should be dropped.
func (r DropRule) Matches(tx *model.Transaction) bool {
	var value string
	switch r.Field {
	case DropFieldOrderer:
		value = tx.Orderer
	case DropFieldReason:
		value = tx.Reason
	case DropFieldInfo:
		value = tx.Info
	}
	value = strings.ToLower(value)
	for _, kw := range r.Keywords {
		if strings.Contains(value, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func dropped(rules []DropRule, tx *model.Transaction) bool {
	for _, r := range rules {
		if r.Matches(tx) {
			return true
		}
	}
	return false
}
