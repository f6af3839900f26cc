// Package dedup decides which imported rows are new to the store.
package dedup

import (
	"strings"

	"github.com/Veraticus/financelama/internal/common"
	"github.com/Veraticus/financelama/internal/model"
	"github.com/Veraticus/financelama/internal/normalize"
)

// Key is the natural identity of a transaction. Text fields hold
// normalize.FillMissing output so that "not provided" compares equal whether
// it came from a source file or from the store. Category and Report are not
// part of the key.
type Key struct {
	Account        string
	Day            string
	Info           string
	Orderer        string
	Reason         string
	OrdererAccount string
	OrdererBank    string
	Value          string
}

// KeyOf derives the natural key of tx.
func KeyOf(tx *model.Transaction) Key {
	return Key{
		Account:        normalize.FillMissing(tx.Account),
		Day:            tx.Day.String(),
		Info:           normalize.FillMissing(tx.Info),
		Orderer:        normalize.FillMissing(tx.Orderer),
		Reason:         normalize.FillMissing(tx.Reason),
		OrdererAccount: normalize.FillMissing(tx.OrdererAccount),
		OrdererBank:    normalize.FillMissing(tx.OrdererBank),
		// String is canonical: -50.00 and -50 render the same.
		Value: tx.Value.String(),
	}
}

// String renders the key for error messages.
func (k Key) String() string {
	fields := []string{k.Account, k.Day, k.Info, k.Orderer, k.Reason, k.OrdererAccount, k.OrdererBank, k.Value}
	for i, f := range fields {
		if f == normalize.Absent {
			fields[i] = "<absent>"
		}
	}
	return strings.Join(fields, "|")
}

// Merge returns the rows of incoming whose key occurs neither in existing nor
// earlier in incoming, in their original order. Existing rows are never
// returned. Two existing rows sharing a key violate the store's uniqueness
// assumption and yield a *common.DuplicateKeyCollisionError.
func Merge(existing, incoming []model.Transaction) ([]model.Transaction, error) {
	seen := make(map[Key]int64, len(existing)+len(incoming))
	for i := range existing {
		k := KeyOf(&existing[i])
		if id, dup := seen[k]; dup {
			return nil, &common.DuplicateKeyCollisionError{
				Key: k.String(),
				IDs: []int64{id, existing[i].ID},
			}
		}
		seen[k] = existing[i].ID
	}

	var insert []model.Transaction
	for i := range incoming {
		k := KeyOf(&incoming[i])
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = 0
		insert = append(insert, incoming[i])
	}
	return insert, nil
}

// Accounts lists the distinct accounts of rows in first-seen order. The key
// includes the account, so only existing rows of these accounts can match.
func Accounts(rows []model.Transaction) []string {
	var (
		out  []string
		seen = make(map[string]struct{})
	)
	for i := range rows {
		a := rows[i].Account
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
