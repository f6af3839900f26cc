// Package report builds read-time views over stored transactions.
package report

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/Veraticus/financelama/internal/model"
	"github.com/shopspring/decimal"
)

// Aggregate collapses every report into one synthetic row dated on the
// report's earliest day, with the report name as reason and the summed value.
// Rows without a report pass through in their original order; synthetic rows
// follow in order of each report's first appearance. rows is not modified.
func Aggregate(rows []model.Transaction) []model.Transaction {
	var (
		out     []model.Transaction
		order   []string
		reports = make(map[string]*model.Transaction)
	)

	for _, row := range rows {
		if !row.IsReported() {
			out = append(out, row)
			continue
		}

		agg, ok := reports[row.Report]
		if !ok {
			agg = &model.Transaction{
				Day:    row.Day,
				Reason: row.Report,
				Info:   model.InfoReported,
				Report: row.Report,
				Value:  decimal.Zero,
			}
			reports[row.Report] = agg
			order = append(order, row.Report)
		}
		agg.Value = agg.Value.Add(row.Value)
		if row.Day.Before(agg.Day) {
			agg.Day = row.Day
		}
	}

	for _, name := range order {
		out = append(out, *reports[name])
	}
	return out
}

// Month is the cash flow of one calendar month.
type Month struct {
	Month   civil.Date // first day of the month
	Income  decimal.Decimal
	Expense decimal.Decimal // negative or zero
	Net     decimal.Decimal
	Count   int
}

// Monthly totals income and expenses per month, oldest month first.
func Monthly(rows []model.Transaction) []Month {
	byMonth := make(map[civil.Date]*Month)
	for _, row := range rows {
		key := model.MonthOf(row.Day)
		m, ok := byMonth[key]
		if !ok {
			m = &Month{Month: key}
			byMonth[key] = m
		}
		if row.IsExpense() {
			m.Expense = m.Expense.Add(row.Value)
		} else {
			m.Income = m.Income.Add(row.Value)
		}
		m.Net = m.Net.Add(row.Value)
		m.Count++
	}

	months := make([]Month, 0, len(byMonth))
	for _, m := range byMonth {
		months = append(months, *m)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.Before(months[j].Month)
	})
	return months
}

// CategoryTotal is the summed value of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// ByCategory sums values per category, largest outflow first. Rows without a
// category are grouped under uncategorized.
func ByCategory(rows []model.Transaction, uncategorized string) []CategoryTotal {
	byName := make(map[string]*CategoryTotal)
	for _, row := range rows {
		name := row.Category
		if name == "" {
			name = uncategorized
		}
		ct, ok := byName[name]
		if !ok {
			ct = &CategoryTotal{Category: name}
			byName[name] = ct
		}
		ct.Total = ct.Total.Add(row.Value)
		ct.Count++
	}

	totals := make([]CategoryTotal, 0, len(byName))
	for _, ct := range byName {
		totals = append(totals, *ct)
	}
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].Total.Cmp(totals[j].Total); c != 0 {
			return c < 0
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// Sum adds up the values of rows.
func Sum(rows []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Value)
	}
	return total
}
