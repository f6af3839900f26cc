package cli

import (
	"strconv"
	"strings"

	"github.com/Veraticus/financelama/internal/format"
	"github.com/Veraticus/financelama/internal/model"
	"github.com/Veraticus/financelama/internal/report"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func newTable(headers []string, rightAligned map[int]bool) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case rightAligned[col]:
				return AmountCellStyle
			default:
				return TableCellStyle
			}
		})
}

// Amount renders a value with two decimals.
func Amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// RenderTransactions renders rows as returned by the report view. Collapsed
// report rows carry no id.
func RenderTransactions(rows []model.Transaction) string {
	t := newTable(
		[]string{"ID", "Day", "Account", "Orderer", "Reason", "Category", "Value"},
		map[int]bool{0: true, 6: true},
	)
	for _, r := range rows {
		id := ""
		if r.ID != 0 {
			id = strconv.FormatInt(r.ID, 10)
		}
		reason := truncate(r.Reason, 40)
		if r.Info == model.InfoReported {
			reason = ReportedCellStyle.Render("[" + reason + "]")
		}
		t.Row(id, r.Day.String(), r.Account, truncate(r.Orderer, 32), reason, r.Category, Amount(r.Value))
	}
	return t.String()
}

// RenderMonths renders the monthly cash flow.
func RenderMonths(months []report.Month) string {
	t := newTable(
		[]string{"Month", "Income", "Expense", "Net", "Rows"},
		map[int]bool{1: true, 2: true, 3: true, 4: true},
	)
	for _, m := range months {
		net := Amount(m.Net)
		if m.Net.IsNegative() {
			net = ErrorStyle.Render(net)
		}
		t.Row(m.Month.String()[:7], Amount(m.Income), Amount(m.Expense), net, strconv.Itoa(m.Count))
	}
	return t.String()
}

// RenderCategories renders per-category totals.
func RenderCategories(totals []report.CategoryTotal) string {
	t := newTable(
		[]string{"Category", "Total", "Rows"},
		map[int]bool{1: true, 2: true},
	)
	for _, c := range totals {
		t.Row(c.Category, Amount(c.Total), strconv.Itoa(c.Count))
	}
	return t.String()
}

// RenderFormats renders the registered file layouts in detection order.
func RenderFormats(formats []format.Format) string {
	t := newTable([]string{"Name", "Kind", "Encoding", "Delimiter", "Discriminator", "Account"}, nil)
	for _, f := range formats {
		discriminator, delimiter, encoding := "", "", ""
		if f.Kind == format.KindDelimited {
			discriminator = strconv.Quote(f.Discriminator.Value)
			delimiter = strconv.Quote(f.Delimiter)
			encoding = f.Encoding
		}
		t.Row(f.Name, string(f.Kind), encoding, delimiter, discriminator, describeAccount(f.Account))
	}
	return t.String()
}

func describeAccount(a format.AccountSource) string {
	switch {
	case a.Literal != "":
		return strconv.Quote(a.Literal)
	case a.Cut != "":
		return "header cell " + strconv.Itoa(a.Column) + " up to " + strconv.Quote(a.Cut)
	default:
		return "header cell " + strconv.Itoa(a.Column)
	}
}

// RenderImports renders the import log.
func RenderImports(records []model.ImportRecord) string {
	t := newTable(
		[]string{"Imported", "Format", "Read", "Inserted", "Dropped", "File"},
		map[int]bool{2: true, 3: true, 4: true},
	)
	for _, r := range records {
		t.Row(
			r.ImportedAt.Local().Format(dateLayout+" 15:04"),
			r.Format,
			strconv.Itoa(r.Read),
			strconv.Itoa(r.Inserted),
			strconv.Itoa(r.Dropped),
			r.Path,
		)
	}
	return t.String()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
