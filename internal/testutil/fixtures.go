package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/Veraticus/financelama/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// GiroAccount is the account number used by GiroCSV.
const GiroAccount = "DE12500105170648489890"

// GiroRow is one data row of a giro account export. Amounts use the
// German notation ("-1.234,56"), dates "02.01.2006".
type GiroRow struct {
	Day            string
	Info           string
	Orderer        string
	Reason         string
	OrdererAccount string
	OrdererBank    string
	Value          string
}

// GiroCSV renders a giro account export with its six metadata lines.
func GiroCSV(rows ...GiroRow) string {
	var b strings.Builder
	b.WriteString(`"Kontonummer:";"` + GiroAccount + ` / Girokonto";` + "\r\n")
	b.WriteString(`"";` + "\r\n")
	b.WriteString(`"Von:";"01.05.2023";` + "\r\n")
	b.WriteString(`"Bis:";"31.05.2023";` + "\r\n")
	b.WriteString(`"Kontostand vom 31.05.2023:";"1.184,56 EUR";` + "\r\n")
	b.WriteString(`"";` + "\r\n")
	b.WriteString(`"Buchungstag";"Wertstellung";"Buchungstext";"Auftraggeber / Begünstigter";"Verwendungszweck";"Kontonummer";"BLZ";"Betrag (EUR)";"Gläubiger-ID";"Mandatsreferenz";"Kundenreferenz";` + "\r\n")
	for _, r := range rows {
		b.WriteString(quoteJoin(";", r.Day, r.Day, r.Info, r.Orderer, r.Reason, r.OrdererAccount, r.OrdererBank, r.Value, "", "", ""))
		b.WriteString(";\r\n")
	}
	return b.String()
}

// DebitRow is one data row of a card export.
type DebitRow struct {
	Day         string
	Description string
	Value       string
}

// DebitCSV renders a card export for the given card label.
func DebitCSV(card string, rows ...DebitRow) string {
	var b strings.Builder
	b.WriteString(`"Kreditkarte:";"` + card + `";` + "\r\n")
	b.WriteString(`"";` + "\r\n")
	b.WriteString(`"Von:";"01.05.2023";` + "\r\n")
	b.WriteString(`"Bis:";"31.05.2023";` + "\r\n")
	b.WriteString(`"Saldo:";"-42,00 EUR";` + "\r\n")
	b.WriteString(`"Datum:";"31.05.2023";` + "\r\n")
	b.WriteString(`"Umsatz abgerechnet und nicht im Saldo enthalten";"Wertstellung";"Belegdatum";"Beschreibung";"Betrag (EUR)";"Ursprünglicher Betrag";` + "\r\n")
	for _, r := range rows {
		b.WriteString(quoteJoin(";", "Ja", r.Day, r.Day, r.Description, r.Value, ""))
		b.WriteString(";\r\n")
	}
	return b.String()
}

// PayPalRow is one data row of a payment platform export.
type PayPalRow struct {
	Day     string
	Name    string
	Type    string
	Subject string
	Note    string
	Net     string
}

// PayPalCSV renders a payment platform export.
func PayPalCSV(rows ...PayPalRow) string {
	var b strings.Builder
	b.WriteString(`"Datum","Uhrzeit","Zeitzone","Name","Typ","Status","Währung","Brutto","Gebühr","Netto","Betreff","Hinweis"` + "\r\n")
	for _, r := range rows {
		b.WriteString(quoteJoin(",", r.Day, "12:00:00", "CEST", r.Name, r.Type, "Abgeschlossen", "EUR", r.Net, "0,00", r.Net, r.Subject, r.Note))
		b.WriteString("\r\n")
	}
	return b.String()
}

func quoteJoin(sep string, fields ...string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, sep)
}

// WriteWindows1252 encodes content as Windows-1252, the encoding the bank
// exports use, and writes it to name inside dir.
func WriteWindows1252(t *testing.T, dir, name, content string) string {
	t.Helper()
	encoded, err := charmap.Windows1252.NewEncoder().String(content)
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return WriteFile(t, dir, name, encoded)
}

// WriteFile writes content verbatim to name inside dir and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

// Txn builds a canonical transaction from an ISO day and a decimal value.
func Txn(account, day, orderer, value string) model.Transaction {
	d, err := civil.ParseDate(day)
	if err != nil {
		panic(err)
	}
	return model.Transaction{
		Account: account,
		Day:     d,
		Orderer: orderer,
		Value:   decimal.RequireFromString(value),
	}
}
