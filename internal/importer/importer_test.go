package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/Veraticus/financelama/internal/common"
	"github.com/Veraticus/financelama/internal/format"
	"github.com/Veraticus/financelama/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImporter(t *testing.T, opts ...Option) *Importer {
	t.Helper()
	registry, err := format.NewRegistry(format.Builtin()...)
	require.NoError(t, err)
	return New(registry, opts...)
}

func giroFixture() string {
	return testutil.GiroCSV(
		testutil.GiroRow{Day: "01.05.2023", Info: "Gutschrift", Orderer: "Arbeitgeber AG", Reason: "Gehalt Mai", Value: "1.234,56"},
		testutil.GiroRow{Day: "03.05.2023", Info: "Lastschrift", Orderer: "REWE SAGT DANKE", Reason: "Einkauf", OrdererAccount: "DE02120300000000202051", OrdererBank: "BYLADEM1001", Value: "-50,00"},
		testutil.GiroRow{Day: "04.05.2023", Info: "Abschluss", Orderer: "", Reason: "", Value: "0,00"},
	)
}

func TestImportFile_Giro(t *testing.T) {
	path := testutil.WriteWindows1252(t, t.TempDir(), "giro.csv", giroFixture())

	result, err := newImporter(t).ImportFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, format.DKBGiro, result.Format)
	assert.Equal(t, path, result.Path)
	assert.Equal(t, 3, result.Read)
	assert.Zero(t, result.Dropped)
	require.Len(t, result.Transactions, 3)

	wantValues := []string{"1234.56", "-50.00", "0.00"}
	for i, want := range wantValues {
		got := result.Transactions[i].Value
		assert.True(t, decimal.RequireFromString(want).Equal(got), "row %d: got %s want %s", i, got, want)
		assert.Equal(t, testutil.GiroAccount, result.Transactions[i].Account)
	}

	rewe := result.Transactions[1]
	assert.Equal(t, civil.Date{Year: 2023, Month: 5, Day: 3}, rewe.Day)
	assert.Equal(t, "Lastschrift", rewe.Info)
	assert.Equal(t, "REWE SAGT DANKE", rewe.Orderer)
	assert.Equal(t, "Einkauf", rewe.Reason)
	assert.Equal(t, "DE02120300000000202051", rewe.OrdererAccount)
	assert.Equal(t, "BYLADEM1001", rewe.OrdererBank)
	assert.Empty(t, rewe.Category)
	assert.Empty(t, rewe.Report)

	assert.Empty(t, result.Transactions[2].Orderer)
}

func TestImportFile_Debit(t *testing.T) {
	content := testutil.DebitCSV("4748********1234 Kreditkarte",
		testutil.DebitRow{Day: "12.05.2023", Description: "NETFLIX.COM", Value: "-12,99"},
		testutil.DebitRow{Day: "20.05.2023", Description: "Café Müller", Value: "-4,50"},
	)
	path := testutil.WriteWindows1252(t, t.TempDir(), "card.csv", content)

	result, err := newImporter(t).ImportFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, format.DKBDebit, result.Format)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "4748********1234 Kreditkarte", result.Transactions[0].Account)
	assert.Equal(t, "NETFLIX.COM", result.Transactions[0].Orderer)
	assert.Equal(t, "Café Müller", result.Transactions[1].Orderer)
	assert.Empty(t, result.Transactions[0].Info)
	assert.Empty(t, result.Transactions[0].OrdererBank)
}

func TestImportFile_PayPal(t *testing.T) {
	content := testutil.PayPalCSV(
		testutil.PayPalRow{Day: "02.05.2023", Name: "Spotify AB", Type: "Zahlung", Subject: "Premium", Note: "Abo", Net: "-9,99"},
		testutil.PayPalRow{Day: "05.05.2023", Name: "Jörg", Type: "Rückzahlung", Net: "1.000,00"},
	)
	path := testutil.WriteWindows1252(t, t.TempDir(), "paypal.csv", content)

	result, err := newImporter(t).ImportFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, format.PayPal, result.Format)
	require.Len(t, result.Transactions, 2)

	spotify := result.Transactions[0]
	assert.Equal(t, "PayPal", spotify.Account)
	assert.Equal(t, "Abo", spotify.Info)
	assert.Equal(t, "Spotify AB", spotify.Orderer)
	assert.Equal(t, "Zahlung Premium", spotify.Reason)
	assert.True(t, decimal.RequireFromString("-9.99").Equal(spotify.Value))

	refund := result.Transactions[1]
	assert.Equal(t, "Rückzahlung ", refund.Reason, "empty column keeps the separator")
	assert.True(t, decimal.NewFromInt(1000).Equal(refund.Value))
}

func TestImportFile_OFX(t *testing.T) {
	content := `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20230601120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>EUR
<BANKACCTFROM>
<BANKID>12030000
<ACCTID>DE02120300000000202051
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20230501120000[0:GMT]
<DTEND>20230531120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20230503120000[0:GMT]
<TRNAMT>-23.45
<FITID>1
<NAME>REWE Markt GmbH
</STMTTRN>
<STMTTRN>
<TRNTYPE>XFER
<DTPOSTED>20230504120000[0:GMT]
<TRNAMT>-500.00
<FITID>2
<NAME>Eigenes Konto
<MEMO>Umbuchung Sparen
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>100.00
<DTASOF>20230531120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`
	path := testutil.WriteFile(t, t.TempDir(), "statement.qfx", content)

	result, err := newImporter(t).ImportFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, format.OFX, result.Format)
	assert.Equal(t, 2, result.Read)
	assert.Equal(t, 1, result.Dropped, "transfer dropped by reason rule")
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "DE02120300000000202051", result.Transactions[0].Account)
	assert.Equal(t, "REWE Markt GmbH", result.Transactions[0].Orderer)
}

func TestImportFile_DropRules(t *testing.T) {
	content := testutil.GiroCSV(
		testutil.GiroRow{Day: "01.05.2023", Orderer: "KREDITKARTENABRECHNUNG", Value: "-100,00"},
		testutil.GiroRow{Day: "02.05.2023", Orderer: "DKB Ausgleich Kreditkarte", Value: "-20,00"},
		testutil.GiroRow{Day: "03.05.2023", Orderer: "Ich", Reason: "UMBUCHUNG auf Tagesgeld", Value: "-300,00"},
		testutil.GiroRow{Day: "04.05.2023", Orderer: "REWE", Value: "-5,00"},
	)
	path := testutil.WriteWindows1252(t, t.TempDir(), "giro.csv", content)

	result, err := newImporter(t).ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Read)
	assert.Equal(t, 3, result.Dropped)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "REWE", result.Transactions[0].Orderer)

	// Dropping disabled.
	result, err = newImporter(t, WithDropRules(nil)).ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, result.Transactions, 4)
	assert.Zero(t, result.Dropped)
}

func TestImportFile_UnknownFormat(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "other.csv", "\"Umsatzanzeige\";\"x\";\r\nfoo;bar\r\n")

	_, err := newImporter(t).ImportFile(context.Background(), path)
	var unknown *common.UnknownFormatError
	require.True(t, errors.As(err, &unknown), "got %v", err)
	assert.Equal(t, path, unknown.Path)
	assert.Equal(t, "Umsatzanzeige", unknown.Discriminator)
}

func TestImportFile_UnknownFormatToken(t *testing.T) {
	dir := t.TempDir()
	imp := newImporter(t)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "comma delimited", content: "Date,Description,Amount\n2023-05-01,x,1\n", want: "Date"},
		{name: "utf-8 bom", content: "\ufeff\"Buchungstag\";\"Betrag\"\r\n", want: "Buchungstag"},
		{name: "single cell", content: "hello\r\n", want: "hello"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, dir, fmt.Sprintf("unknown%d.csv", i), tt.content)
			_, err := imp.ImportFile(context.Background(), path)
			var unknown *common.UnknownFormatError
			require.ErrorAs(t, err, &unknown)
			assert.Equal(t, tt.want, unknown.Discriminator)
		})
	}
}

func TestImportFile_ParseErrorAbortsFile(t *testing.T) {
	tests := []struct {
		name  string
		row   testutil.GiroRow
		field string
	}{
		{name: "bad amount", row: testutil.GiroRow{Day: "02.05.2023", Orderer: "X", Value: "12,3x"}, field: "amount"},
		{name: "bad date", row: testutil.GiroRow{Day: "2023-05-02", Orderer: "X", Value: "1,00"}, field: "date"},
		{name: "impossible date", row: testutil.GiroRow{Day: "31.02.2023", Orderer: "X", Value: "1,00"}, field: "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := testutil.GiroCSV(
				testutil.GiroRow{Day: "01.05.2023", Orderer: "OK", Value: "-1,00"},
				tt.row,
			)
			path := testutil.WriteWindows1252(t, t.TempDir(), "giro.csv", content)

			result, err := newImporter(t).ImportFile(context.Background(), path)
			assert.Nil(t, result)

			var pe *common.ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, path, pe.Path)
			assert.Equal(t, 2, pe.Row)
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestImportFile_HeaderOnly(t *testing.T) {
	path := testutil.WriteWindows1252(t, t.TempDir(), "empty.csv", testutil.GiroCSV())

	result, err := newImporter(t).ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Zero(t, result.Read)
	assert.Empty(t, result.Transactions)
}

func TestImportFile_SkipsBlankRows(t *testing.T) {
	content := testutil.GiroCSV(testutil.GiroRow{Day: "01.05.2023", Orderer: "A", Value: "1,00"}) +
		"\"\";\"\";\"\";\r\n" +
		"\r\n"
	path := testutil.WriteWindows1252(t, t.TempDir(), "giro.csv", content)

	result, err := newImporter(t).ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Read)
}

func TestImportFile_MissingFile(t *testing.T) {
	_, err := newImporter(t).ImportFile(context.Background(), "/nonexistent/file.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	imp := newImporter(t)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "giro", path: testutil.WriteWindows1252(t, dir, "g.csv", giroFixture()), want: format.DKBGiro},
		{name: "debit", path: testutil.WriteWindows1252(t, dir, "d.csv", testutil.DebitCSV("1234")), want: format.DKBDebit},
		{name: "paypal", path: testutil.WriteWindows1252(t, dir, "p.csv", testutil.PayPalCSV()), want: format.PayPal},
		{name: "empty file", path: testutil.WriteFile(t, dir, "e.csv", ""), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := imp.Detect(tt.path)
			if tt.wantErr {
				var unknown *common.UnknownFormatError
				assert.True(t, errors.As(err, &unknown), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Name)
		})
	}
}

func TestDetect_UTF8FormatFromRegistry(t *testing.T) {
	registry, err := format.NewRegistry(append(format.Builtin(), format.Format{
		Name:          "paypal-utf8",
		Discriminator: format.Discriminator{Value: "Date"},
		Delimiter:     ",",
		Encoding:      format.EncodingUTF8,
		DateLayout:    "2006-01-02",
		Account:       format.AccountSource{Literal: "PayPal"},
		Columns:       [][]string{{"Date"}, {}, {"Name"}, {}, {}, {}, {"Amount"}},
	})...)
	require.NoError(t, err)

	path := testutil.WriteFile(t, t.TempDir(), "p.csv", "\ufeffDate,Name,Amount\n2023-05-02,Spotify,-9.99\n")
	result, err := New(registry).ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "paypal-utf8", result.Format)
	require.Len(t, result.Transactions, 1)
	assert.True(t, decimal.RequireFromString("-9.99").Equal(result.Transactions[0].Value))
}

func TestDropRule_Validate(t *testing.T) {
	assert.NoError(t, DropRule{Field: DropFieldInfo, Keywords: []string{"x"}}.Validate())
	assert.True(t, errors.Is(DropRule{Field: "value"}.Validate(), common.ErrInvalidConfig))
	assert.True(t, errors.Is(DropRule{Field: DropFieldReason, Keywords: []string{""}}.Validate(), common.ErrInvalidConfig))
}
