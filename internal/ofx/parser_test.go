package ofx

import (
	"context"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkingOFX = `OFXHEADER:100
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
<FITID>2023050301
<NAME>REWE Markt GmbH
<MEMO>Einkauf Filiale 4711
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20230530120000[0:GMT]
<TRNAMT>2500.00
<FITID>2023053001
<NAME>Arbeitgeber AG
<MEMO>Gehalt Mai
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20230531120000[0:GMT]
<TRNAMT>-850.00
<FITID>2023053101
<PAYEE>
<NAME>Hausverwaltung Schmidt
<ADDR1>Hauptstr. 1
<CITY>Berlin
<STATE>BE
<POSTALCODE>10115
<PHONE>030123456
</PAYEE>
<MEMO>Miete Juni
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1626.55
<DTASOF>20230531120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const cardOFX = `OFXHEADER:100
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
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>EUR
<CCACCTFROM>
<ACCTID>4748000000001234
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20230501120000[0:GMT]
<DTEND>20230531120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20230512120000[0:GMT]
<TRNAMT>-12.99
<FITID>CC2023051201
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-12.99
<DTASOF>20230531120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		data          string
		expectedCount int
		expectedError bool
	}{
		{name: "bank statement", data: checkingOFX, expectedCount: 3},
		{name: "credit card statement", data: cardOFX, expectedCount: 1},
		{name: "garbage", data: "not valid OFX", expectedError: true},
		{name: "empty", data: "", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transactions, err := NewParser().ParseFile(context.Background(), strings.NewReader(tt.data))
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, transactions, tt.expectedCount)
		})
	}
}

func TestParseFile_CanonicalFields(t *testing.T) {
	transactions, err := NewParser().ParseFile(context.Background(), strings.NewReader(checkingOFX))
	require.NoError(t, err)
	require.Len(t, transactions, 3)

	rewe := transactions[0]
	assert.Equal(t, "DE02120300000000202051", rewe.Account)
	assert.Equal(t, civil.Date{Year: 2023, Month: 5, Day: 3}, rewe.Day)
	assert.Equal(t, "DEBIT", rewe.Info)
	assert.Equal(t, "REWE Markt GmbH", rewe.Orderer)
	assert.Equal(t, "Einkauf Filiale 4711", rewe.Reason)
	assert.True(t, decimal.RequireFromString("-23.45").Equal(rewe.Value), rewe.Value.String())
	assert.Empty(t, rewe.OrdererAccount)
	assert.Empty(t, rewe.OrdererBank)

	salary := transactions[1]
	assert.Equal(t, "CREDIT", salary.Info)
	assert.True(t, salary.Value.IsPositive())

	rent := transactions[2]
	assert.Equal(t, "Hausverwaltung Schmidt", rent.Orderer)
	assert.True(t, decimal.RequireFromString("-850").Equal(rent.Value))
}

func TestParseFile_CreditCardAccount(t *testing.T) {
	transactions, err := NewParser().ParseFile(context.Background(), strings.NewReader(cardOFX))
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "4748000000001234", transactions[0].Account)
	assert.Equal(t, civil.Date{Year: 2023, Month: 5, Day: 12}, transactions[0].Day)
}

func TestSniff(t *testing.T) {
	assert.True(t, Sniff([]byte(checkingOFX)))
	assert.True(t, Sniff([]byte("\ufeffOFXHEADER:100\n")))
	assert.True(t, Sniff([]byte(`<?xml version="1.0"?><?OFX OFXHEADER="200"?><OFX></OFX>`)))
	assert.False(t, Sniff([]byte("\"Kontonummer:\";\"DE1 / Girokonto\";\n")))
	assert.False(t, Sniff(nil))
}

func TestPreprocessOFX(t *testing.T) {
	p := NewParser()
	out := p.preprocessOFX("\ufeff<OFX>\n<SEVERITY>Info</SEVERITY>\n<CODE\n")
	assert.True(t, strings.HasPrefix(out, "<OFX>"))
	assert.Contains(t, out, "<SEVERITY>INFO</SEVERITY>")
	assert.Contains(t, out, "<CODE>")
}
