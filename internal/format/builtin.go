package format

// Names of the builtin formats.
const (
	DKBGiro  = "dkb-giro"
	DKBDebit = "dkb-debit"
	PayPal   = "paypal"
	OFX      = "ofx"
)

// Builtin returns the layouts supported out of the box, in detection order.
func Builtin() []Format {
	return []Format{
		{
			Name:          DKBGiro,
			Kind:          KindDelimited,
			Discriminator: Discriminator{Column: 0, Value: "Kontonummer:"},
			Delimiter:     ";",
			Encoding:      EncodingWindows1252,
			HeaderRow:     6,
			DateLayout:    "02.01.2006",
			DecimalComma:  true,
			Account:       AccountSource{Column: 1, Cut: "/"},
			Columns: [][]string{
				{"Wertstellung"},
				{"Buchungstext"},
				{"Auftraggeber / Begünstigter"},
				{"Verwendungszweck"},
				{"Kontonummer"},
				{"BLZ"},
				{"Betrag (EUR)"},
			},
		},
		{
			Name:          DKBDebit,
			Kind:          KindDelimited,
			Discriminator: Discriminator{Column: 0, Value: "Kreditkarte:"},
			Delimiter:     ";",
			Encoding:      EncodingWindows1252,
			HeaderRow:     6,
			DateLayout:    "02.01.2006",
			DecimalComma:  true,
			Account:       AccountSource{Column: 1},
			Columns: [][]string{
				{"Wertstellung"},
				{},
				{"Beschreibung"},
				{},
				{},
				{},
				{"Betrag (EUR)"},
			},
		},
		{
			Name:          PayPal,
			Kind:          KindDelimited,
			Discriminator: Discriminator{Column: 0, Value: "Datum"},
			Delimiter:     ",",
			Encoding:      EncodingWindows1252,
			HeaderRow:     0,
			DateLayout:    "02.01.2006",
			DecimalComma:  true,
			Account:       AccountSource{Literal: "PayPal"},
			Columns: [][]string{
				{"Datum"},
				{"Hinweis"},
				{"Name"},
				{"Typ", "Betreff"},
				{},
				{},
				{"Netto"},
			},
		},
		{
			Name: OFX,
			Kind: KindOFX,
		},
	}
}
