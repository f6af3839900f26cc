package normalize

import (
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/Veraticus/financelama/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		want         string
		decimalComma bool
	}{
		{name: "thousands and comma decimal", raw: "1.234,56", decimalComma: true, want: "1234.56"},
		{name: "negative comma decimal", raw: "-50,00", decimalComma: true, want: "-50"},
		{name: "zero", raw: "0,00", decimalComma: true, want: "0"},
		{name: "surrounding whitespace", raw: "  12,30 ", decimalComma: true, want: "12.3"},
		{name: "millions", raw: "1.000.000,01", decimalComma: true, want: "1000000.01"},
		{name: "point decimal", raw: "1,234.56", decimalComma: false, want: "1234.56"},
		{name: "plain point decimal", raw: "-9.99", decimalComma: false, want: "-9.99"},
		{name: "non breaking space grouping", raw: "1\u00a0234,50", decimalComma: true, want: "1234.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Amount(tt.raw, tt.decimalComma)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestAmount_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc", "12,50 EUR", "1e5", "--3"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Amount(raw, true)
			require.Error(t, err)

			var pe *common.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "amount", pe.Field)
			assert.Equal(t, raw, pe.Value)
		})
	}
}

func TestDate(t *testing.T) {
	got, err := Date("03.05.2023", "02.01.2006")
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2023, Month: 5, Day: 3}, got)

	got, err = Date(" 2023-05-03 ", "2006-01-02")
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2023, Month: 5, Day: 3}, got)
}

func TestDate_Invalid(t *testing.T) {
	for _, raw := range []string{"", "31.02.2023", "2023-05-03", "3.5.23x"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Date(raw, "02.01.2006")
			var pe *common.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "date", pe.Field)
		})
	}
}

func TestFillMissing(t *testing.T) {
	assert.Equal(t, Absent, FillMissing(""))
	assert.Equal(t, Absent, FillMissing("  \t"))
	assert.Equal(t, "REWE", FillMissing("REWE"))
	assert.NotEqual(t, FillMissing(""), FillMissing("None"))
}
