package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FullTable(t *testing.T) {
	text := "symbol,open_interest,oi_min_3d,price,circ_supply,increase_ratio,increase_amount_usdt\n" +
		"BTCUSDT,1000,900,2,19000000,0.05,150\n" +
		"ETHUSDT,500,600,1,,0.01,\n"

	records, report, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, records, 2)

	btc := records[0]
	assert.Equal(t, "BTCUSDT", btc.Symbol)
	assert.Equal(t, 2.0, btc.Price)
	require.NotNil(t, btc.OpenInterest)
	assert.Equal(t, 1000.0, *btc.OpenInterest)
	require.NotNil(t, btc.IncreaseRatio)
	assert.Equal(t, 0.05, *btc.IncreaseRatio)

	eth := records[1]
	assert.Nil(t, eth.CircSupply)
	assert.Nil(t, eth.IncreaseAmountUSDT)

	assert.Equal(t, 2, report.Rows)
	assert.Empty(t, report.MissingColumns)
	assert.Zero(t, report.Dropped)
}

func TestParse_MinimalColumns(t *testing.T) {
	records, report, err := Parse("Symbol , Price\nSOLUSDT,150\n")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SOLUSDT", records[0].Symbol)
	assert.Nil(t, records[0].IncreaseRatio)
	assert.ElementsMatch(t, optionalColumns, report.MissingColumns)
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	for _, text := range []string{
		"symbol,increase_ratio\nBTC,0.1\n",
		"price,increase_ratio\n2,0.1\n",
		"",
	} {
		_, _, err := Parse(text)
		assert.ErrorIs(t, err, ErrSchemaMismatch, "text %q", text)
	}
}

func TestParse_DegradedRows(t *testing.T) {
	text := "symbol,price,increase_ratio,circ_supply\n" +
		",3,0.1,\n" + // no symbol
		"BAD,abc,0.1,\n" + // price not numeric
		"NEG,-1,0.1,\n" + // negative price
		"OK,1,oops,NaN\n" + // bad optional degrades
		"OK,2,0.2,\n" + // duplicate
		"SHORT,4\n" // short row: optional fields absent

	records, report, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "OK", records[0].Symbol)
	assert.Equal(t, 1.0, records[0].Price)
	assert.Nil(t, records[0].IncreaseRatio)
	assert.Nil(t, records[0].CircSupply)
	assert.Equal(t, "SHORT", records[1].Symbol)

	assert.Equal(t, 6, report.Rows)
	assert.Equal(t, 3, report.Dropped)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 2, report.InvalidFields)
}

func TestParse_MalformedTable(t *testing.T) {
	_, _, err := Parse("symbol,price\n\"BTC,2\n")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   *float64
		wantOK bool
	}{
		{"1.5", ptr(1.5), true},
		{" 2 ", ptr(2), true},
		{"1,000", ptr(1000), true},
		{"", nil, true},
		{"NaN", nil, true},
		{"abc", nil, false},
		{"Inf", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func ptr(v float64) *float64 { return &v }
