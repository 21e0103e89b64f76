package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/bar"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSpecs(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateSpecs(nil))
	assert.NoError(t, ValidateSpecs([]Spec{{Column: "sma50", Kind: "SMA", Period: 50}}))

	err := ValidateSpecs([]Spec{
		{Column: "", Kind: SMA, Period: 1},
		{Column: "close", Kind: SMA, Period: 1},
		{Column: "x", Kind: "vwap", Period: 1},
		{Column: "y", Kind: EMA, Period: 0},
		{Column: "z", Kind: RSI, Period: 14},
		{Column: "z", Kind: SMA, Period: 14},
	})
	assert.ErrorIs(t, err, errEmptyColumn)
	assert.ErrorIs(t, err, errReservedColumn)
	assert.ErrorIs(t, err, errUnsupportedKind)
	assert.ErrorIs(t, err, errInvalidPeriod)
	assert.ErrorIs(t, err, errDuplicateColumn)
}

func TestCompute(t *testing.T) {
	t.Parallel()
	_, err := Compute([]float64{1}, SMA, 0)
	assert.ErrorIs(t, err, errInvalidPeriod)
	_, err = Compute([]float64{1}, "vwap", 1)
	assert.ErrorIs(t, err, errUnsupportedKind)

	values := []float64{1, 2, 3, 4, 5}
	sma, err := Compute(values, SMA, 2)
	require.NoError(t, err, "Compute must not error")
	require.Len(t, sma, 5)
	assert.True(t, math.IsNaN(sma[0]))
	assert.InDelta(t, 1.5, sma[1], 1e-9)
	assert.InDelta(t, 4.5, sma[4], 1e-9)

	ema, err := Compute(values, EMA, 3)
	require.NoError(t, err, "Compute must not error")
	require.Len(t, ema, 5)
	assert.True(t, math.IsNaN(ema[1]))
	assert.False(t, math.IsNaN(ema[2]))

	closes := []float64{10, 11, 10.5, 12, 11.5, 13, 12.5, 14}
	rsi, err := Compute(closes, RSI, 3)
	require.NoError(t, err, "Compute must not error")
	require.Len(t, rsi, len(closes))
	for i := 0; i < 3; i++ {
		assert.True(t, math.IsNaN(rsi[i]), "warm-up must be NaN")
	}
	for i := 3; i < len(rsi); i++ {
		assert.GreaterOrEqual(t, rsi[i], 0.0)
		assert.LessOrEqual(t, rsi[i], 100.0)
	}
}

func TestApply(t *testing.T) {
	t.Parallel()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	var bars []bar.Bar
	for i := 0; i < 4; i++ {
		c := decimal.NewFromInt(int64(10 + i))
		bars = append(bars, bar.Bar{Timestamp: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c})
	}
	series := map[string][]bar.Bar{"AAPL": bars, "EMPTY": nil}

	err := Apply(series, []Spec{{Column: "fast", Kind: SMA, Period: 2}, {Column: "smooth", Kind: SMA, Period: 2, Source: "fast"}})
	require.NoError(t, err, "Apply must not error")

	_, ok := series["AAPL"][0].GetDerived("fast")
	assert.False(t, ok, "warm-up values must be absent")
	v, ok := series["AAPL"][3].GetDerived("fast")
	require.True(t, ok, "fast must be present")
	assert.True(t, v.Equal(decimal.NewFromFloat(12.5)))
	v, ok = series["AAPL"][3].GetDerived("smooth")
	require.True(t, ok, "smooth must be present")
	assert.True(t, v.Equal(decimal.NewFromInt(12)))

	err = Apply(series, []Spec{{Column: "other", Kind: SMA, Period: 2, Source: "missing"}})
	assert.ErrorIs(t, err, errUnknownSourceData)
}
