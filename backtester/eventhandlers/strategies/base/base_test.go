package base

import (
	"testing"
	"time"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/bar"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBaseData(t *testing.T) {
	t.Parallel()
	s := &Strategy{}
	_, err := s.GetBaseData(nil, nil, "AAPL")
	assert.ErrorIs(t, err, common.ErrNilEvent)
	_, err = s.GetBaseData(&market.Market{}, nil, "AAPL")
	assert.ErrorIs(t, err, common.ErrNilArguments)

	tt := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	price := decimal.NewFromInt(10)
	src, err := data.NewSource(map[string][]bar.Bar{
		"AAPL": {{Symbol: "AAPL", Timestamp: tt.AddDate(0, 0, 1), Open: price, High: price, Low: price, Close: price}},
		"MSFT": {{Symbol: "MSFT", Timestamp: tt, Open: price, High: price, Low: price, Close: price}},
	})
	require.NoError(t, err, "NewSource must not error")
	ev, err := src.Next()
	require.NoError(t, err, "Next must not error")

	_, err = s.GetBaseData(ev, src, "GOOG")
	assert.ErrorIs(t, err, data.ErrSymbolNotFound)

	sig, err := s.GetBaseData(ev, src, "AAPL")
	require.NoError(t, err, "GetBaseData must not error")
	assert.Equal(t, common.MissingData, sig.GetAction())

	sig, err = s.GetBaseData(ev, src, "MSFT")
	require.NoError(t, err, "GetBaseData must not error")
	assert.Equal(t, common.DoNothing, sig.GetAction())
	assert.Equal(t, ev.GetTime(), sig.GetTime())
	assert.Equal(t, ev.GetOffset(), sig.GetOffset())
	assert.True(t, sig.GetClosePrice().Equal(price))
}

func TestFloorQuantity(t *testing.T) {
	t.Parallel()
	assert.True(t, FloorQuantity(decimal.NewFromInt(50000), decimal.NewFromInt(12)).Equal(decimal.NewFromInt(4166)))
	assert.True(t, FloorQuantity(decimal.NewFromInt(50000), decimal.Zero).IsZero())
	assert.True(t, FloorQuantity(decimal.NewFromInt(-1), decimal.NewFromInt(1)).IsZero())
}

func TestPositiveInt(t *testing.T) {
	t.Parallel()
	i, err := PositiveInt("window", float64(5))
	require.NoError(t, err, "PositiveInt must not error")
	assert.Equal(t, 5, i)
	_, err = PositiveInt("window", float64(0))
	assert.ErrorIs(t, err, ErrInvalidCustomSettings)
	_, err = PositiveInt("window", "five")
	assert.ErrorIs(t, err, ErrInvalidCustomSettings)
}
