package exchange

import (
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/bar"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/event"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/order"
	gctcommon "github.com/jp-quant/AlgorithmicTrading-Academic-Project/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tt = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// testSource has one AAPL bar: open 10, high 12, low 8, close 11, volume 50
func testSource(t *testing.T) *data.Source {
	t.Helper()
	src, err := data.NewSource(map[string][]bar.Bar{
		"AAPL": {{
			Symbol:    "AAPL",
			Timestamp: tt,
			Open:      decimal.NewFromInt(10),
			High:      decimal.NewFromInt(12),
			Low:       decimal.NewFromInt(8),
			Close:     decimal.NewFromInt(11),
			Volume:    decimal.NewFromInt(50),
		}},
	})
	require.NoError(t, err, "NewSource must not error")
	_, err = src.Next()
	require.NoError(t, err, "Next must not error")
	return src
}

func newOrder(action common.Action, ot common.OrderType, qty int64) *order.Order {
	return &order.Order{
		Base:      event.Base{Offset: 1, Time: tt, Symbol: "AAPL"},
		ID:        uuid.Must(uuid.NewV4()),
		Action:    action,
		OrderType: ot,
		Quantity:  decimal.NewFromInt(qty),
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New(nil)
	assert.ErrorIs(t, err, gctcommon.ErrNilPointer)
	_, err = New(&Settings{Commission: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, errNegativeCommission)
	_, err = New(&Settings{Broker: "dark-pool"})
	assert.ErrorIs(t, err, errUnknownBroker)
	_, err = New(&Settings{
		Broker:                 SlippageBroker,
		MinimumSlippagePercent: decimal.Zero,
		MaximumSlippagePercent: decimal.NewFromInt(10),
		MaximumVolumePercent:   decimal.NewFromInt(101),
	})
	assert.ErrorIs(t, err, errInvalidVolumePercent)

	e, err := New(&Settings{Commission: InteractiveBrokersCommission})
	require.NoError(t, err, "New must not error")
	assert.Equal(t, "simulated", e.GetName())
	assert.True(t, e.EstimateCommission(decimal.NewFromInt(10), decimal.NewFromInt(10)).Equal(decimal.NewFromFloat(1.3)))
}

func TestExecuteMarketOrder(t *testing.T) {
	t.Parallel()
	e, err := New(&Settings{Name: "basic", Commission: InteractiveBrokersCommission})
	require.NoError(t, err, "New must not error")
	src := testSource(t)

	_, err = e.ExecuteOrder(nil, src)
	assert.ErrorIs(t, err, common.ErrNilEvent)
	_, err = e.ExecuteOrder(newOrder(common.Buy, common.Market, 1), nil)
	assert.ErrorIs(t, err, gctcommon.ErrNilPointer)

	o := newOrder(common.Buy, common.Market, 100)
	o.AppendReason("because")
	f, err := e.ExecuteOrder(o, src)
	require.NoError(t, err, "ExecuteOrder must not error")
	assert.NotEqual(t, uuid.Nil, f.GetID())
	assert.Equal(t, o.GetID(), f.GetOrderID())
	assert.Equal(t, o.GetTime(), f.GetTime())
	assert.Equal(t, o.GetOffset(), f.GetOffset())
	assert.Equal(t, "basic", f.Exchange)
	assert.True(t, f.GetPrice().Equal(decimal.NewFromInt(11)))
	assert.True(t, f.GetQuantity().Equal(decimal.NewFromInt(100)), "basic broker never partially fills")
	assert.True(t, f.GetCommission().Equal(decimal.NewFromFloat(1.3)))
	assert.False(t, f.IsPartial())
	assert.Equal(t, "because", f.GetReason())

	unknown := newOrder(common.Sell, common.Market, 1)
	unknown.Symbol = "MSFT"
	_, err = e.ExecuteOrder(unknown, src)
	assert.ErrorIs(t, err, ErrOrderRejected)
	assert.ErrorIs(t, err, data.ErrSymbolNotFound)
}

func TestTriggerPrice(t *testing.T) {
	t.Parallel()
	e, err := New(&Settings{})
	require.NoError(t, err, "New must not error")
	src := testSource(t)

	for _, tc := range []struct {
		name     string
		action   common.Action
		ot       common.OrderType
		limit    int64
		stop     int64
		price    int64
		rejected bool
	}{
		{name: "limit buy reached", action: common.Buy, ot: common.Limit, limit: 9, price: 9},
		{name: "limit buy not reached", action: common.Buy, ot: common.Limit, limit: 7, rejected: true},
		{name: "limit sell reached", action: common.Sell, ot: common.Limit, limit: 12, price: 12},
		{name: "limit sell not reached", action: common.Sell, ot: common.Limit, limit: 13, rejected: true},
		{name: "limit missing price", action: common.Buy, ot: common.Limit, rejected: true},
		{name: "stop buy triggered", action: common.Buy, ot: common.Stop, stop: 12, price: 12},
		{name: "stop buy not triggered", action: common.Buy, ot: common.Stop, stop: 13, rejected: true},
		{name: "stop sell triggered", action: common.Sell, ot: common.Stop, stop: 9, price: 9},
		{name: "stop sell not triggered", action: common.Sell, ot: common.Stop, stop: 7, rejected: true},
		{name: "stop limit buy", action: common.Buy, ot: common.StopLimit, stop: 11, limit: 10, price: 10},
		{name: "stop limit buy limit missed", action: common.Buy, ot: common.StopLimit, stop: 11, limit: 7, rejected: true},
		{name: "stop limit sell", action: common.Sell, ot: common.StopLimit, stop: 9, limit: 10, price: 10},
		{name: "stop limit sell stop missed", action: common.Sell, ot: common.StopLimit, stop: 7, limit: 10, rejected: true},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			o := newOrder(tc.action, tc.ot, 1)
			o.LimitPrice = decimal.NewFromInt(tc.limit)
			o.StopPrice = decimal.NewFromInt(tc.stop)
			f, err := e.ExecuteOrder(o, src)
			if tc.rejected {
				assert.ErrorIs(t, err, ErrOrderRejected)
				assert.Nil(t, f)
				return
			}
			require.NoError(t, err, "ExecuteOrder must not error")
			assert.True(t, f.GetPrice().Equal(decimal.NewFromInt(tc.price)), "expected %v received %v", tc.price, f.GetPrice())
		})
	}
}

func TestSlippageBroker(t *testing.T) {
	t.Parallel()
	s := &Settings{
		Broker:                 SlippageBroker,
		MinimumSlippagePercent: decimal.Zero,
		MaximumSlippagePercent: decimal.NewFromInt(10),
		MaximumVolumePercent:   decimal.NewFromInt(10),
		RandomSeed:             7,
	}
	e, err := New(s)
	require.NoError(t, err, "New must not error")
	src := testSource(t)

	f, err := e.ExecuteOrder(newOrder(common.Buy, common.Market, 3), src)
	require.NoError(t, err, "ExecuteOrder must not error")
	assert.True(t, f.GetPrice().GreaterThanOrEqual(decimal.NewFromInt(11)), "buys should not fill below close")
	assert.True(t, f.GetPrice().LessThanOrEqual(decimal.NewFromFloat(12.1)))
	assert.True(t, f.Slippage.LessThanOrEqual(decimal.Zero))
	assert.True(t, f.Slippage.GreaterThanOrEqual(decimal.NewFromInt(-10)))
	assert.False(t, f.IsPartial())

	f, err = e.ExecuteOrder(newOrder(common.Sell, common.Market, 20), src)
	require.NoError(t, err, "ExecuteOrder must not error")
	assert.True(t, f.GetPrice().LessThanOrEqual(decimal.NewFromInt(11)), "sells should not fill above close")
	assert.True(t, f.GetPrice().GreaterThanOrEqual(decimal.NewFromFloat(9.9)))
	assert.True(t, f.IsPartial())
	assert.True(t, f.GetQuantity().Equal(decimal.NewFromInt(5)), "fill should be capped at 10% of volume 50")
	assert.True(t, f.RequestedQuantity.Equal(decimal.NewFromInt(20)))

	// same seed, same prices
	a, err := New(s)
	require.NoError(t, err, "New must not error")
	b, err := New(s)
	require.NoError(t, err, "New must not error")
	fa, err := a.ExecuteOrder(newOrder(common.Buy, common.Market, 1), src)
	require.NoError(t, err, "ExecuteOrder must not error")
	fb, err := b.ExecuteOrder(newOrder(common.Buy, common.Market, 1), src)
	require.NoError(t, err, "ExecuteOrder must not error")
	assert.True(t, fa.GetPrice().Equal(fb.GetPrice()))

	s.MaximumVolumePercent = decimal.NewFromFloat(1)
	tiny, err := New(s)
	require.NoError(t, err, "New must not error")
	_, err = tiny.ExecuteOrder(newOrder(common.Buy, common.Market, 1), src)
	assert.ErrorIs(t, err, ErrOrderRejected)
	assert.ErrorIs(t, err, errVolumeCapExceedsOrder)
}

func TestSlippageWithinConfiguredPercent(t *testing.T) {
	t.Parallel()
	e, err := New(&Settings{
		Broker:                 SlippageBroker,
		MinimumSlippagePercent: decimal.Zero,
		MaximumSlippagePercent: decimal.NewFromFloat(0.5),
		MaximumVolumePercent:   decimal.NewFromInt(100),
		RandomSeed:             1337,
	})
	require.NoError(t, err, "New must not error")
	src := testSource(t)
	closePrice := decimal.NewFromInt(11)
	bound := decimal.NewFromFloat(0.005)
	for i := 0; i < 50; i++ {
		for _, action := range []common.Action{common.Buy, common.Sell} {
			f, err := e.ExecuteOrder(newOrder(action, common.Market, 1), src)
			require.NoError(t, err, "ExecuteOrder must not error")
			deviation := f.GetPrice().Sub(closePrice).Abs().Div(closePrice)
			assert.True(t, deviation.LessThanOrEqual(bound), "%s filled @ %v, more than 0.5%% from close", action, f.GetPrice())
		}
	}
}

func TestWorstCasePrice(t *testing.T) {
	t.Parallel()
	basic, err := New(&Settings{})
	require.NoError(t, err, "New must not error")
	price := decimal.NewFromInt(20)
	assert.True(t, basic.WorstCasePrice(true, price).Equal(price))
	assert.True(t, basic.WorstCasePrice(false, price).Equal(price))

	e, err := New(&Settings{
		Broker:                 SlippageBroker,
		MaximumSlippagePercent: decimal.NewFromInt(5),
	})
	require.NoError(t, err, "New must not error")
	assert.True(t, e.WorstCasePrice(true, price).Equal(decimal.NewFromInt(21)))
	assert.True(t, e.WorstCasePrice(false, price).Equal(decimal.NewFromInt(19)))

	src := testSource(t)
	for i := 0; i < 20; i++ {
		f, err := e.ExecuteOrder(newOrder(common.Buy, common.Market, 1), src)
		require.NoError(t, err, "ExecuteOrder must not error")
		assert.True(t, f.GetPrice().LessThanOrEqual(e.WorstCasePrice(true, decimal.NewFromInt(11))))
	}
}
