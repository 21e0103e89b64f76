package engine

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/config"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/bar"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/indicators"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/eventholder"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/exchange"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/portfolio"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/portfolio/risk"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/statistics"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/buyandhold"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/event"
	gctcommon "github.com/jp-quant/AlgorithmicTrading-Academic-Project/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tt = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func makeBars(symbol string, closes ...float64) []bar.Bar {
	resp := make([]bar.Bar, len(closes))
	for i := range closes {
		c := decimal.NewFromFloat(closes[i])
		resp[i] = bar.Bar{
			Symbol:    symbol,
			Timestamp: tt.AddDate(0, 0, i),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    decimal.NewFromInt(1000),
		}
	}
	return resp
}

// recorder wraps the event queue and remembers the kind of every event
// handed to the dispatch loop
type recorder struct {
	eventholder.Holder
	kinds []common.EventKind
}

func (r *recorder) NextEvent() common.Event {
	e := r.Holder.NextEvent()
	if e != nil {
		r.kinds = append(r.kinds, e.Kind())
	}
	return e
}

type unknownEvent struct {
	event.Base
}

func (u *unknownEvent) Kind() common.EventKind {
	return 0
}

func setupBackTest(t *testing.T, commission decimal.Decimal, policy risk.CashPolicy) (*BackTest, *portfolio.Portfolio, *statistics.Statistic) {
	t.Helper()
	src, err := data.NewSource(map[string][]bar.Bar{
		"AAPL": makeBars("AAPL", 10, 12, 11, 13, 15),
		"MSFT": makeBars("MSFT", 20, 19, 22, 21, 20),
	})
	require.NoError(t, err, "NewSource must not error")
	ex, err := exchange.New(&exchange.Settings{Commission: commission})
	require.NoError(t, err, "exchange.New must not error")
	p, err := portfolio.New(src.Symbols(), &portfolio.Settings{
		InitialCash: decimal.NewFromInt(1000),
		CashPolicy:  string(policy),
		Commission:  ex,
	})
	require.NoError(t, err, "portfolio.New must not error")
	st, err := statistics.New("test", "", decimal.Zero, decimal.Zero)
	require.NoError(t, err, "statistics.New must not error")
	s := &buyandhold.Strategy{}
	s.SetDefaults()
	bt, err := New(src, s, p, ex, st)
	require.NoError(t, err, "New must not error")
	return bt, p, st
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New(nil, nil, nil, nil, nil)
	assert.ErrorIs(t, err, gctcommon.ErrNilPointer)

	bt, _, _ := setupBackTest(t, decimal.Zero, risk.Reject)
	assert.NotNil(t, bt.EventQueue)
	assert.NotNil(t, bt.shutdown)
}

func TestRunBuyAndHold(t *testing.T) {
	t.Parallel()
	bt, p, st := setupBackTest(t, decimal.Zero, risk.Reject)
	require.NoError(t, bt.Run(context.Background()), "Run must not error once data is exhausted")

	assert.Equal(t, 2, p.FillCount())
	assert.Zero(t, p.RejectionCount())
	assert.Zero(t, p.PendingOrders())
	assert.True(t, p.Position("AAPL").Equal(decimal.NewFromInt(50)), "AAPL position should be 500/10")
	assert.True(t, p.Position("MSFT").Equal(decimal.NewFromInt(25)), "MSFT position should be 500/20")
	assert.True(t, p.Cash().IsZero(), "all cash should be spent")

	curve := p.EquityCurve()
	require.Len(t, curve, 5)
	assert.True(t, curve[0].Total.Equal(decimal.NewFromInt(1000)))
	assert.False(t, curve[0].Return.Valid, "the first row has no return")
	// 50*15 + 25*20
	assert.True(t, curve[4].Total.Equal(decimal.NewFromInt(1250)), "final total %v", curve[4].Total)
	assert.InDelta(t, 1.25, curve[4].Equity.InexactFloat64(), 1e-9)

	assert.Equal(t, int64(2), st.TotalFills)
	assert.Equal(t, int64(2), st.BuyFills)

	assert.ErrorIs(t, bt.Run(context.Background()), errAlreadyRan)
}

func TestRunProcessesEventsBreadthFirst(t *testing.T) {
	t.Parallel()
	bt, _, _ := setupBackTest(t, decimal.Zero, risk.Reject)
	r := &recorder{}
	bt.EventQueue = r
	require.NoError(t, bt.Run(context.Background()), "Run must not error")

	require.GreaterOrEqual(t, len(r.kinds), 7)
	assert.Equal(t, []common.EventKind{
		common.MarketEvent,
		common.SignalEvent, common.SignalEvent,
		common.OrderEvent, common.OrderEvent,
		common.FillEvent, common.FillEvent,
	}, r.kinds[:7], "each generation must drain before the next")
	for _, k := range r.kinds[7:] {
		assert.Equal(t, common.MarketEvent, k, "buy and hold should only trade on the first tick")
	}
}

func TestRunWithCommission(t *testing.T) {
	t.Parallel()
	bt, p, _ := setupBackTest(t, exchange.InteractiveBrokersCommission, risk.Reject)
	require.NoError(t, bt.Run(context.Background()), "Run must not error")
	assert.Equal(t, 1, p.FillCount(), "the second buy cannot cover its commission")

	bt, p, st := setupBackTest(t, exchange.InteractiveBrokersCommission, risk.Unconstrained)
	require.NoError(t, bt.Run(context.Background()), "Run must not error")
	assert.Equal(t, 2, p.FillCount())
	assert.True(t, p.Cash().Equal(decimal.NewFromFloat(-2.6)), "cash %v", p.Cash())
	assert.True(t, st.TotalCommission.Equal(decimal.NewFromFloat(2.6)), "commission %v", st.TotalCommission)
	curve := p.EquityCurve()
	assert.True(t, curve[len(curve)-1].Total.Equal(decimal.NewFromFloat(1247.4)))
}

func TestRunRejectPolicyWithSlippage(t *testing.T) {
	t.Parallel()
	src, err := data.NewSource(map[string][]bar.Bar{
		"AAPL": makeBars("AAPL", 10, 12, 11, 13, 15),
		"MSFT": makeBars("MSFT", 20, 19, 22, 21, 20),
	})
	require.NoError(t, err, "NewSource must not error")
	ex, err := exchange.New(&exchange.Settings{
		Broker:                 exchange.SlippageBroker,
		MinimumSlippagePercent: decimal.Zero,
		MaximumSlippagePercent: decimal.NewFromInt(5),
		RandomSeed:             1337,
	})
	require.NoError(t, err, "exchange.New must not error")
	p, err := portfolio.New(src.Symbols(), &portfolio.Settings{
		InitialCash: decimal.NewFromInt(1000),
		CashPolicy:  string(risk.Reject),
		Commission:  ex,
	})
	require.NoError(t, err, "portfolio.New must not error")
	st, err := statistics.New("test", "", decimal.Zero, decimal.Zero)
	require.NoError(t, err, "statistics.New must not error")
	s := &buyandhold.Strategy{}
	s.SetDefaults()
	bt, err := New(src, s, p, ex, st)
	require.NoError(t, err, "New must not error")
	require.NoError(t, bt.Run(context.Background()), "Run must not error")

	// 50 AAPL reserves 525 at worst, leaving too little for 25 MSFT at 21
	assert.Equal(t, 1, p.FillCount())
	assert.True(t, p.Position("AAPL").Equal(decimal.NewFromInt(50)))
	assert.True(t, p.Position("MSFT").IsZero())
	assert.Zero(t, p.PendingOrders())
	assert.False(t, p.Cash().IsNegative(), "cash %v", p.Cash())
	assert.True(t, p.Cash().GreaterThanOrEqual(decimal.NewFromInt(475)), "cash %v", p.Cash())
	for _, v := range p.Values() {
		assert.False(t, v.Cash.IsNegative(), "cash at offset %v is %v", v.Offset, v.Cash)
	}
}

func TestHandleEvent(t *testing.T) {
	t.Parallel()
	bt, _, _ := setupBackTest(t, decimal.Zero, risk.Reject)
	assert.ErrorIs(t, bt.handleEvent(nil), common.ErrNilEvent)
	assert.ErrorIs(t, bt.handleEvent(&unknownEvent{}), errUnhandledEvent)
}

func TestStop(t *testing.T) {
	t.Parallel()
	bt, p, _ := setupBackTest(t, decimal.Zero, risk.Reject)
	bt.Stop()
	bt.Stop()
	require.NoError(t, bt.Run(context.Background()), "a stopped backtest must return cleanly")
	assert.Empty(t, p.Values(), "no tick should be processed after stop")

	bt, _, _ = setupBackTest(t, decimal.Zero, risk.Reject)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, bt.Run(ctx), context.Canceled)
}

func TestStopAt(t *testing.T) {
	t.Parallel()
	bt, p, _ := setupBackTest(t, decimal.Zero, risk.Reject)
	bt.StopAt(tt.AddDate(0, 0, 2))
	require.NoError(t, bt.Run(context.Background()), "Run must not error")
	assert.Len(t, p.Values(), 3)
}

func TestExecuteStrategy(t *testing.T) {
	t.Parallel()
	bt, _, st := setupBackTest(t, decimal.Zero, risk.Reject)
	bt.reportPath = filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, bt.ExecuteStrategy(context.Background()), "ExecuteStrategy must not error")
	assert.InDelta(t, 0.25, st.TotalReturn.InexactFloat64(), 1e-9)

	b, err := os.ReadFile(bt.reportPath)
	require.NoError(t, err, "ReadFile must not error")
	var report statistics.Statistic
	require.NoError(t, json.Unmarshal(b, &report), "Unmarshal must not error")
	assert.Equal(t, int64(2), report.TotalFills)
}

func writeCSV(t *testing.T, dir, symbol string, closes ...float64) {
	t.Helper()
	contents := "Date,Open,High,Low,Close,Volume\n"
	for i, c := range closes {
		d := decimal.NewFromFloat(c).String()
		contents += tt.AddDate(0, 0, i).Format("2006-01-02") + "," + d + "," + d + "," + d + "," + d + ",1000\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, symbol+".csv"), []byte(contents), 0o600), "WriteFile must not error")
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	_, err := NewFromConfig(context.Background(), nil)
	assert.ErrorIs(t, err, gctcommon.ErrNilPointer)

	dir := t.TempDir()
	writeCSV(t, dir, "AAPL", 10, 12, 11, 13, 15)
	writeCSV(t, dir, "MSFT", 20, 19, 22, 21, 20)
	cfg := config.GenerateDefaultConfig(dir)
	cfg.PortfolioSettings.InitialCash = decimal.NewFromInt(1000)
	cfg.DataSettings.Indicators = []indicators.Spec{{Column: "sma2", Kind: indicators.SMA, Period: 2}}
	cfg.Output.ReportPath = filepath.Join(dir, "report.json")

	bt, err := NewFromConfig(context.Background(), cfg)
	require.NoError(t, err, "NewFromConfig must not error")
	b, err := bt.Data.Latest("AAPL")
	require.NoError(t, err, "Latest must not error")
	assert.Nil(t, b, "no bar should be visible before the first tick")

	require.NoError(t, bt.ExecuteStrategy(context.Background()), "ExecuteStrategy must not error")
	b, err = bt.Data.Latest("AAPL")
	require.NoError(t, err, "Latest must not error")
	require.NotNil(t, b)
	v, ok := b.GetDerived("sma2")
	require.True(t, ok, "the indicator column must be derived")
	assert.True(t, v.Equal(decimal.NewFromInt(14)), "sma2 of 13 and 15 should be 14, got %v", v)
	_, err = os.Stat(cfg.Output.ReportPath)
	assert.NoError(t, err, "the report must be written")

	cfg.StrategySettings.Name = "lol"
	_, err = NewFromConfig(context.Background(), cfg)
	assert.Error(t, err)

	cfg = config.GenerateDefaultConfig(filepath.Join(dir, "missing"))
	_, err = NewFromConfig(context.Background(), cfg)
	assert.Error(t, err, "a missing csv file must error")
	assert.False(t, errors.Is(err, gctcommon.ErrNilPointer))
}
