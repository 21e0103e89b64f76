package eventholder

import (
	"testing"
	"time"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/event"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/market"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/order"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReset(t *testing.T) {
	t.Parallel()
	h := &Holder{}
	h.AppendEvent(&market.Market{})
	h.NextEvent()
	h.AppendEvent(&market.Market{})
	h.Reset()
	assert.Zero(t, h.Len())
	assert.Zero(t, h.Generation())
	assert.Nil(t, h.NextEvent())
}

func TestAppendEvent(t *testing.T) {
	t.Parallel()
	h := &Holder{}
	h.AppendEvent(nil)
	assert.Zero(t, h.Len(), "nil events should be ignored")
	h.AppendEvent(&market.Market{})
	assert.Equal(t, 1, h.Len())
}

func TestNextEventBreadthFirst(t *testing.T) {
	t.Parallel()
	h := &Holder{}
	tm := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	h.AppendEvent(&market.Market{Base: event.Base{Time: tm}})

	e := h.NextEvent()
	require.NotNil(t, e)
	assert.Equal(t, common.MarketEvent, e.Kind())
	assert.Equal(t, 1, h.Generation())

	// two signals raised by the market event
	h.AppendEvent(&signal.Signal{Base: event.Base{Time: tm, Symbol: "AAPL"}})
	h.AppendEvent(&signal.Signal{Base: event.Base{Time: tm, Symbol: "MSFT"}})

	e = h.NextEvent()
	require.NotNil(t, e)
	assert.Equal(t, common.SignalEvent, e.Kind())
	assert.Equal(t, 2, h.Generation())

	// an order raised by the first signal must wait for the second signal
	h.AppendEvent(&order.Order{Base: event.Base{Time: tm, Symbol: "AAPL"}})
	e = h.NextEvent()
	require.NotNil(t, e)
	assert.Equal(t, common.SignalEvent, e.Kind())
	assert.Equal(t, "MSFT", e.(common.SymbolEvent).GetSymbol())

	e = h.NextEvent()
	require.NotNil(t, e)
	assert.Equal(t, common.OrderEvent, e.Kind())
	assert.Equal(t, 3, h.Generation())

	assert.Nil(t, h.NextEvent())
	assert.Zero(t, h.Len())
}
