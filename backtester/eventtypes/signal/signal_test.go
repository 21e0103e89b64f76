package signal

import (
	"testing"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	t.Parallel()
	s := &Signal{}
	assert.Equal(t, common.SignalEvent, s.Kind())
}

func TestSetAction(t *testing.T) {
	t.Parallel()
	s := &Signal{Action: common.Sell}
	s.SetAction(common.Long)
	assert.Equal(t, common.Long, s.GetAction())
}

func TestSetQuantity(t *testing.T) {
	t.Parallel()
	s := &Signal{}
	s.SetQuantity(decimal.NewFromInt(1337))
	assert.True(t, s.GetQuantity().Equal(decimal.NewFromInt(1337)), "quantity should be 1337")
}

func TestGetOrderType(t *testing.T) {
	t.Parallel()
	s := &Signal{}
	assert.Equal(t, common.Market, s.GetOrderType())
	s.OrderType = common.Limit
	assert.Equal(t, common.Limit, s.GetOrderType())
}

func TestIsActionable(t *testing.T) {
	t.Parallel()
	s := &Signal{Action: common.Exit}
	assert.True(t, s.IsActionable())
	s.Action = common.DoNothing
	assert.False(t, s.IsActionable())
	s.Action = common.CouldNotBuy
	assert.False(t, s.IsActionable())
}
