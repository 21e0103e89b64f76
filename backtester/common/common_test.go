package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "MARKET", MarketEvent.String())
	assert.Equal(t, "SIGNAL", SignalEvent.String())
	assert.Equal(t, "ORDER", OrderEvent.String())
	assert.Equal(t, "FILL", FillEvent.String())
	assert.Equal(t, "UNKNOWN", EventKind(0).String())
}

func TestActionDirection(t *testing.T) {
	t.Parallel()
	assert.True(t, Buy.IsBuying())
	assert.True(t, Long.IsBuying())
	assert.False(t, Exit.IsBuying())
	assert.True(t, Sell.IsSelling())
	assert.True(t, Short.IsSelling())
	assert.False(t, Exit.IsSelling())
	assert.False(t, DoNothing.IsSelling())
}

func TestOrderTypeValid(t *testing.T) {
	t.Parallel()
	for _, o := range []OrderType{Market, Limit, Stop, StopLimit} {
		assert.Truef(t, o.Valid(), "%s should be valid", o)
	}
	assert.False(t, OrderType("ICEBERG").Valid())
}
