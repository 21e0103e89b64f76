package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvent(t *testing.T) {
	t.Parallel()
	tt := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	b := &Base{Offset: 3, Time: tt, Symbol: "AAPL"}
	assert.Equal(t, int64(3), b.GetOffset())
	b.SetOffset(4)
	assert.Equal(t, int64(4), b.GetOffset())
	assert.True(t, b.GetTime().Equal(tt))
	assert.Equal(t, "AAPL", b.GetSymbol())

	b.AppendReason("one")
	b.AppendReason("two")
	assert.Equal(t, "one. two", b.GetReason())
	assert.Len(t, b.GetReasons(), 2)

	d := b.Derive()
	assert.Equal(t, b.Offset, d.Offset)
	assert.True(t, d.Time.Equal(b.Time))
	assert.Equal(t, "AAPL", d.Symbol)
	assert.Empty(t, d.Reasons)
}
