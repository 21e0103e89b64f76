package event

import (
	"strings"
	"time"
)

// GetOffset returns the tick offset
func (b *Base) GetOffset() int64 {
	return b.Offset
}

// SetOffset sets the tick offset
func (b *Base) SetOffset(o int64) {
	b.Offset = o
}

// GetTime returns the time
func (b *Base) GetTime() time.Time {
	return b.Time.UTC()
}

// GetSymbol returns the symbol
func (b *Base) GetSymbol() string {
	return b.Symbol
}

// GetReason returns the event's reasons joined together
func (b *Base) GetReason() string {
	return strings.Join(b.Reasons, ". ")
}

// GetReasons returns each individual reason
func (b *Base) GetReasons() []string {
	return b.Reasons
}

// AppendReason adds reasoning for a decision being made
func (b *Base) AppendReason(y string) {
	b.Reasons = append(b.Reasons, y)
}

// Derive returns a copy of the base for an event caused by this one
func (b *Base) Derive() Base {
	return Base{
		Offset: b.Offset,
		Time:   b.Time,
		Symbol: b.Symbol,
	}
}
