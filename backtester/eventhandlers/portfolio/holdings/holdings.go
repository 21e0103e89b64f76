package holdings

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NewSeries returns an empty holding series for a symbol
func NewSeries(symbol string) *Series {
	return &Series{symbol: strings.ToUpper(symbol)}
}

// Create returns a holding marked at close with value position * close
func Create(offset int64, t time.Time, symbol string, position, closePrice decimal.Decimal) Holding {
	return Holding{
		Offset:   offset,
		Time:     t.UTC(),
		Symbol:   strings.ToUpper(symbol),
		Close:    closePrice,
		Position: position,
		Value:    position.Mul(closePrice),
	}
}

// Symbol returns the series symbol
func (s *Series) Symbol() string {
	return s.symbol
}

// Set stores h at its offset. The latest offset may be updated in place,
// offsets beyond it are appended with any gap padded from the previous
// entry, and earlier offsets cannot be changed
func (s *Series) Set(h Holding) error {
	if h.Offset < 1 {
		return fmt.Errorf("%w: %d", errInvalidOffset, h.Offset)
	}
	if !strings.EqualFold(h.Symbol, s.symbol) {
		return fmt.Errorf("%w: %s %s", errSymbolMismatch, h.Symbol, s.symbol)
	}
	h.Symbol = s.symbol
	idx := int(h.Offset - 1)
	switch {
	case idx < len(s.entries)-1:
		return fmt.Errorf("%w: %s offset %d latest %d", errHistoricalRewrite, s.symbol, h.Offset, len(s.entries))
	case idx == len(s.entries)-1:
		s.entries[idx] = h
		return nil
	}
	for len(s.entries) < idx {
		pad := Holding{Symbol: s.symbol}
		if len(s.entries) > 0 {
			pad = s.entries[len(s.entries)-1]
		}
		pad.Offset = int64(len(s.entries)) + 1
		s.entries = append(s.entries, pad)
	}
	s.entries = append(s.entries, h)
	return nil
}

// At returns the holding at an offset
func (s *Series) At(offset int64) (Holding, error) {
	if offset < 1 || offset > int64(len(s.entries)) {
		return Holding{}, fmt.Errorf("%w %d for %s", errNoHolding, offset, s.symbol)
	}
	return s.entries[offset-1], nil
}

// Latest returns the most recent holding, if any
func (s *Series) Latest() (Holding, bool) {
	if len(s.entries) == 0 {
		return Holding{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Position returns the latest position, zero when nothing has been recorded
func (s *Series) Position() decimal.Decimal {
	h, ok := s.Latest()
	if !ok {
		return decimal.Zero
	}
	return h.Position
}

// Len returns the number of recorded offsets
func (s *Series) Len() int {
	return len(s.entries)
}

// All returns a copy of every holding in offset order
func (s *Series) All() []Holding {
	resp := make([]Holding, len(s.entries))
	copy(resp, s.entries)
	return resp
}
