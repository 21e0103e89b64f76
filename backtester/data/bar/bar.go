package bar

import (
	"fmt"
	"maps"
	"math"

	"github.com/shopspring/decimal"
)

// Validate checks the bar describes a plausible observation
func (b *Bar) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil bar", ErrMalformedBar)
	}
	if b.Timestamp.IsZero() {
		return fmt.Errorf("%w: %s timestamp unset", ErrMalformedBar, b.Symbol)
	}
	if !b.Open.IsPositive() || !b.High.IsPositive() || !b.Low.IsPositive() || !b.Close.IsPositive() {
		return fmt.Errorf("%w: %s %v prices must be positive", ErrMalformedBar, b.Symbol, b.Timestamp)
	}
	if b.High.LessThan(b.Low) {
		return fmt.Errorf("%w: %s %v high %v below low %v", ErrMalformedBar, b.Symbol, b.Timestamp, b.High, b.Low)
	}
	if b.Open.LessThan(b.Low) || b.Open.GreaterThan(b.High) {
		return fmt.Errorf("%w: %s %v open %v outside low-high range", ErrMalformedBar, b.Symbol, b.Timestamp, b.Open)
	}
	if b.Close.LessThan(b.Low) || b.Close.GreaterThan(b.High) {
		return fmt.Errorf("%w: %s %v close %v outside low-high range", ErrMalformedBar, b.Symbol, b.Timestamp, b.Close)
	}
	if b.Volume.IsNegative() {
		return fmt.Errorf("%w: %s %v negative volume", ErrMalformedBar, b.Symbol, b.Timestamp)
	}
	return nil
}

// GetDerived returns a derived column's value and whether it is present
func (b *Bar) GetDerived(column string) (decimal.Decimal, bool) {
	if b == nil || b.Derived == nil {
		return decimal.Zero, false
	}
	v, ok := b.Derived[column]
	return v, ok
}

// SetDerived stores a derived column value. NaN and infinite values are
// treated as absent, which is how indicators report their warm-up period
func (b *Bar) SetDerived(column string, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return
	}
	if b.Derived == nil {
		b.Derived = make(map[string]decimal.Decimal)
	}
	b.Derived[column] = decimal.NewFromFloat(value)
}

// Clone returns a copy of the bar that shares no derived columns with it
func (b *Bar) Clone() Bar {
	resp := *b
	resp.Derived = maps.Clone(b.Derived)
	return resp
}

// Closes returns the close prices of bars as floats, oldest first
func Closes(bars []Bar) []float64 {
	resp := make([]float64, len(bars))
	for i := range bars {
		resp[i] = bars[i].Close.InexactFloat64()
	}
	return resp
}

// Series returns a named price or derived column as floats. Missing derived
// values are returned as NaN
func Series(bars []Bar, column string) []float64 {
	resp := make([]float64, len(bars))
	for i := range bars {
		switch column {
		case "open":
			resp[i] = bars[i].Open.InexactFloat64()
		case "high":
			resp[i] = bars[i].High.InexactFloat64()
		case "low":
			resp[i] = bars[i].Low.InexactFloat64()
		case "close", "":
			resp[i] = bars[i].Close.InexactFloat64()
		case "volume":
			resp[i] = bars[i].Volume.InexactFloat64()
		default:
			v, ok := bars[i].GetDerived(column)
			if !ok {
				resp[i] = math.NaN()
				continue
			}
			resp[i] = v.InexactFloat64()
		}
	}
	return resp
}
