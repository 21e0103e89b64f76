package bar

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMalformedBar is returned when a bar's values cannot describe a real
// observation
var ErrMalformedBar = errors.New("malformed bar")

// Bar is one OHLCV observation for a symbol. Derived holds additional numeric
// columns such as moving averages, keyed by column name
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
	Derived   map[string]decimal.Decimal
}
