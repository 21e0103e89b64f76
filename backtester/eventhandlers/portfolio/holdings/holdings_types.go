package holdings

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	errInvalidOffset     = errors.New("holding offset must be greater than zero")
	errHistoricalRewrite = errors.New("cannot rewrite a holding before the latest offset")
	errSymbolMismatch    = errors.New("holding symbol does not match series")
	errNoHolding         = errors.New("no holding at offset")
)

// Holding is a symbol's position marked at one tick
type Holding struct {
	Offset   int64           `json:"offset"`
	Time     time.Time       `json:"time"`
	Symbol   string          `json:"symbol"`
	Close    decimal.Decimal `json:"close"`
	Position decimal.Decimal `json:"position"`
	Value    decimal.Decimal `json:"value"`
}

// Series is one symbol's holdings addressed by tick offset. entries[i]
// holds offset i+1
type Series struct {
	symbol  string
	entries []Holding
}
