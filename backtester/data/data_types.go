package data

import (
	"context"
	"errors"
	"time"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/bar"
)

var (
	// ErrSymbolNotFound is returned when bars are requested for a symbol the
	// source does not track. Callers should skip the symbol
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrDataExhausted is returned by Next once every tick has been emitted
	// or the stop time has been reached. It marks the normal end of a run
	ErrDataExhausted = errors.New("data exhausted")
	// ErrNoData is returned when a source is created without any valid bars
	ErrNoData = errors.New("no data loaded")

	errInvalidLookback  = errors.New("lookback must be greater than zero")
	errOffsetOutOfRange = errors.New("offset out of range")
	errDuplicateSymbol  = errors.New("duplicate symbol")
)

// Loader supplies raw bars keyed by symbol. Implementations may block on I/O
type Loader interface {
	Load(ctx context.Context) (map[string][]bar.Bar, error)
}

// Reader is the read-only view of the data source handed to strategies,
// the portfolio and brokers
type Reader interface {
	Symbols() []string
	Offset() int64
	Time() time.Time
	Latest(symbol string) (*bar.Bar, error)
	LatestBars(symbol string, n int) ([]bar.Bar, error)
	IsForwardFilled(symbol string) (bool, error)
}

// Source replays bars for every symbol on a shared timeline. Storage is index
// addressed: bars[s][i] is symbol s's bar at timeline[i], carried forward from
// the last valid bar when the symbol had no observation at that time
type Source struct {
	symbols     []string
	symbolIndex map[string]int
	timeline    []time.Time
	bars        [][]*bar.Bar
	filled      [][]bool
	offset      int
	stopAt      time.Time
}
