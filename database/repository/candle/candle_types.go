package candle

import (
	"errors"
	"time"
)

var (
	errInvalidInput = errors.New("symbol, start & end cannot be empty")
	errNoCandleData = errors.New("no candle data provided")
	errInvalidRow   = errors.New("invalid csv row")
	// ErrNoCandleDataFound returns when no candle data is found
	ErrNoCandleDataFound = errors.New("no candle data found")
)

// Item holds a symbol's candles as stored in the candle table
type Item struct {
	Symbol  string
	Candles []Candle
}

// Candle holds each interval
type Candle struct {
	ID        string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}
