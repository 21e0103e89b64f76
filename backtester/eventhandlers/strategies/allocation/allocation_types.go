package allocation

import (
	"errors"
)

const (
	// Name is the strategy name
	Name          = "allocation"
	lookbackKey   = "lookback"
	iterationsKey = "iterations"
	description   = `Once per calendar day, finds the long only weights that maximise expected return over volatility of the trailing daily returns and rebalances every symbol to its target, selling before buying`
)

var (
	// ErrInvalidAllocation is returned when optimised weights do not form a
	// valid long only allocation. The strategy falls back to equal weights
	ErrInvalidAllocation = errors.New("invalid allocation")

	errNoReturns           = errors.New("no returns to optimise")
	errMismatchedHistories = errors.New("return histories must be the same length")
)

// Strategy is an implementation of the Handler interface
type Strategy struct {
	lookback   int
	iterations int
	lastYear   int
	lastDay    int
}
