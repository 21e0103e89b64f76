package macrossover

import (
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/base"
	"github.com/shopspring/decimal"
)

const (
	// Name is the strategy name
	Name                = "macrossover"
	fastColumnKey       = "fast-column"
	slowColumnKey       = "slow-column"
	windowKey           = "window"
	agreementKey        = "agreement"
	quantityFractionKey = "quantity-fraction"
	allowShortKey       = "allow-short"
	description         = `Compares a fast and a slow moving average column. A crossing is confirmed when a majority of the trailing window agrees on the sign of fast minus slow and the latest point agrees with it. Upward crossings go long, downward crossings exit and optionally go short`
)

// Strategy is an implementation of the Handler interface
type Strategy struct {
	base.Strategy
	fastColumn       string
	slowColumn       string
	window           int
	agreement        int
	quantityFraction decimal.Decimal
	allowShort       bool
	// regime is the last confirmed sign of fast minus slow per symbol
	regime map[string]int
}
