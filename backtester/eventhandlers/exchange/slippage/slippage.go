package slippage

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// NewEstimator returns an estimator whose slippage is drawn uniformly from
// the minimum and maximum percentages, eg 0 and 0.5 worsen prices by up to
// half a percent. Zero for both means no slippage
func NewEstimator(minimumPercent, maximumPercent decimal.Decimal, seed int64) (*Estimator, error) {
	if minimumPercent.IsNegative() ||
		maximumPercent.GreaterThan(hundred) ||
		minimumPercent.GreaterThan(maximumPercent) {
		return nil, errInvalidRange
	}
	return &Estimator{
		rng:     rand.New(rand.NewSource(seed)), //nolint:gosec // simulated slippage does not need a secure source
		minimum: minimumPercent,
		maximum: maximumPercent,
	}, nil
}

// Estimate returns the next price rate, 1 - percent/100
func (e *Estimator) Estimate() decimal.Decimal {
	spread := e.maximum.Sub(e.minimum)
	pct := e.minimum.Add(spread.Mul(decimal.NewFromFloat(e.rng.Float64())))
	return toRate(pct)
}

// WorstRate returns the rate at the maximum slippage percentage
func (e *Estimator) WorstRate() decimal.Decimal {
	return toRate(e.maximum)
}

func toRate(pct decimal.Decimal) decimal.Decimal {
	return one.Sub(pct.Div(hundred))
}

// ApplyToPrice worsens a price by a slippage rate. Buys pay more and sells
// receive less
func ApplyToPrice(buying bool, price, rate decimal.Decimal) decimal.Decimal {
	if buying {
		return price.Add(price.Mul(one.Sub(rate)))
	}
	return price.Mul(rate)
}
