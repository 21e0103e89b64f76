package slippage

import (
	"errors"
	"math/rand"

	"github.com/shopspring/decimal"
)

var errInvalidRange = errors.New("slippage percentages must be within 0 and 100 with minimum not above maximum")

// Estimator produces slippage rates from a seeded source so that runs
// with the same seed fill at the same prices
type Estimator struct {
	rng     *rand.Rand
	minimum decimal.Decimal
	maximum decimal.Decimal
}
