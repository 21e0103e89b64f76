package risk

import (
	"errors"

	"github.com/shopspring/decimal"
)

// CashPolicy decides what happens when a buy would spend more cash than is
// available
type CashPolicy string

// Cash policies
const (
	Reject        CashPolicy = "reject"
	Unconstrained CashPolicy = "unconstrained"
)

var (
	// ErrInsufficientCash is returned when a buy costs more than the projected cash
	ErrInsufficientCash = errors.New("insufficient cash")
	// ErrShortSellingDisallowed is returned when a sell would leave a negative position
	ErrShortSellingDisallowed = errors.New("short selling is not allowed")

	errUnknownCashPolicy = errors.New("unknown cash policy")
)

// Risk evaluates orders against the portfolio's projected cash and positions
type Risk struct {
	CashPolicy CashPolicy
	AllowShort bool
}

// Proposal is an order as seen by risk evaluation
type Proposal struct {
	Symbol            string
	Buying            bool
	Quantity          decimal.Decimal
	EstimatedCost     decimal.Decimal
	ProjectedCash     decimal.Decimal
	ProjectedPosition decimal.Decimal
}
