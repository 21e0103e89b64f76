package exchange

import (
	"errors"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/exchange/slippage"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/fill"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/order"
	"github.com/shopspring/decimal"
)

// Broker names
const (
	BasicBroker    = "basic"
	SlippageBroker = "slippage"
)

// InteractiveBrokersCommission is a flat per order commission that can be
// configured to mimic a retail broker
var InteractiveBrokersCommission = decimal.NewFromFloat(1.3)

var (
	// ErrOrderRejected is returned when an order cannot be filled on the
	// current bar. It is not fatal to a run
	ErrOrderRejected = errors.New("order rejected")

	errUnknownBroker         = errors.New("unknown broker")
	errNegativeCommission    = errors.New("commission cannot be negative")
	errInvalidVolumePercent  = errors.New("maximum volume percent must be within 0 and 100")
	errMissingTriggerPrice   = errors.New("order is missing its limit or stop price")
	errNoBarForOrder         = errors.New("no bar available for order")
	errVolumeCapExceedsOrder = errors.New("bar volume allows no quantity")
)

// ExecutionHandler is what the dispatch loop requires of a broker. One order
// produces one fill, or no fill and an error wrapping ErrOrderRejected
type ExecutionHandler interface {
	ExecuteOrder(*order.Order, data.Reader) (*fill.Fill, error)
	EstimateCommission(price, quantity decimal.Decimal) decimal.Decimal
	GetName() string
}

// Settings configure a simulated exchange
type Settings struct {
	Name                   string
	Broker                 string
	Commission             decimal.Decimal
	MinimumSlippagePercent decimal.Decimal
	MaximumSlippagePercent decimal.Decimal
	MaximumVolumePercent   decimal.Decimal
	RandomSeed             int64
}

// Exchange simulates order execution against the current bar. Without a
// slippage estimator it is the basic broker: orders fill completely at their
// trigger price with a fixed commission
type Exchange struct {
	name                 string
	commission           decimal.Decimal
	slippage             *slippage.Estimator
	maximumVolumePercent decimal.Decimal
}
