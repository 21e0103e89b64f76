package portfolio

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/portfolio/holdings"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/portfolio/risk"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/fill"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/market"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/order"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/signal"
	"github.com/shopspring/decimal"
)

var (
	errFillAlreadyApplied = errors.New("fill already applied")
	errInvalidInitialCash = errors.New("initial cash must be greater than zero")
	errNoSymbols          = errors.New("portfolio requires at least one symbol")
	errStaleEvent         = errors.New("event offset is before the latest portfolio row")
	errNoClosePrice       = errors.New("no close price available")
)

// Handler is what the dispatch loop requires of a portfolio
type Handler interface {
	OnMarket(*market.Market, data.Reader) error
	OnSignal(*signal.Signal, data.Reader) (*order.Order, error)
	OnFill(*fill.Fill, data.Reader) error
	OnRejection(*order.Order, error)
	EquityCurve() []EquityPoint
	Values() []Value
}

// CommissionEstimator prices the commission of a prospective order so that
// the cash policy can account for it before the order is sent
type CommissionEstimator interface {
	EstimateCommission(price, quantity decimal.Decimal) decimal.Decimal
}

// WorstCasePricer is implemented by commission estimators that can also
// bound the price an order may execute at, such as a broker with slippage.
// Reservations use the bound so the cash policy holds after execution
type WorstCasePricer interface {
	WorstCasePrice(buying bool, price decimal.Decimal) decimal.Decimal
}

// Settings configure a portfolio
type Settings struct {
	InitialCash decimal.Decimal
	CashPolicy  string
	AllowShort  bool
	Commission  CommissionEstimator
}

// Portfolio owns every position and the cash balance. It is only mutated
// through OnMarket, OnSignal, OnFill and OnRejection
type Portfolio struct {
	initialCash decimal.Decimal
	cash        decimal.Decimal
	symbols     []string
	symbolIndex map[string]int
	holdings    []*holdings.Series
	// values[i] is the portfolio row at offset i+1
	values     []Value
	pending    map[uuid.UUID]*pendingOrder
	applied    map[uuid.UUID]struct{}
	risk       *risk.Risk
	commission CommissionEstimator
	fillCount  int
	rejections int
}

// Value is the portfolio marked at one tick. SymbolValues are aligned with
// Symbols()
type Value struct {
	Offset       int64             `json:"offset"`
	Time         time.Time         `json:"time"`
	SymbolValues []decimal.Decimal `json:"symbol-values"`
	Cash         decimal.Decimal   `json:"cash"`
	Total        decimal.Decimal   `json:"total"`
}

// EquityPoint is one row of the equity curve. The first row has no return
type EquityPoint struct {
	Offset int64               `json:"offset"`
	Time   time.Time           `json:"time"`
	Total  decimal.Decimal     `json:"total"`
	Return decimal.NullDecimal `json:"return"`
	Equity decimal.Decimal     `json:"equity"`
}

// pendingOrder is an order sent to the exchange that has not been filled or
// rejected yet
type pendingOrder struct {
	symbol   string
	action   common.Action
	quantity decimal.Decimal
	// cashDelta is the projected change in cash when the order fills
	cashDelta decimal.Decimal
}
