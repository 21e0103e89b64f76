package statistics

import (
	"errors"
	"time"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/portfolio"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/fill"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/order"
	"github.com/shopspring/decimal"
)

var (
	errNoEquityCurve     = errors.New("no equity curve to calculate results from")
	errInvalidPeriods    = errors.New("periods per year must be positive")
)

// DefaultPeriodsPerYear annualises daily returns
const DefaultPeriodsPerYear = 252

// EquityCurver is anything that can produce an equity curve, usually the
// portfolio
type EquityCurver interface {
	EquityCurve() []portfolio.EquityPoint
}

// Handler interface details what a statistic is expected to do
type Handler interface {
	SetStrategyName(name, description string)
	AddFill(*fill.Fill) error
	AddRejection(*order.Order, error) error
	CalculateAllResults(EquityCurver) error
	PrintTotalResults()
	Serialise() (string, error)
	WriteReport(string) error
	Reset()
}

// Statistic holds all statistical information for a backtester run, from
// drawdowns to ratios
type Statistic struct {
	StrategyName        string          `json:"strategy-name"`
	StrategyDescription string          `json:"strategy-description"`
	StrategyNickname    string          `json:"strategy-nickname"`
	StrategyGoal        string          `json:"strategy-goal"`
	StartDate           time.Time       `json:"start-date"`
	EndDate             time.Time       `json:"end-date"`
	RiskFreeRate        decimal.Decimal `json:"risk-free-rate"`
	PeriodsPerYear      decimal.Decimal `json:"periods-per-year"`

	InitialValue             decimal.Decimal `json:"initial-value"`
	FinalValue               decimal.Decimal `json:"final-value"`
	TotalReturn              decimal.Decimal `json:"total-return"`
	CompoundAnnualGrowthRate decimal.Decimal `json:"compound-annual-growth-rate"`
	SharpeRatio              decimal.Decimal `json:"sharpe-ratio"`
	SortinoRatio             decimal.Decimal `json:"sortino-ratio"`
	MaxDrawdown              Swing           `json:"max-drawdown"`

	BuyFills        int64           `json:"buy-fills"`
	SellFills       int64           `json:"sell-fills"`
	PartialFills    int64           `json:"partial-fills"`
	TotalFills      int64           `json:"total-fills"`
	RejectedOrders  int64           `json:"rejected-orders"`
	TotalCommission decimal.Decimal `json:"total-commission"`

	Transactions []ResultTransaction    `json:"transactions"`
	Rejections   []ResultRejection      `json:"rejections,omitempty"`
	EquityCurve  []portfolio.EquityPoint `json:"equity-curve"`
}

// Swing holds the largest fall of the equity curve from its high water mark
type Swing struct {
	Highest         ValueAtTime     `json:"highest"`
	Lowest          ValueAtTime     `json:"lowest"`
	Drawdown        decimal.Decimal `json:"drawdown"`
	DrawdownPercent decimal.Decimal `json:"drawdown-percent"`
	// IntervalDuration is the longest run of ticks spent below a high water
	// mark, which may belong to a different swing than the deepest one
	IntervalDuration int64 `json:"interval-duration"`
}

// ValueAtTime is an individual iteration of a value at a time
type ValueAtTime struct {
	Time  time.Time       `json:"time"`
	Value decimal.Decimal `json:"value"`
	Set   bool            `json:"-"`
}

// ResultTransaction stores details on a fill
type ResultTransaction struct {
	Time       time.Time       `json:"time"`
	Symbol     string          `json:"symbol"`
	Action     common.Action   `json:"action"`
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity"`
	Commission decimal.Decimal `json:"commission"`
	Reason     string          `json:"reason,omitempty"`
}

// ResultRejection stores details on an order the exchange refused
type ResultRejection struct {
	Time     time.Time       `json:"time"`
	Symbol   string          `json:"symbol"`
	Action   common.Action   `json:"action"`
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason"`
}
