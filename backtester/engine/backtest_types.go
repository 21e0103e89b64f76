package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/eventholder"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/exchange"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/portfolio"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/statistics"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/base"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/market"
)

var (
	errUnhandledEvent = errors.New("unhandled event type")
	errAlreadyRan     = errors.New("backtest has already run")
)

// DataHandler is a replayable data source. Next returns
// data.ErrDataExhausted once every tick has been emitted
type DataHandler interface {
	data.Reader
	Next() (*market.Market, error)
	StopAt(time.Time)
}

// PortfolioHandler is the portfolio the engine drives. Strategies receive it
// through the read-only base.PortfolioReader view
type PortfolioHandler interface {
	portfolio.Handler
	base.PortfolioReader
}

// BackTest is the main holder of all backtesting functionality
type BackTest struct {
	m          sync.Mutex
	shutdown   chan struct{}
	hasRan     bool
	reportPath string

	Data       DataHandler
	Strategy   strategies.Handler
	Portfolio  PortfolioHandler
	Exchange   exchange.ExecutionHandler
	Statistic  statistics.Handler
	EventQueue eventholder.EventHolder
}
