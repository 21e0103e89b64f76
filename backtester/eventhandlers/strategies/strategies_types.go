package strategies

import (
	"errors"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/base"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/market"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/signal"
)

// ErrStrategyAlreadyExists returned when a strategy matches the same name
var ErrStrategyAlreadyExists = errors.New("strategy already exists")

// Handler defines all functions required to run strategies against data
// events. OnMarket is called once per tick and may return any number of
// signals, all stamped with the tick's time
type Handler interface {
	Name() string
	Description() string
	OnMarket(*market.Market, data.Reader, base.PortfolioReader) ([]*signal.Signal, error)
	SetCustomSettings(map[string]any) error
	SetDefaults()
}
