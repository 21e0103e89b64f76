package buyandhold

import (
	"errors"
	"fmt"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/base"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/market"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/signal"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
	"github.com/shopspring/decimal"
)

const (
	// Name is the strategy name
	Name        = "buyandhold"
	description = `Buys an equal share of the initial cash in every symbol on the first bar the symbol is seen and holds it until the end of the run`
)

// Strategy is an implementation of the Handler interface
type Strategy struct {
	base.Strategy
	bought map[string]bool
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
func (s *Strategy) Description() string {
	return description
}

// OnMarket raises one LONG signal per symbol the first time the symbol has a
// bar, sized at floor(initial cash / symbol count / close)
func (s *Strategy) OnMarket(ev *market.Market, d data.Reader, p base.PortfolioReader) ([]*signal.Signal, error) {
	if ev == nil {
		return nil, common.ErrNilEvent
	}
	if d == nil || p == nil {
		return nil, common.ErrNilArguments
	}
	if s.bought == nil {
		s.bought = make(map[string]bool)
	}
	symbols := d.Symbols()
	share := p.InitialCash().Div(decimal.NewFromInt(int64(len(symbols))))
	var resp []*signal.Signal
	for _, sym := range symbols {
		if s.bought[sym] {
			continue
		}
		sig, err := s.GetBaseData(ev, d, sym)
		if err != nil {
			if errors.Is(err, data.ErrSymbolNotFound) {
				log.Warnln(log.Strategy, err)
				continue
			}
			return nil, err
		}
		if sig.GetAction() == common.MissingData {
			continue
		}
		s.bought[sym] = true
		qty := base.FloorQuantity(share, sig.GetClosePrice())
		if qty.IsZero() {
			sig.AppendReason(fmt.Sprintf("share %v cannot buy one unit at %v", share, sig.GetClosePrice()))
			continue
		}
		sig.SetAction(common.Long)
		sig.SetQuantity(qty)
		sig.AppendReason("buy and hold")
		resp = append(resp, sig)
	}
	return resp, nil
}

// SetCustomSettings not required for buy and hold
func (s *Strategy) SetCustomSettings(settings map[string]any) error {
	if len(settings) > 0 {
		return base.ErrCustomSettingsUnsupported
	}
	return nil
}

// SetDefaults resets the record of bought symbols
func (s *Strategy) SetDefaults() {
	s.bought = make(map[string]bool)
}
