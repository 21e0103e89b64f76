package rsi

import (
	"errors"
	"fmt"
	"math"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/bar"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/base"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/market"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/signal"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/common/convert"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/gct-ta/indicators"
)

const (
	// Name is the strategy name
	Name                = "rsi"
	rsiPeriodKey        = "rsi-period"
	rsiLowKey           = "rsi-low"
	rsiHighKey          = "rsi-high"
	quantityFractionKey = "quantity-fraction"
	description         = `The relative strength index is a technical indicator used in the analysis of financial markets. It is intended to chart the current and historical strength or weakness of a stock or market based on the closing prices of a recent trading period`
)

// Strategy is an implementation of the Handler interface
type Strategy struct {
	base.Strategy
	rsiPeriod        int
	rsiLow           decimal.Decimal
	rsiHigh          decimal.Decimal
	quantityFraction decimal.Decimal
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
// be it definition of terms or to highlight its purpose
func (s *Strategy) Description() string {
	return description
}

// OnMarket handles a data event and returns what action the strategy believes should occur
// For rsi, this means going long when rsi is at or below a certain level, and
// exiting when it is at or above a certain level
func (s *Strategy) OnMarket(ev *market.Market, d data.Reader, p base.PortfolioReader) ([]*signal.Signal, error) {
	if ev == nil {
		return nil, common.ErrNilEvent
	}
	if d == nil || p == nil {
		return nil, common.ErrNilArguments
	}
	var resp []*signal.Signal
	for _, sym := range d.Symbols() {
		es, err := s.GetBaseData(ev, d, sym)
		if err != nil {
			if errors.Is(err, data.ErrSymbolNotFound) {
				log.Warnln(log.Strategy, err)
				continue
			}
			return nil, err
		}
		if es.GetAction() == common.MissingData {
			continue
		}
		bars, err := d.LatestBars(sym, s.rsiPeriod*4)
		if err != nil {
			return nil, err
		}
		if len(bars) <= s.rsiPeriod {
			continue
		}
		rsi := indicators.RSI(bar.Closes(bars), s.rsiPeriod)
		if len(rsi) == 0 || math.IsNaN(rsi[len(rsi)-1]) || math.IsInf(rsi[len(rsi)-1], 0) {
			continue
		}
		latestRSIValue := decimal.NewFromFloat(rsi[len(rsi)-1])
		position := p.ProjectedPosition(sym)
		switch {
		case latestRSIValue.GreaterThanOrEqual(s.rsiHigh) && position.IsPositive():
			es.SetAction(common.Exit)
		case latestRSIValue.LessThanOrEqual(s.rsiLow) && !position.IsPositive():
			es.SetAction(common.Long)
			es.Strength = s.quantityFraction
		default:
			continue
		}
		es.AppendReason(fmt.Sprintf("RSI at %v", latestRSIValue.Round(2)))
		resp = append(resp, es)
	}
	return resp, nil
}

// SetCustomSettings allows a user to modify the RSI limits in their config
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		switch k {
		case rsiHighKey, rsiLowKey:
			f, err := convert.DecimalFromInterface(v)
			if err != nil || !f.IsPositive() || f.GreaterThan(decimal.NewFromInt(100)) {
				return fmt.Errorf("%w provided %s value could not be parsed: %v", base.ErrInvalidCustomSettings, k, v)
			}
			if k == rsiHighKey {
				s.rsiHigh = f
			} else {
				s.rsiLow = f
			}
		case rsiPeriodKey:
			period, err := base.PositiveInt(k, v)
			if err != nil {
				return err
			}
			s.rsiPeriod = period
		case quantityFractionKey:
			f, err := convert.DecimalFromInterface(v)
			if err != nil || !f.IsPositive() || f.GreaterThan(decimal.NewFromInt(1)) {
				return fmt.Errorf("%w provided %s value must be within (0, 1]: %v", base.ErrInvalidCustomSettings, k, v)
			}
			s.quantityFraction = f
		default:
			return fmt.Errorf("%w unrecognised custom setting key %v with value %v. Cannot apply", base.ErrInvalidCustomSettings, k, v)
		}
	}
	if s.rsiLow.GreaterThanOrEqual(s.rsiHigh) {
		return fmt.Errorf("%w rsi-low %v must be below rsi-high %v", base.ErrInvalidCustomSettings, s.rsiLow, s.rsiHigh)
	}
	return nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.rsiHigh = decimal.NewFromInt(70)
	s.rsiLow = decimal.NewFromInt(30)
	s.rsiPeriod = 14
	s.quantityFraction = decimal.NewFromInt(1)
}
