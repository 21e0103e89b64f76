package allocation

import (
	"errors"
	"fmt"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/bar"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/base"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/event"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/market"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/signal"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
	"github.com/shopspring/decimal"
)

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
func (s *Strategy) Description() string {
	return description
}

// OnMarket rebalances on the first tick of each UTC calendar day. Sell
// signals are returned before buy signals so that sale proceeds are
// projected before buys are checked against cash
func (s *Strategy) OnMarket(ev *market.Market, d data.Reader, p base.PortfolioReader) ([]*signal.Signal, error) {
	if ev == nil {
		return nil, common.ErrNilEvent
	}
	if d == nil || p == nil {
		return nil, common.ErrNilArguments
	}
	t := ev.GetTime()
	if t.Year() == s.lastYear && t.YearDay() == s.lastDay {
		return nil, nil
	}
	s.lastYear, s.lastDay = t.Year(), t.YearDay()

	symbols := d.Symbols()
	closes := make([][]float64, 0, len(symbols))
	latest := make([]*bar.Bar, 0, len(symbols))
	tradable := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		bars, err := d.LatestBars(sym, s.lookback+1)
		if err != nil {
			if errors.Is(err, data.ErrSymbolNotFound) {
				log.Warnln(log.Strategy, err)
				continue
			}
			return nil, err
		}
		if len(bars) == 0 {
			continue
		}
		tradable = append(tradable, sym)
		closes = append(closes, bar.Closes(bars))
		latest = append(latest, &bars[len(bars)-1])
	}
	if len(tradable) == 0 {
		return nil, nil
	}

	weights, err := Optimise(toReturns(closes), s.iterations)
	if err != nil {
		log.Warnf(log.Strategy, "%v %v, using equal weights", t, err)
		weights = EqualWeights(len(tradable))
	}

	total := p.TotalValue()
	var sells, buys []*signal.Signal
	for i, sym := range tradable {
		price := latest[i].Close
		target := base.FloorQuantity(total.Mul(decimal.NewFromFloat(weights[i])), price)
		diff := target.Sub(p.ProjectedPosition(sym))
		if diff.IsZero() {
			continue
		}
		sig := &signal.Signal{
			Base: event.Base{
				Offset: ev.GetOffset(),
				Time:   t,
				Symbol: sym,
			},
			ClosePrice: price,
			Quantity:   diff.Abs(),
		}
		sig.AppendReason(fmt.Sprintf("target weight %.4f", weights[i]))
		if diff.IsNegative() {
			sig.SetAction(common.Sell)
			sells = append(sells, sig)
			continue
		}
		sig.SetAction(common.Buy)
		buys = append(buys, sig)
	}
	return append(sells, buys...), nil
}

// toReturns converts each close series into simple returns, trimmed to the
// shortest history so every series covers the same ticks
func toReturns(closes [][]float64) [][]float64 {
	shortest := -1
	for i := range closes {
		if shortest == -1 || len(closes[i]) < shortest {
			shortest = len(closes[i])
		}
	}
	resp := make([][]float64, len(closes))
	for i := range closes {
		series := closes[i][len(closes[i])-shortest:]
		resp[i] = make([]float64, 0, len(series))
		for j := 1; j < len(series); j++ {
			if series[j-1] == 0 {
				resp[i] = append(resp[i], 0)
				continue
			}
			resp[i] = append(resp[i], series[j]/series[j-1]-1)
		}
	}
	return resp
}

// SetCustomSettings allows a user to modify the lookback and optimiser
// iterations in their config
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		switch k {
		case lookbackKey:
			l, err := base.PositiveInt(k, v)
			if err != nil {
				return err
			}
			s.lookback = l
		case iterationsKey:
			i, err := base.PositiveInt(k, v)
			if err != nil {
				return err
			}
			s.iterations = i
		default:
			return fmt.Errorf("%w unrecognised custom setting key %v with value %v. Cannot apply", base.ErrInvalidCustomSettings, k, v)
		}
	}
	return nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.lookback = 60
	s.iterations = 500
	s.lastYear, s.lastDay = 0, 0
}
