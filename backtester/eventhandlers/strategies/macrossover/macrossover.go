package macrossover

import (
	"errors"
	"fmt"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/bar"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/base"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/market"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/signal"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/common/convert"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
	"github.com/shopspring/decimal"
)

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
// be it definition of terms or to highlight its purpose
func (s *Strategy) Description() string {
	return description
}

// OnMarket evaluates every symbol with a fresh bar and raises signals when
// its confirmed regime flips
func (s *Strategy) OnMarket(ev *market.Market, d data.Reader, p base.PortfolioReader) ([]*signal.Signal, error) {
	if ev == nil {
		return nil, common.ErrNilEvent
	}
	if d == nil || p == nil {
		return nil, common.ErrNilArguments
	}
	if s.regime == nil {
		s.regime = make(map[string]int)
	}
	var resp []*signal.Signal
	for _, sym := range d.Symbols() {
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
		filled, err := d.IsForwardFilled(sym)
		if err != nil {
			return nil, err
		}
		if filled {
			continue
		}
		bars, err := d.LatestBars(sym, s.window)
		if err != nil {
			return nil, err
		}
		candidate, ok := s.confirmedSign(bars)
		if !ok {
			continue
		}
		previous := s.regime[sym]
		if candidate == previous {
			continue
		}
		s.regime[sym] = candidate
		if previous == 0 {
			log.Debugf(log.Strategy, "%v %s initial regime %d", ev.GetTime(), sym, candidate)
			continue
		}
		resp = append(resp, s.flipSignals(sig, candidate, p)...)
	}
	return resp, nil
}

// confirmedSign returns the regime of the trailing window as 1 for fast above
// slow or -1 for fast below slow. A regime is confirmed when at least
// agreement of the window's bars share its sign and the latest bar has it
// too, so with window 5 and agreement 3 the signs - - + + + confirm 1 while
// + + + - - confirm nothing. Bars missing either column are skipped and a
// window with fewer usable bars than its length is never confirmed
func (s *Strategy) confirmedSign(bars []bar.Bar) (int, bool) {
	signs := make([]int, 0, len(bars))
	for i := range bars {
		fast, okFast := bars[i].GetDerived(s.fastColumn)
		slow, okSlow := bars[i].GetDerived(s.slowColumn)
		if !okFast || !okSlow {
			continue
		}
		signs = append(signs, fast.Sub(slow).Sign())
	}
	if len(signs) < s.window {
		return 0, false
	}
	var positive, negative int
	for _, v := range signs {
		switch v {
		case 1:
			positive++
		case -1:
			negative++
		}
	}
	latest := signs[len(signs)-1]
	switch {
	case positive >= s.agreement && latest == 1:
		return 1, true
	case negative >= s.agreement && latest == -1:
		return -1, true
	}
	return 0, false
}

func (s *Strategy) flipSignals(sig *signal.Signal, direction int, p base.PortfolioReader) []*signal.Signal {
	position := p.ProjectedPosition(sig.GetSymbol())
	var resp []*signal.Signal
	derive := func(action common.Action, reason string) *signal.Signal {
		next := *sig
		next.Reasons = append([]string(nil), sig.Reasons...)
		next.SetAction(action)
		next.AppendReason(reason)
		return &next
	}
	if direction > 0 {
		if position.IsNegative() {
			resp = append(resp, derive(common.Exit, "fast crossed above slow, covering short"))
		}
		long := derive(common.Long, fmt.Sprintf("%s crossed above %s", s.fastColumn, s.slowColumn))
		long.Strength = s.quantityFraction
		return append(resp, long)
	}
	if position.IsPositive() {
		resp = append(resp, derive(common.Exit, fmt.Sprintf("%s crossed below %s", s.fastColumn, s.slowColumn)))
	}
	if s.allowShort {
		short := derive(common.Short, fmt.Sprintf("%s crossed below %s, going short", s.fastColumn, s.slowColumn))
		short.SetQuantity(base.FloorQuantity(p.TotalValue().Mul(s.quantityFraction), sig.GetClosePrice()))
		if short.GetQuantity().IsPositive() {
			resp = append(resp, short)
		}
	}
	return resp
}

// SetCustomSettings allows a user to modify the crossover columns and
// debounce window in their config
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		switch k {
		case fastColumnKey, slowColumnKey:
			col, ok := v.(string)
			if !ok || col == "" {
				return fmt.Errorf("%w provided %s value could not be parsed: %v", base.ErrInvalidCustomSettings, k, v)
			}
			if k == fastColumnKey {
				s.fastColumn = col
			} else {
				s.slowColumn = col
			}
		case windowKey:
			w, err := base.PositiveInt(k, v)
			if err != nil {
				return err
			}
			s.window = w
		case agreementKey:
			a, err := base.PositiveInt(k, v)
			if err != nil {
				return err
			}
			s.agreement = a
		case quantityFractionKey:
			f, err := convert.DecimalFromInterface(v)
			if err != nil || !f.IsPositive() || f.GreaterThan(decimal.NewFromInt(1)) {
				return fmt.Errorf("%w provided %s value must be within (0, 1]: %v", base.ErrInvalidCustomSettings, k, v)
			}
			s.quantityFraction = f
		case allowShortKey:
			b, err := convert.BoolFromInterface(v)
			if err != nil {
				return fmt.Errorf("%w provided %s value could not be parsed: %v", base.ErrInvalidCustomSettings, k, v)
			}
			s.allowShort = b
		default:
			return fmt.Errorf("%w unrecognised custom setting key %v with value %v. Cannot apply", base.ErrInvalidCustomSettings, k, v)
		}
	}
	if s.agreement > s.window || s.agreement*2 <= s.window {
		return fmt.Errorf("%w %s %d must be a majority of %s %d", base.ErrInvalidCustomSettings, agreementKey, s.agreement, windowKey, s.window)
	}
	if s.fastColumn == s.slowColumn {
		return fmt.Errorf("%w fast and slow columns must differ", base.ErrInvalidCustomSettings)
	}
	return nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.fastColumn = "sma50"
	s.slowColumn = "sma100"
	s.window = 5
	s.agreement = 3
	s.quantityFraction = decimal.NewFromInt(1)
	s.allowShort = false
	s.regime = make(map[string]int)
}
