package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/bar"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/base"
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

// OnMarket runs the script for every symbol with an observed bar and
// converts whatever it sets into signals
func (s *Strategy) OnMarket(ev *market.Market, d data.Reader, p base.PortfolioReader) ([]*signal.Signal, error) {
	if ev == nil {
		return nil, common.ErrNilEvent
	}
	if d == nil || p == nil {
		return nil, common.ErrNilArguments
	}
	if s.compiled == nil {
		return nil, errNoScript
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
		bars, err := d.LatestBars(sym, s.lookback)
		if err != nil {
			return nil, err
		}
		action, qty, err := s.evaluate(sym, bar.Closes(bars), p)
		if err != nil {
			return nil, fmt.Errorf("%v %v: %w", sym, ev.GetTime(), err)
		}
		if action == common.DoNothing {
			continue
		}
		sig.SetAction(action)
		if qty.IsPositive() {
			sig.SetQuantity(qty)
		} else {
			sig.Strength = decimal.NewFromInt(1)
		}
		sig.AppendReason("script set " + string(action))
		resp = append(resp, sig)
	}
	return resp, nil
}

func (s *Strategy) evaluate(symbol string, closes []float64, p base.PortfolioReader) (common.Action, decimal.Decimal, error) {
	series := make([]any, len(closes))
	for i := range closes {
		series[i] = closes[i]
	}
	inputs := map[string]any{
		closesVar:   series,
		positionVar: p.ProjectedPosition(symbol).InexactFloat64(),
		cashVar:     p.ProjectedCash().InexactFloat64(),
		symbolVar:   symbol,
		signalVar:   "",
		quantityVar: 0.0,
	}
	for k, v := range inputs {
		if err := s.compiled.Set(k, v); err != nil {
			return common.DoNothing, decimal.Zero, err
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.compiled.RunContext(ctx); err != nil {
		return common.DoNothing, decimal.Zero, err
	}

	var action common.Action
	switch strings.ToUpper(s.compiled.Get(signalVar).String()) {
	case "":
		return common.DoNothing, decimal.Zero, nil
	case "LONG":
		action = common.Long
	case "SHORT":
		action = common.Short
	case "EXIT":
		action = common.Exit
	default:
		return common.DoNothing, decimal.Zero, fmt.Errorf("%w %q", errUnknownScriptSignal, s.compiled.Get(signalVar).String())
	}
	qty := s.compiled.Get(quantityVar).Float()
	if qty <= 0 {
		return action, decimal.Zero, nil
	}
	return action, decimal.NewFromFloat(qty).Floor(), nil
}

// Load compiles tengo source. The math and text standard modules are
// importable from the script
func (s *Strategy) Load(source []byte) error {
	sc := tengo.NewScript(source)
	sc.SetImports(stdlib.GetModuleMap("math", "text"))
	for _, name := range []string{closesVar, positionVar, cashVar, symbolVar, signalVar, quantityVar} {
		var initial any
		switch name {
		case closesVar:
			initial = []any{}
		case symbolVar, signalVar:
			initial = ""
		default:
			initial = 0.0
		}
		if err := sc.Add(name, initial); err != nil {
			return err
		}
	}
	compiled, err := sc.Compile()
	if err != nil {
		return fmt.Errorf("%w: %v", base.ErrInvalidCustomSettings, err)
	}
	s.source = source
	s.compiled = compiled
	return nil
}

// SetCustomSettings allows a user to supply the script inline or by path,
// along with how many closes it sees and how long a single run may take
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	_, inline := customSettings[scriptKey]
	_, path := customSettings[scriptPathKey]
	if inline && path {
		return fmt.Errorf("%w %v", base.ErrInvalidCustomSettings, errBothScriptSources)
	}
	for k, v := range customSettings {
		switch k {
		case scriptKey:
			src, ok := v.(string)
			if !ok || strings.TrimSpace(src) == "" {
				return fmt.Errorf("%w provided %s value could not be parsed: %v", base.ErrInvalidCustomSettings, k, v)
			}
			if err := s.Load([]byte(src)); err != nil {
				return err
			}
		case scriptPathKey:
			p, ok := v.(string)
			if !ok || p == "" {
				return fmt.Errorf("%w provided %s value could not be parsed: %v", base.ErrInvalidCustomSettings, k, v)
			}
			src, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("%w %v", base.ErrInvalidCustomSettings, err)
			}
			if err := s.Load(src); err != nil {
				return err
			}
		case lookbackKey:
			l, err := base.PositiveInt(k, v)
			if err != nil {
				return err
			}
			s.lookback = l
		case timeoutKey:
			raw, ok := v.(string)
			if !ok {
				return fmt.Errorf("%w provided %s value could not be parsed: %v", base.ErrInvalidCustomSettings, k, v)
			}
			d, err := time.ParseDuration(raw)
			if err != nil || d <= 0 {
				return fmt.Errorf("%w provided %s value could not be parsed: %v", base.ErrInvalidCustomSettings, k, v)
			}
			s.timeout = d
		default:
			return fmt.Errorf("%w unrecognised custom setting key %v with value %v. Cannot apply", base.ErrInvalidCustomSettings, k, v)
		}
	}
	return nil
}

// SetDefaults sets the custom settings to their default values. The script
// itself has no default
func (s *Strategy) SetDefaults() {
	s.lookback = 100
	s.timeout = time.Second
	s.source = nil
	s.compiled = nil
}

