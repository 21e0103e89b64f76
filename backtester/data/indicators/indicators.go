package indicators

import (
	"fmt"
	"math"
	"strings"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/bar"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/common"
	"github.com/thrasher-corp/gct-ta/indicators"
)

var reservedColumns = map[string]struct{}{
	"open": {}, "high": {}, "low": {}, "close": {}, "volume": {},
}

// Validate checks the indicator can be computed
func (s *Spec) Validate() error {
	if s.Column == "" {
		return errEmptyColumn
	}
	if _, ok := reservedColumns[strings.ToLower(s.Column)]; ok {
		return fmt.Errorf("%w: %s", errReservedColumn, s.Column)
	}
	switch strings.ToLower(s.Kind) {
	case SMA, EMA, RSI:
	default:
		return fmt.Errorf("%w: %q", errUnsupportedKind, s.Kind)
	}
	if s.Period <= 0 {
		return fmt.Errorf("%s %w", s.Column, errInvalidPeriod)
	}
	return nil
}

// ValidateSpecs validates every spec and ensures column names are unique
func ValidateSpecs(specs []Spec) error {
	var err error
	seen := make(map[string]struct{}, len(specs))
	for i := range specs {
		if errV := specs[i].Validate(); errV != nil {
			err = common.AppendError(err, errV)
			continue
		}
		if _, ok := seen[specs[i].Column]; ok {
			err = common.AppendError(err, fmt.Errorf("%w: %s", errDuplicateColumn, specs[i].Column))
		}
		seen[specs[i].Column] = struct{}{}
	}
	return err
}

// Compute runs the indicator over values. Leading NaN values, such as the
// warm-up of an indicator used as the source, are skipped. Positions inside
// the indicator's own warm-up period are returned as NaN
func Compute(values []float64, kind string, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errInvalidPeriod
	}
	out := make([]float64, len(values))
	lead := 0
	for lead < len(values) && math.IsNaN(values[lead]) {
		out[lead] = math.NaN()
		lead++
	}
	valid := values[lead:]
	var (
		resp   []float64
		warmUp int
	)
	switch kind = strings.ToLower(kind); kind {
	case SMA, EMA:
		warmUp = period - 1
	case RSI:
		warmUp = period
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedKind, kind)
	}
	if len(valid) > warmUp {
		switch kind {
		case SMA:
			resp = indicators.SMA(valid, period)
		case EMA:
			resp = indicators.EMA(valid, period)
		case RSI:
			resp = indicators.RSI(valid, period)
		}
	}
	for i := range valid {
		if i < warmUp || i >= len(resp) {
			out[lead+i] = math.NaN()
			continue
		}
		out[lead+i] = resp[i]
	}
	return out, nil
}

// Apply attaches every spec's column to each symbol's bars. Bars must already
// be in timestamp order. Specs may use earlier specs' columns as their source
func Apply(series map[string][]bar.Bar, specs []Spec) error {
	if err := ValidateSpecs(specs); err != nil {
		return err
	}
	for symbol, bars := range series {
		if len(bars) == 0 {
			continue
		}
		for i := range specs {
			source := strings.ToLower(specs[i].Source)
			if source == "" {
				source = "close"
			}
			if _, ok := reservedColumns[source]; !ok {
				if _, ok := bars[len(bars)-1].GetDerived(source); !ok {
					return fmt.Errorf("%w: %s %s", errUnknownSourceData, symbol, source)
				}
			}
			values, err := Compute(bar.Series(bars, source), specs[i].Kind, specs[i].Period)
			if err != nil {
				return err
			}
			for x := range bars {
				bars[x].SetDerived(specs[i].Column, values[x])
			}
		}
	}
	return nil
}
