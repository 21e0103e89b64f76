package base

import (
	"fmt"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/event"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/market"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/signal"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/common/convert"
	"github.com/shopspring/decimal"
)

// GetBaseData returns a signal for a symbol stamped with the market event's
// tick and priced at the symbol's latest close. A symbol without any
// observed bar gets a MissingData signal
func (s *Strategy) GetBaseData(ev *market.Market, d data.Reader, symbol string) (*signal.Signal, error) {
	if ev == nil {
		return nil, common.ErrNilEvent
	}
	if d == nil {
		return nil, common.ErrNilArguments
	}
	latest, err := d.Latest(symbol)
	if err != nil {
		return nil, err
	}
	sig := &signal.Signal{
		Base: event.Base{
			Offset: ev.GetOffset(),
			Time:   ev.GetTime(),
			Symbol: symbol,
		},
		Action: common.DoNothing,
	}
	if latest == nil {
		sig.SetAction(common.MissingData)
		sig.AppendReason("no data observed yet")
		return sig, nil
	}
	sig.ClosePrice = latest.Close
	return sig, nil
}

// FloorQuantity returns how many whole units of price fit into amount
func FloorQuantity(amount, price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() || !amount.IsPositive() {
		return decimal.Zero
	}
	return amount.Div(price).Floor()
}

// PositiveInt reads a custom setting as a positive whole number
func PositiveInt(key string, v any) (int, error) {
	i, err := convert.IntFromInterface(v)
	if err != nil || i <= 0 {
		return 0, fmt.Errorf("%w provided %s value could not be parsed: %v", ErrInvalidCustomSettings, key, v)
	}
	return i, nil
}
