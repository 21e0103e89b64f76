package exchange

import (
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/bar"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/exchange/slippage"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/fill"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/order"
	gctcommon "github.com/jp-quant/AlgorithmicTrading-Academic-Project/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// New returns an exchange for the configured broker
func New(s *Settings) (*Exchange, error) {
	if s == nil {
		return nil, fmt.Errorf("exchange settings %w", gctcommon.ErrNilPointer)
	}
	if s.Commission.IsNegative() {
		return nil, fmt.Errorf("%w: %v", errNegativeCommission, s.Commission)
	}
	e := &Exchange{
		name:       s.Name,
		commission: s.Commission,
	}
	if e.name == "" {
		e.name = "simulated"
	}
	switch strings.ToLower(s.Broker) {
	case "", BasicBroker:
	case SlippageBroker:
		var err error
		e.slippage, err = slippage.NewEstimator(s.MinimumSlippagePercent, s.MaximumSlippagePercent, s.RandomSeed)
		if err != nil {
			return nil, err
		}
		if s.MaximumVolumePercent.IsNegative() || s.MaximumVolumePercent.GreaterThan(hundred) {
			return nil, fmt.Errorf("%w: %v", errInvalidVolumePercent, s.MaximumVolumePercent)
		}
		e.maximumVolumePercent = s.MaximumVolumePercent
	default:
		return nil, fmt.Errorf("%w %q", errUnknownBroker, s.Broker)
	}
	return e, nil
}

// GetName returns the exchange name recorded on fills
func (e *Exchange) GetName() string {
	return e.name
}

// EstimateCommission returns the commission an order would be charged
func (e *Exchange) EstimateCommission(_, _ decimal.Decimal) decimal.Decimal {
	return e.commission
}

// WorstCasePrice returns the least favourable fill price the broker can
// produce for an order triggered at price
func (e *Exchange) WorstCasePrice(buying bool, price decimal.Decimal) decimal.Decimal {
	if e.slippage == nil {
		return price
	}
	return slippage.ApplyToPrice(buying, price, e.slippage.WorstRate())
}

// ExecuteOrder fills an order against the symbol's current bar. An order
// whose trigger conditions are not met by the bar is rejected rather than
// left resting
func (e *Exchange) ExecuteOrder(o *order.Order, d data.Reader) (*fill.Fill, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("data reader %w", gctcommon.ErrNilPointer)
	}
	b, err := d.Latest(o.GetSymbol())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOrderRejected, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: %w %s", ErrOrderRejected, errNoBarForOrder, o.GetSymbol())
	}
	price, err := triggerPrice(o, b)
	if err != nil {
		return nil, err
	}

	f := &fill.Fill{
		Base:              o.Derive(),
		OrderID:           o.GetID(),
		Exchange:          e.name,
		Action:            o.GetAction(),
		OrderType:         o.GetOrderType(),
		RequestedQuantity: o.GetQuantity(),
		Quantity:          o.GetQuantity(),
		ClosePrice:        b.Close,
		Price:             price,
		Commission:        e.commission,
	}
	f.Reasons = append(f.Reasons, o.GetReasons()...)

	if e.slippage != nil {
		rate := e.slippage.Estimate()
		f.Price = slippage.ApplyToPrice(o.GetAction() == common.Buy, price, rate)
		f.Slippage = rate.Mul(hundred).Sub(hundred)
		if err = e.fitToVolume(f, b); err != nil {
			return nil, err
		}
	}

	f.ID, err = uuid.NewV4()
	if err != nil {
		return nil, err
	}
	if f.IsPartial() {
		log.Infof(log.Exchange, "%v %s order %v partially filled %v of %v", f.GetTime(), f.GetSymbol(), o.GetID(), f.Quantity, f.RequestedQuantity)
	}
	log.Debugf(log.Exchange, "%v %s %s %v filled @ %v", f.GetTime(), f.GetSymbol(), f.Action, f.Quantity, f.Price)
	return f, nil
}

// fitToVolume caps the fill quantity at a share of the bar's volume
func (e *Exchange) fitToVolume(f *fill.Fill, b *bar.Bar) error {
	if !e.maximumVolumePercent.IsPositive() || !b.Volume.IsPositive() {
		return nil
	}
	capacity := b.Volume.Mul(e.maximumVolumePercent).Div(hundred).Floor()
	if !capacity.IsPositive() {
		return fmt.Errorf("%w: %w volume %v", ErrOrderRejected, errVolumeCapExceedsOrder, b.Volume)
	}
	if f.Quantity.GreaterThan(capacity) {
		f.AppendReason(fmt.Sprintf("Order size shrunk from %v to %v to fit bar volume", f.Quantity, capacity))
		f.Quantity = capacity
	}
	return nil
}

// triggerPrice returns the price an order executes at on a bar
func triggerPrice(o *order.Order, b *bar.Bar) (decimal.Decimal, error) {
	buying := o.GetAction() == common.Buy
	limitReached := func() bool {
		if buying {
			return b.Low.LessThanOrEqual(o.LimitPrice)
		}
		return b.High.GreaterThanOrEqual(o.LimitPrice)
	}
	stopTriggered := func() bool {
		if buying {
			return b.High.GreaterThanOrEqual(o.StopPrice)
		}
		return b.Low.LessThanOrEqual(o.StopPrice)
	}
	switch o.GetOrderType() {
	case common.Market:
		return b.Close, nil
	case common.Limit:
		if !o.LimitPrice.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: %w", ErrOrderRejected, errMissingTriggerPrice)
		}
		if limitReached() {
			return o.LimitPrice, nil
		}
		return decimal.Zero, fmt.Errorf("%w: %s limit %v not reached between %v and %v", ErrOrderRejected, o.GetAction(), o.LimitPrice, b.Low, b.High)
	case common.Stop:
		if !o.StopPrice.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: %w", ErrOrderRejected, errMissingTriggerPrice)
		}
		if stopTriggered() {
			return o.StopPrice, nil
		}
		return decimal.Zero, fmt.Errorf("%w: %s stop %v not triggered between %v and %v", ErrOrderRejected, o.GetAction(), o.StopPrice, b.Low, b.High)
	case common.StopLimit:
		if !o.StopPrice.IsPositive() || !o.LimitPrice.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: %w", ErrOrderRejected, errMissingTriggerPrice)
		}
		if stopTriggered() && limitReached() {
			return o.LimitPrice, nil
		}
		return decimal.Zero, fmt.Errorf("%w: %s stop %v limit %v not met between %v and %v", ErrOrderRejected, o.GetAction(), o.StopPrice, o.LimitPrice, b.Low, b.High)
	}
	return decimal.Zero, fmt.Errorf("%w %q", common.ErrInvalidOrderType, o.GetOrderType())
}
