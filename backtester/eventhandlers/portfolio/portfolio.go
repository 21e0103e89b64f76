package portfolio

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/portfolio/holdings"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/portfolio/risk"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/fill"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/market"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/order"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/signal"
	gctcommon "github.com/jp-quant/AlgorithmicTrading-Academic-Project/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
	"github.com/shopspring/decimal"
)

// New returns a portfolio holding initial cash and a flat position in every symbol
func New(symbols []string, s *Settings) (*Portfolio, error) {
	if s == nil {
		return nil, fmt.Errorf("portfolio settings %w", gctcommon.ErrNilPointer)
	}
	if len(symbols) == 0 {
		return nil, errNoSymbols
	}
	if !s.InitialCash.IsPositive() {
		return nil, fmt.Errorf("%w: %v", errInvalidInitialCash, s.InitialCash)
	}
	r, err := risk.New(s.CashPolicy, s.AllowShort)
	if err != nil {
		return nil, err
	}
	p := &Portfolio{
		initialCash: s.InitialCash,
		cash:        s.InitialCash,
		symbolIndex: make(map[string]int, len(symbols)),
		pending:     make(map[uuid.UUID]*pendingOrder),
		applied:     make(map[uuid.UUID]struct{}),
		risk:        r,
		commission:  s.Commission,
	}
	for i := range symbols {
		sym := strings.ToUpper(symbols[i])
		if _, ok := p.symbolIndex[sym]; ok {
			continue
		}
		p.symbolIndex[sym] = len(p.symbols)
		p.symbols = append(p.symbols, sym)
		p.holdings = append(p.holdings, holdings.NewSeries(sym))
	}
	return p, nil
}

func (p *Portfolio) index(symbol string) (int, error) {
	idx, ok := p.symbolIndex[strings.ToUpper(symbol)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", data.ErrSymbolNotFound, symbol)
	}
	return idx, nil
}

// OnMarket marks every symbol to its latest close and records the portfolio
// row for the tick. Repeating the call for the same tick changes nothing
func (p *Portfolio) OnMarket(ev *market.Market, d data.Reader) error {
	if ev == nil {
		return common.ErrNilEvent
	}
	if d == nil {
		return fmt.Errorf("data reader %w", gctcommon.ErrNilPointer)
	}
	offset := ev.GetOffset()
	if err := p.checkOffset(offset); err != nil {
		return err
	}
	for i, sym := range p.symbols {
		b, err := d.Latest(sym)
		if err != nil {
			if errors.Is(err, data.ErrSymbolNotFound) {
				log.Warnf(log.Portfolio, "%v, skipping mark", err)
				continue
			}
			return err
		}
		closePrice := decimal.Zero
		if b != nil {
			closePrice = b.Close
		}
		err = p.holdings[i].Set(holdings.Create(offset, ev.GetTime(), sym, p.holdings[i].Position(), closePrice))
		if err != nil {
			return err
		}
	}
	return p.recordValue(offset, ev.GetTime())
}

func (p *Portfolio) checkOffset(offset int64) error {
	if offset < 1 {
		return fmt.Errorf("%w: offset %d", errStaleEvent, offset)
	}
	if len(p.values) > 0 && offset < p.values[len(p.values)-1].Offset {
		return fmt.Errorf("%w: offset %d latest %d", errStaleEvent, offset, p.values[len(p.values)-1].Offset)
	}
	return nil
}

// recordValue recomputes the portfolio row at offset from the current cash
// and each symbol's holding
func (p *Portfolio) recordValue(offset int64, t time.Time) error {
	if err := p.checkOffset(offset); err != nil {
		return err
	}
	v := Value{
		Offset:       offset,
		Time:         t.UTC(),
		SymbolValues: make([]decimal.Decimal, len(p.symbols)),
		Cash:         p.cash,
		Total:        p.cash,
	}
	for i := range p.holdings {
		h, ok := p.holdings[i].Latest()
		if !ok {
			continue
		}
		v.SymbolValues[i] = h.Value
		v.Total = v.Total.Add(h.Value)
	}
	idx := int(offset - 1)
	if idx == len(p.values)-1 {
		p.values[idx] = v
		return nil
	}
	for len(p.values) < idx {
		pad := Value{
			Cash:         p.initialCash,
			Total:        p.initialCash,
			SymbolValues: make([]decimal.Decimal, len(p.symbols)),
		}
		if len(p.values) > 0 {
			pad = p.values[len(p.values)-1]
		}
		pad.Offset = int64(len(p.values)) + 1
		p.values = append(p.values, pad)
	}
	p.values = append(p.values, v)
	return nil
}

// OnSignal translates a strategy's intent into an order. It does not change
// cash or positions, but the order's projected effect is reserved until it
// is filled or rejected. A nil order with a nil error means there was
// nothing to do
func (p *Portfolio) OnSignal(ev *signal.Signal, d data.Reader) (*order.Order, error) {
	if ev == nil {
		return nil, common.ErrNilEvent
	}
	if !ev.IsActionable() {
		return nil, nil
	}
	idx, err := p.index(ev.GetSymbol())
	if err != nil {
		return nil, err
	}
	sym := p.symbols[idx]
	closePrice, err := p.closePrice(ev, d)
	if err != nil {
		return nil, err
	}
	projectedPosition := p.ProjectedPosition(sym)

	var action common.Action
	quantity := ev.GetQuantity().Abs()
	switch ev.GetAction() {
	case common.Buy, common.Long:
		action = common.Buy
	case common.Sell, common.Short:
		action = common.Sell
	case common.Exit:
		if projectedPosition.IsZero() {
			ev.AppendReason("no position to exit")
			return nil, nil
		}
		action = common.Buy
		if projectedPosition.IsPositive() {
			action = common.Sell
		}
		quantity = projectedPosition.Abs()
	}
	reservePrice := p.reservationPrice(action, closePrice, ev)
	if quantity.IsZero() && ev.Strength.IsPositive() {
		quantity = p.sizeFromStrength(action, ev.Strength, reservePrice, projectedPosition)
	}
	if !quantity.IsPositive() {
		ev.SetAction(couldNot(action))
		ev.AppendReason(common.ErrZeroQuantity.Error())
		return nil, fmt.Errorf("%s %w", sym, common.ErrZeroQuantity)
	}

	commission := p.estimateCommission(reservePrice, quantity)
	cashDelta := reservePrice.Mul(quantity).Add(commission).Neg()
	if action == common.Sell {
		cashDelta = reservePrice.Mul(quantity).Sub(commission)
	}
	err = p.risk.EvaluateOrder(&risk.Proposal{
		Symbol:            sym,
		Buying:            action == common.Buy,
		Quantity:          quantity,
		EstimatedCost:     cashDelta.Neg(),
		ProjectedCash:     p.ProjectedCash(),
		ProjectedPosition: projectedPosition,
	})
	if err != nil {
		ev.SetAction(couldNot(action))
		ev.AppendReason(err.Error())
		log.Warnf(log.Portfolio, "%v %s order not created: %v", ev.GetTime(), sym, err)
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	o := &order.Order{
		Base:       ev.Derive(),
		ID:         id,
		Action:     action,
		OrderType:  ev.GetOrderType(),
		Quantity:   quantity,
		LimitPrice: ev.LimitPrice,
		StopPrice:  ev.StopPrice,
		ClosePrice: closePrice,
	}
	o.Symbol = sym
	o.Reasons = append(o.Reasons, ev.GetReasons()...)
	if err = o.Validate(); err != nil {
		return nil, err
	}
	p.pending[id] = &pendingOrder{
		symbol:    sym,
		action:    action,
		quantity:  quantity,
		cashDelta: cashDelta,
	}
	log.Debugf(log.Portfolio, "%v %s %s %s order for %v created", o.GetTime(), sym, o.OrderType, action, quantity)
	return o, nil
}

func couldNot(a common.Action) common.Action {
	if a == common.Sell {
		return common.CouldNotSell
	}
	return common.CouldNotBuy
}

func (p *Portfolio) closePrice(ev *signal.Signal, d data.Reader) (decimal.Decimal, error) {
	if ev.GetClosePrice().IsPositive() {
		return ev.GetClosePrice(), nil
	}
	if d != nil {
		b, err := d.Latest(ev.GetSymbol())
		if err != nil {
			return decimal.Zero, err
		}
		if b != nil && b.Close.IsPositive() {
			return b.Close, nil
		}
	}
	return decimal.Zero, fmt.Errorf("%w for %s", errNoClosePrice, ev.GetSymbol())
}

// reservationPrice is the least favourable price the order can execute at:
// the highest of close, limit and stop for buys and the lowest for sells,
// worsened by the broker's maximum slippage when it reports one
func (p *Portfolio) reservationPrice(action common.Action, closePrice decimal.Decimal, ev *signal.Signal) decimal.Decimal {
	buying := action == common.Buy
	price := closePrice
	for _, trigger := range []decimal.Decimal{ev.LimitPrice, ev.StopPrice} {
		if !trigger.IsPositive() {
			continue
		}
		if (buying && trigger.GreaterThan(price)) || (!buying && trigger.LessThan(price)) {
			price = trigger
		}
	}
	if w, ok := p.commission.(WorstCasePricer); ok {
		price = w.WorstCasePrice(buying, price)
	}
	return price
}

// sizeFromStrength converts a signal strength in (0, 1] into a quantity. Buys
// spend that share of projected cash, sells reduce that share of the position
func (p *Portfolio) sizeFromStrength(action common.Action, strength, price, position decimal.Decimal) decimal.Decimal {
	if strength.GreaterThan(decimal.NewFromInt(1)) {
		strength = decimal.NewFromInt(1)
	}
	if action == common.Sell {
		return position.Abs().Mul(strength).Floor()
	}
	cash := p.ProjectedCash()
	if !cash.IsPositive() {
		return decimal.Zero
	}
	return cash.Mul(strength).Div(price).Floor()
}

func (p *Portfolio) estimateCommission(price, quantity decimal.Decimal) decimal.Decimal {
	if p.commission == nil {
		return decimal.Zero
	}
	return p.commission.EstimateCommission(price, quantity)
}

// OnFill applies a trade to the position and cash balance and records the
// portfolio row at the fill's tick. A fill can only be applied once
func (p *Portfolio) OnFill(ev *fill.Fill, d data.Reader) error {
	if ev == nil {
		return common.ErrNilEvent
	}
	if _, ok := p.applied[ev.GetID()]; ok {
		return fmt.Errorf("%w: %v", errFillAlreadyApplied, ev.GetID())
	}
	idx, err := p.index(ev.GetSymbol())
	if err != nil {
		return err
	}
	offset := ev.GetOffset()
	if err = p.checkOffset(offset); err != nil {
		return err
	}
	delete(p.pending, ev.GetOrderID())
	if ev.GetQuantity().IsZero() {
		return nil
	}

	sym := p.symbols[idx]
	series := p.holdings[idx]
	position := series.Position().Add(ev.SignedQuantity())
	p.cash = p.cash.Sub(ev.SignedCost()).Sub(ev.GetCommission())

	closePrice := ev.GetPrice()
	if h, errAt := series.At(offset); errAt == nil && h.Close.IsPositive() {
		closePrice = h.Close
	} else if d != nil {
		b, errLatest := d.Latest(sym)
		if errLatest == nil && b != nil && b.Close.IsPositive() {
			closePrice = b.Close
		}
	}
	err = series.Set(holdings.Create(offset, ev.GetTime(), sym, position, closePrice))
	if err != nil {
		return err
	}
	p.applied[ev.GetID()] = struct{}{}
	p.fillCount++
	if err = p.recordValue(offset, ev.GetTime()); err != nil {
		return err
	}
	log.Infof(log.Portfolio, "%v %s %s %v @ %v commission %v, position %v cash %v",
		ev.GetTime(), sym, ev.GetAction(), ev.GetQuantity(), ev.GetPrice(), ev.GetCommission(), position, p.cash)
	if p.cash.IsNegative() {
		log.Warnf(log.Portfolio, "%v cash balance is negative: %v", ev.GetTime(), p.cash)
	}
	return nil
}

// OnRejection releases the reservation of an order the exchange did not fill
func (p *Portfolio) OnRejection(o *order.Order, reason error) {
	if o == nil {
		return
	}
	delete(p.pending, o.GetID())
	p.rejections++
	log.Warnf(log.Portfolio, "%v %s %s order for %v rejected: %v", o.GetTime(), o.GetSymbol(), o.GetAction(), o.GetQuantity(), reason)
}

// EquityCurve derives the period returns of total value and their cumulative
// product. The first row has no return and an equity of 1
func (p *Portfolio) EquityCurve() []EquityPoint {
	resp := make([]EquityPoint, len(p.values))
	one := decimal.NewFromInt(1)
	for i := range p.values {
		resp[i] = EquityPoint{
			Offset: p.values[i].Offset,
			Time:   p.values[i].Time,
			Total:  p.values[i].Total,
			Equity: one,
		}
		if i == 0 {
			continue
		}
		resp[i].Equity = resp[i-1].Equity
		prev := p.values[i-1].Total
		if prev.IsZero() {
			continue
		}
		ret := p.values[i].Total.Div(prev).Sub(one)
		resp[i].Return = decimal.NullDecimal{Decimal: ret, Valid: true}
		resp[i].Equity = resp[i-1].Equity.Mul(one.Add(ret))
	}
	return resp
}

// Values returns a copy of every portfolio row in offset order
func (p *Portfolio) Values() []Value {
	resp := make([]Value, len(p.values))
	for i := range p.values {
		resp[i] = p.values[i]
		resp[i].SymbolValues = append([]decimal.Decimal(nil), p.values[i].SymbolValues...)
	}
	return resp
}

// Holdings returns a symbol's holding series
func (p *Portfolio) Holdings(symbol string) ([]holdings.Holding, error) {
	idx, err := p.index(symbol)
	if err != nil {
		return nil, err
	}
	return p.holdings[idx].All(), nil
}

// Symbols returns the symbols in the order SymbolValues are reported
func (p *Portfolio) Symbols() []string {
	return append([]string(nil), p.symbols...)
}

// Position returns the filled position of a symbol, zero when unknown
func (p *Portfolio) Position(symbol string) decimal.Decimal {
	idx, err := p.index(symbol)
	if err != nil {
		return decimal.Zero
	}
	return p.holdings[idx].Position()
}

// ProjectedPosition is the position once every pending order is filled
func (p *Portfolio) ProjectedPosition(symbol string) decimal.Decimal {
	pos := p.Position(symbol)
	symbol = strings.ToUpper(symbol)
	for _, po := range p.pending {
		if po.symbol != symbol {
			continue
		}
		if po.action == common.Sell {
			pos = pos.Sub(po.quantity)
		} else {
			pos = pos.Add(po.quantity)
		}
	}
	return pos
}

// Cash returns the cash balance
func (p *Portfolio) Cash() decimal.Decimal {
	return p.cash
}

// ProjectedCash is the cash balance once every pending order is filled at its
// estimated price
func (p *Portfolio) ProjectedCash() decimal.Decimal {
	c := p.cash
	for _, po := range p.pending {
		c = c.Add(po.cashDelta)
	}
	return c
}

// InitialCash returns the starting cash balance
func (p *Portfolio) InitialCash() decimal.Decimal {
	return p.initialCash
}

// TotalValue returns the latest total value, the initial cash before the
// first tick
func (p *Portfolio) TotalValue() decimal.Decimal {
	if len(p.values) == 0 {
		return p.cash
	}
	return p.values[len(p.values)-1].Total
}

// FillCount returns how many fills have been applied
func (p *Portfolio) FillCount() int {
	return p.fillCount
}

// RejectionCount returns how many orders the exchange rejected
func (p *Portfolio) RejectionCount() int {
	return p.rejections
}

// PendingOrders returns how many orders await a fill or rejection
func (p *Portfolio) PendingOrders() int {
	return len(p.pending)
}
