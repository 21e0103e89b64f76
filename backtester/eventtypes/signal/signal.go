package signal

import (
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/shopspring/decimal"
)

// Kind returns the event variant
func (s *Signal) Kind() common.EventKind {
	return common.SignalEvent
}

// GetAction returns the intent of the signal
func (s *Signal) GetAction() common.Action {
	return s.Action
}

// SetAction sets the intent of the signal
func (s *Signal) SetAction(a common.Action) {
	s.Action = a
}

// GetQuantity returns the requested quantity
func (s *Signal) GetQuantity() decimal.Decimal {
	return s.Quantity
}

// SetQuantity sets the requested quantity
func (s *Signal) SetQuantity(q decimal.Decimal) {
	s.Quantity = q
}

// GetOrderType returns the order type, defaulting to a market order
func (s *Signal) GetOrderType() common.OrderType {
	if s.OrderType == "" {
		return common.Market
	}
	return s.OrderType
}

// GetClosePrice returns the close of the bar the signal was raised on
func (s *Signal) GetClosePrice() decimal.Decimal {
	return s.ClosePrice
}

// IsActionable returns whether the signal asks for a trade
func (s *Signal) IsActionable() bool {
	switch s.Action {
	case common.Buy, common.Sell, common.Long, common.Short, common.Exit:
		return true
	}
	return false
}
