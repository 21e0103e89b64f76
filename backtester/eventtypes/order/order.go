package order

import (
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/shopspring/decimal"
)

// Kind returns the event variant
func (o *Order) Kind() common.EventKind {
	return common.OrderEvent
}

// GetID returns the order ID
func (o *Order) GetID() uuid.UUID {
	return o.ID
}

// GetAction returns the side of the order
func (o *Order) GetAction() common.Action {
	return o.Action
}

// GetQuantity returns the quantity to trade
func (o *Order) GetQuantity() decimal.Decimal {
	return o.Quantity
}

// GetOrderType returns the order type
func (o *Order) GetOrderType() common.OrderType {
	return o.OrderType
}

// Validate ensures the order can be sent for execution
func (o *Order) Validate() error {
	if o == nil {
		return common.ErrNilEvent
	}
	if o.Action != common.Buy && o.Action != common.Sell {
		return fmt.Errorf("%w %q for order", common.ErrInvalidAction, o.Action)
	}
	if !o.OrderType.Valid() {
		return fmt.Errorf("%w %q", common.ErrInvalidOrderType, o.OrderType)
	}
	if !o.Quantity.IsPositive() {
		return common.ErrZeroQuantity
	}
	return nil
}
