package fill

import (
	"github.com/gofrs/uuid"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/shopspring/decimal"
)

// Kind returns the event variant
func (f *Fill) Kind() common.EventKind {
	return common.FillEvent
}

// GetID returns the fill ID
func (f *Fill) GetID() uuid.UUID {
	return f.ID
}

// GetOrderID returns the ID of the order that was filled
func (f *Fill) GetOrderID() uuid.UUID {
	return f.OrderID
}

// GetAction returns the side of the fill
func (f *Fill) GetAction() common.Action {
	return f.Action
}

// GetQuantity returns the filled quantity
func (f *Fill) GetQuantity() decimal.Decimal {
	return f.Quantity
}

// GetPrice returns the price the fill executed at
func (f *Fill) GetPrice() decimal.Decimal {
	return f.Price
}

// GetCommission returns the commission charged for the fill
func (f *Fill) GetCommission() decimal.Decimal {
	return f.Commission
}

// IsPartial returns whether less than the requested quantity was filled
func (f *Fill) IsPartial() bool {
	return f.Quantity.LessThan(f.RequestedQuantity)
}

// SignedQuantity is the change in position caused by the fill
func (f *Fill) SignedQuantity() decimal.Decimal {
	if f.Action == common.Sell {
		return f.Quantity.Neg()
	}
	return f.Quantity
}

// SignedCost is the cash consumed by the fill before commission. Buys cost a
// positive amount, sells a negative one
func (f *Fill) SignedCost() decimal.Decimal {
	return f.SignedQuantity().Mul(f.Price)
}
