package order

import (
	"github.com/gofrs/uuid"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/event"
	"github.com/shopspring/decimal"
)

// Order is a concrete instruction to trade, always a BUY or SELL
type Order struct {
	event.Base
	ID         uuid.UUID
	Action     common.Action
	OrderType  common.OrderType
	Quantity   decimal.Decimal
	LimitPrice decimal.Decimal
	StopPrice  decimal.Decimal
	// ClosePrice is the reference price used when the order was sized
	ClosePrice decimal.Decimal
}
