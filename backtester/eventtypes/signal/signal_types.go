package signal

import (
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/event"
	"github.com/shopspring/decimal"
)

// Signal is a strategy's trading intent for one symbol. A zero Quantity with
// a non-zero Strength lets the portfolio size the order itself
type Signal struct {
	event.Base
	Action     common.Action
	Quantity   decimal.Decimal
	Strength   decimal.Decimal
	OrderType  common.OrderType
	LimitPrice decimal.Decimal
	StopPrice  decimal.Decimal
	// ClosePrice is the close of the bar the strategy acted on
	ClosePrice decimal.Decimal
}
