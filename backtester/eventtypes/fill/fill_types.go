package fill

import (
	"github.com/gofrs/uuid"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/event"
	"github.com/shopspring/decimal"
)

// Fill is the realised result of executing an order
type Fill struct {
	event.Base
	ID                uuid.UUID        `json:"id"`
	OrderID           uuid.UUID        `json:"order-id"`
	Exchange          string           `json:"exchange"`
	Action            common.Action    `json:"action"`
	OrderType         common.OrderType `json:"order-type"`
	RequestedQuantity decimal.Decimal  `json:"requested-quantity"`
	Quantity          decimal.Decimal  `json:"quantity"`
	ClosePrice        decimal.Decimal  `json:"close-price"`
	Price             decimal.Decimal  `json:"price"`
	Slippage          decimal.Decimal  `json:"slippage"`
	Commission        decimal.Decimal  `json:"commission"`
}
