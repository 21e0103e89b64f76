package market

import (
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/event"
)

// Market announces that the data source advanced one global tick. It is not
// specific to a symbol; consumers read the tick's bars from the data source
type Market struct {
	event.Base
}

// Kind returns the event variant
func (m *Market) Kind() common.EventKind {
	return common.MarketEvent
}
