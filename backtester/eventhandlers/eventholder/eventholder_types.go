package eventholder

import (
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
)

// Holder contains the event queue for backtester processing. Events are
// drained breadth-first by causal generation: anything appended while a
// generation is being processed waits until that generation is empty
type Holder struct {
	current    []common.Event
	next       []common.Event
	generation int
}

// EventHolder interface details what is expected of an event holder to perform
type EventHolder interface {
	Reset()
	AppendEvent(common.Event)
	NextEvent() common.Event
	Len() int
	Generation() int
}
