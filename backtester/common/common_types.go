package common

import (
	"errors"
	"time"
)

// Action is the side or intent carried by signals, orders and fills
type Action string

// Signal intents, order sides and outcome markers
const (
	// Buy increases a position
	Buy Action = "BUY"
	// Sell decreases a position
	Sell Action = "SELL"
	// Long asks the portfolio to open or add to a long position
	Long Action = "LONG"
	// Short asks the portfolio to open or add to a short position
	Short Action = "SHORT"
	// Exit asks the portfolio to flatten whatever position it holds
	Exit Action = "EXIT"
	// DoNothing is an explicit signal for the backtester to not perform an action
	// based upon indicator results
	DoNothing Action = "DO NOTHING"
	// CouldNotBuy is flagged when a buy intent is raised in the strategy/signal phase, but the
	// portfolio manager or exchange cannot place an order
	CouldNotBuy Action = "COULD NOT BUY"
	// CouldNotSell is flagged when a sell intent is raised in the strategy/signal phase, but the
	// portfolio manager or exchange cannot place an order
	CouldNotSell Action = "COULD NOT SELL"
	// MissingData is signalled during the strategy/signal phase when data has been identified as missing
	MissingData Action = "MISSING DATA"
)

// OrderType defines how an order is priced at execution
type OrderType string

// Supported order types
const (
	Market    OrderType = "MARKET"
	Limit     OrderType = "LIMIT"
	Stop      OrderType = "STOP"
	StopLimit OrderType = "STOP_LIMIT"
)

// EventKind identifies the variant of an event
type EventKind uint8

// The four event variants processed by the dispatch loop
const (
	MarketEvent EventKind = iota + 1
	SignalEvent
	OrderEvent
	FillEvent
)

var (
	// ErrNilArguments is a common error response to highlight that nils were passed in
	// when they should not have been
	ErrNilArguments = errors.New("received nil argument(s)")
	// ErrNilEvent is a common error for whenever a nil event occurs when it shouldn't have
	ErrNilEvent = errors.New("nil event received")
	// ErrInvalidAction is returned when an action is not valid for the operation
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvalidOrderType is returned for unknown order types
	ErrInvalidOrderType = errors.New("invalid order type")
	// ErrZeroQuantity is returned when a quantity must be positive
	ErrZeroQuantity = errors.New("quantity must be greater than zero")
)

// Event is implemented by every event flowing through the event queue. Every
// event carries the offset and time of the tick that triggered it
type Event interface {
	Kind() EventKind
	GetOffset() int64
	GetTime() time.Time
	GetReason() string
	AppendReason(string)
}

// SymbolEvent is an event about a single symbol
type SymbolEvent interface {
	Event
	GetSymbol() string
}
