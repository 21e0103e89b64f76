package event

import "time"

// Base is the underlying event across all event types. Causally derived
// events copy the Base of the event that produced them
type Base struct {
	Offset  int64     `json:"offset"`
	Time    time.Time `json:"timestamp"`
	Symbol  string    `json:"symbol,omitempty"`
	Reasons []string  `json:"reasons,omitempty"`
}
