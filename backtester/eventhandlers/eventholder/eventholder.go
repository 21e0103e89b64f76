package eventholder

import "github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"

// Reset returns the struct to defaults
func (h *Holder) Reset() {
	h.current = h.current[:0]
	h.next = h.next[:0]
	h.generation = 0
}

// AppendEvent adds an event to the next generation of the queue
func (h *Holder) AppendEvent(e common.Event) {
	if e == nil {
		return
	}
	h.next = append(h.next, e)
}

// NextEvent removes the first event of the current generation and returns it.
// When the current generation is empty the next one is promoted. Returns nil
// when both are empty
func (h *Holder) NextEvent() common.Event {
	if len(h.current) == 0 {
		if len(h.next) == 0 {
			return nil
		}
		h.current, h.next = h.next, h.current[:0]
		h.generation++
	}
	e := h.current[0]
	h.current[0] = nil
	h.current = h.current[1:]
	return e
}

// Len returns the number of queued events across both generations
func (h *Holder) Len() int {
	return len(h.current) + len(h.next)
}

// Generation returns how many generations have been promoted since the last reset
func (h *Holder) Generation() int {
	return h.generation
}
