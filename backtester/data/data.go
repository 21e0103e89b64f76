package data

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/bar"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/event"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/market"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
)

// NewSource validates, sorts and aligns the supplied bars onto the union of
// their timestamps. Malformed bars are dropped and the tick they would have
// occupied is forward-filled from the symbol's previous valid bar
func NewSource(series map[string][]bar.Bar) (*Source, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}
	s := &Source{
		symbolIndex: make(map[string]int, len(series)),
	}
	for symbol := range series {
		upper := strings.ToUpper(symbol)
		if _, ok := s.symbolIndex[upper]; ok {
			return nil, fmt.Errorf("%w: %s", errDuplicateSymbol, upper)
		}
		s.symbolIndex[upper] = -1
		s.symbols = append(s.symbols, upper)
	}
	sort.Strings(s.symbols)
	for x := range s.symbols {
		s.symbolIndex[s.symbols[x]] = x
	}

	clean := make([][]bar.Bar, len(s.symbols))
	seen := make(map[int64]time.Time)
	for symbol, bars := range series {
		idx := s.symbolIndex[strings.ToUpper(symbol)]
		clean[idx] = Sanitise(s.symbols[idx], bars)
		for i := range clean[idx] {
			seen[clean[idx][i].Timestamp.UnixNano()] = clean[idx][i].Timestamp
		}
	}
	if len(seen) == 0 {
		return nil, ErrNoData
	}
	s.timeline = make([]time.Time, 0, len(seen))
	for _, t := range seen {
		s.timeline = append(s.timeline, t)
	}
	sort.Slice(s.timeline, func(i, j int) bool {
		return s.timeline[i].Before(s.timeline[j])
	})

	s.bars = make([][]*bar.Bar, len(s.symbols))
	s.filled = make([][]bool, len(s.symbols))
	for x := range clean {
		s.bars[x] = make([]*bar.Bar, len(s.timeline))
		s.filled[x] = make([]bool, len(s.timeline))
		var last *bar.Bar
		next := 0
		for i := range s.timeline {
			if next < len(clean[x]) && clean[x][next].Timestamp.Equal(s.timeline[i]) {
				last = &clean[x][next]
				next++
			} else if last != nil {
				s.filled[x][i] = true
			}
			s.bars[x][i] = last
		}
	}
	return s, nil
}

// Sanitise returns the symbol's valid bars in timestamp order, normalised to
// UTC with duplicates removed
func Sanitise(symbol string, bars []bar.Bar) []bar.Bar {
	resp := make([]bar.Bar, 0, len(bars))
	for i := range bars {
		b := bars[i]
		b.Symbol = symbol
		b.Timestamp = b.Timestamp.UTC()
		if err := b.Validate(); err != nil {
			log.Warnf(log.Data, "dropping bar: %v", err)
			continue
		}
		resp = append(resp, b)
	}
	sort.SliceStable(resp, func(i, j int) bool {
		return resp[i].Timestamp.Before(resp[j].Timestamp)
	})
	deduped := resp[:0]
	for i := range resp {
		if len(deduped) > 0 && deduped[len(deduped)-1].Timestamp.Equal(resp[i].Timestamp) {
			log.Warnf(log.Data, "%s duplicate bar at %v, keeping first", symbol, resp[i].Timestamp)
			continue
		}
		deduped = append(deduped, resp[i])
	}
	return deduped
}

// StopAt sets a deterministic end to the replay: no tick after t is emitted
func (s *Source) StopAt(t time.Time) {
	s.stopAt = t.UTC()
}

// Continue returns whether another tick can be emitted
func (s *Source) Continue() bool {
	if s == nil || s.offset >= len(s.timeline) {
		return false
	}
	return s.stopAt.IsZero() || !s.timeline[s.offset].After(s.stopAt)
}

// Next advances the source one global tick across every symbol and returns
// the market event announcing it
func (s *Source) Next() (*market.Market, error) {
	if !s.Continue() {
		return nil, ErrDataExhausted
	}
	ev := &market.Market{
		Base: event.Base{
			Offset: int64(s.offset) + 1,
			Time:   s.timeline[s.offset],
		},
	}
	for x := range s.symbols {
		if s.filled[x][s.offset] {
			log.Debugf(log.Data, "%s forward-filled at %v", s.symbols[x], s.timeline[s.offset])
		}
	}
	s.offset++
	return ev, nil
}

// Reset rewinds the source to before the first tick
func (s *Source) Reset() {
	s.offset = 0
}

// Symbols returns the tracked symbols in sorted order
func (s *Source) Symbols() []string {
	resp := make([]string, len(s.symbols))
	copy(resp, s.symbols)
	return resp
}

// Offset returns the number of ticks emitted so far
func (s *Source) Offset() int64 {
	return int64(s.offset)
}

// Len returns the number of ticks on the timeline
func (s *Source) Len() int {
	return len(s.timeline)
}

// Time returns the timestamp of the latest emitted tick
func (s *Source) Time() time.Time {
	if s.offset == 0 {
		return time.Time{}
	}
	return s.timeline[s.offset-1]
}

// TimeAt returns the timestamp of a tick offset that has been emitted
func (s *Source) TimeAt(offset int64) (time.Time, error) {
	if offset < 1 || offset > int64(s.offset) {
		return time.Time{}, fmt.Errorf("%w: %d", errOffsetOutOfRange, offset)
	}
	return s.timeline[offset-1], nil
}

func (s *Source) index(symbol string) (int, error) {
	idx, ok := s.symbolIndex[strings.ToUpper(symbol)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}
	return idx, nil
}

// Latest returns a copy of the symbol's bar at the current tick, or nil when
// the symbol has not been observed yet. Changes to the copy, including its
// derived columns, do not reach the source
func (s *Source) Latest(symbol string) (*bar.Bar, error) {
	idx, err := s.index(symbol)
	if err != nil {
		return nil, err
	}
	if s.offset == 0 || s.bars[idx][s.offset-1] == nil {
		return nil, nil
	}
	b := s.bars[idx][s.offset-1].Clone()
	return &b, nil
}

// LatestBars returns copies of up to n of the symbol's most recent bars, most
// recent last. Forward-filled ticks repeat the bar they were filled from
func (s *Source) LatestBars(symbol string, n int) ([]bar.Bar, error) {
	idx, err := s.index(symbol)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, errInvalidLookback
	}
	start := s.offset - n
	if start < 0 {
		start = 0
	}
	resp := make([]bar.Bar, 0, s.offset-start)
	for i := start; i < s.offset; i++ {
		if s.bars[idx][i] == nil {
			continue
		}
		resp = append(resp, s.bars[idx][i].Clone())
	}
	return resp, nil
}

// IsForwardFilled returns whether the symbol's bar at the current tick was
// carried forward from an earlier tick
func (s *Source) IsForwardFilled(symbol string) (bool, error) {
	idx, err := s.index(symbol)
	if err != nil {
		return false, err
	}
	if s.offset == 0 {
		return false, nil
	}
	return s.filled[idx][s.offset-1], nil
}
