package common

// String implements the stringer interface
func (k EventKind) String() string {
	switch k {
	case MarketEvent:
		return "MARKET"
	case SignalEvent:
		return "SIGNAL"
	case OrderEvent:
		return "ORDER"
	case FillEvent:
		return "FILL"
	}
	return "UNKNOWN"
}

// IsBuying returns whether the action adds to a position
func (a Action) IsBuying() bool {
	return a == Buy || a == Long
}

// IsSelling returns whether the action reduces a position
func (a Action) IsSelling() bool {
	return a == Sell || a == Short
}

// Valid returns whether the order type is supported
func (o OrderType) Valid() bool {
	switch o {
	case Market, Limit, Stop, StopLimit:
		return true
	}
	return false
}
