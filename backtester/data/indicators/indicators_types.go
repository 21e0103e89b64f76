package indicators

import "errors"

// Supported indicator kinds
const (
	SMA = "sma"
	EMA = "ema"
	RSI = "rsi"
)

var (
	errUnsupportedKind   = errors.New("unsupported indicator kind")
	errInvalidPeriod     = errors.New("indicator period must be greater than zero")
	errEmptyColumn       = errors.New("indicator column name cannot be empty")
	errDuplicateColumn   = errors.New("indicator column already defined")
	errReservedColumn    = errors.New("indicator column name is reserved")
	errUnknownSourceData = errors.New("indicator source column not found")
)

// Spec describes a derived column computed once when data is prepared
type Spec struct {
	Column string `json:"column"`
	Kind   string `json:"kind"`
	Period int    `json:"period"`
	Source string `json:"source,omitempty"`
}
