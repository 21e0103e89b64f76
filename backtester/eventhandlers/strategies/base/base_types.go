package base

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrCustomSettingsUnsupported used when custom settings are found in the start config when they shouldn't be
	ErrCustomSettingsUnsupported = errors.New("custom settings not supported")
	// ErrStrategyNotFound used when strategy specified in start config does not exist
	ErrStrategyNotFound = errors.New("not found. Please ensure the strategy-settings field 'name' is spelled properly in your config")
	// ErrInvalidCustomSettings used when bad custom settings are found in the start config
	ErrInvalidCustomSettings = errors.New("invalid custom settings in config")
)

// PortfolioReader is the read-only view of the portfolio a strategy may
// inspect. Strategies never change portfolio state
type PortfolioReader interface {
	Position(symbol string) decimal.Decimal
	ProjectedPosition(symbol string) decimal.Decimal
	Cash() decimal.Decimal
	ProjectedCash() decimal.Decimal
	TotalValue() decimal.Decimal
	InitialCash() decimal.Decimal
}

// Strategy is base implementation of the Handler interface
type Strategy struct{}
