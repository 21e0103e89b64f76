package config

import (
	"errors"
	"time"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/indicators"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database/drivers"
	"github.com/shopspring/decimal"
)

var (
	errFileNotFound          = errors.New("file not found")
	errNoStrategy            = errors.New("no strategy set")
	errNoSymbols             = errors.New("no symbols set")
	errNoDataSource          = errors.New("no data source set, provide a csv-directory or enable the database")
	errMultipleDataSources   = errors.New("only one of csv-directory and database may be set")
	errStopAtOutOfRange      = errors.New("stop-at must fall within the start and end dates")
	errBadInitialCash        = errors.New("initial cash must be greater than zero")
	errNegativeCommission    = errors.New("commission cannot be negative")
	errBadSlippageRates      = errors.New("slippage percentages must be between 0 and 100 with the minimum not above the maximum")
	errBadVolumePercent      = errors.New("maximum volume percent must be between 0 and 100")
	errUnknownBroker         = errors.New("unknown broker")
	errBadPeriodsPerYear     = errors.New("periods per year cannot be negative")
	errBadQueriesPerSecond   = errors.New("queries per second cannot be negative")
	errUnsupportedFileFormat = errors.New("unsupported config file format")
)

// Config defines what is in an individual strategy config
type Config struct {
	Nickname          string            `json:"nickname"`
	Goal              string            `json:"goal"`
	StrategySettings  StrategySettings  `json:"strategy-settings"`
	DataSettings      DataSettings      `json:"data-settings"`
	PortfolioSettings PortfolioSettings `json:"portfolio-settings"`
	ExchangeSettings  ExchangeSettings  `json:"exchange-settings"`
	StatisticSettings StatisticSettings `json:"statistic-settings"`
	Output            Output            `json:"output"`
}

// StrategySettings names the strategy to run and the custom settings passed
// to its SetCustomSettings
type StrategySettings struct {
	Name           string         `json:"name"`
	CustomSettings map[string]any `json:"custom-settings,omitempty"`
}

// DataSettings selects the bars to replay. Exactly one of CSVDirectory and
// an enabled Database must be set
type DataSettings struct {
	Symbols      []string          `json:"symbols"`
	StartDate    time.Time         `json:"start-date"`
	EndDate      time.Time         `json:"end-date"`
	StopAt       time.Time         `json:"stop-at"`
	CSVDirectory string            `json:"csv-directory,omitempty"`
	Database     *DatabaseData     `json:"database,omitempty"`
	Indicators   []indicators.Spec `json:"indicators,omitempty"`
}

// DatabaseData defines the database settings to use for the strategy
type DatabaseData struct {
	Enabled           bool                      `json:"enabled"`
	Verbose           bool                      `json:"verbose"`
	Driver            string                    `json:"driver"`
	ConnectionDetails drivers.ConnectionDetails `json:"connection-details"`
	QueriesPerSecond  float64                   `json:"queries-per-second"`
}

// PortfolioSettings holds the starting cash and the cash and short selling
// policies
type PortfolioSettings struct {
	InitialCash decimal.Decimal `json:"initial-cash"`
	CashPolicy  string          `json:"cash-policy"`
	AllowShort  bool            `json:"allow-short"`
}

// ExchangeSettings configures the simulated broker
type ExchangeSettings struct {
	Name                   string          `json:"name"`
	Broker                 string          `json:"broker"`
	Commission             decimal.Decimal `json:"commission"`
	MinimumSlippagePercent decimal.Decimal `json:"minimum-slippage-percent"`
	MaximumSlippagePercent decimal.Decimal `json:"maximum-slippage-percent"`
	MaximumVolumePercent   decimal.Decimal `json:"maximum-volume-percent"`
	RandomSeed             int64           `json:"random-seed"`
}

// StatisticSettings holds the inputs for annualised ratios
type StatisticSettings struct {
	RiskFreeRate   decimal.Decimal `json:"risk-free-rate"`
	PeriodsPerYear decimal.Decimal `json:"periods-per-year"`
}

// Output controls logging verbosity and where the JSON report is written
type Output struct {
	LogLevel   string `json:"log-level"`
	ReportPath string `json:"report-path,omitempty"`
}
