package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/indicators"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/exchange"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/portfolio/risk"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/statistics"
	gctcommon "github.com/jp-quant/AlgorithmicTrading-Academic-Project/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var oneHundred = decimal.NewFromInt(100)

// ReadConfigFromFile will take a config from a path. Files ending in .yaml or
// .yml are parsed as YAML, everything else as JSON
func ReadConfigFromFile(path string) (*Config, error) {
	fileData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w %v", errFileNotFound, path)
		}
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAMLConfig(fileData)
	case ".json", "":
		return LoadConfig(fileData)
	default:
		return nil, fmt.Errorf("%w %v", errUnsupportedFileFormat, path)
	}
}

// LoadConfig unmarshalls byte data into a config struct
func LoadConfig(data []byte) (resp *Config, err error) {
	err = json.Unmarshal(data, &resp)
	return resp, err
}

// LoadYAMLConfig converts YAML into the JSON shape of a config so that
// decimals and times decode the same way for both formats
func LoadYAMLConfig(data []byte) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	j, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return LoadConfig(j)
}

// WriteToFile saves the config as YAML or JSON depending on the extension
func (c *Config) WriteToFile(path string) error {
	data, err := c.Marshal(filepath.Ext(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Marshal renders the config as indented JSON or, for a .yaml/.yml
// extension, YAML
func (c *Config) Marshal(ext string) ([]byte, error) {
	j, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var raw any
		if err = json.Unmarshal(j, &raw); err != nil {
			return nil, err
		}
		return yaml.Marshal(raw)
	}
	return j, nil
}

// Validate checks all config settings, returning every problem found
func (c *Config) Validate() error {
	var err error
	err = gctcommon.AppendError(err, c.validateStrategySettings())
	err = gctcommon.AppendError(err, c.validateDataSettings())
	err = gctcommon.AppendError(err, c.validatePortfolioSettings())
	err = gctcommon.AppendError(err, c.validateExchangeSettings())
	if c.StatisticSettings.PeriodsPerYear.IsNegative() {
		err = gctcommon.AppendError(err, errBadPeriodsPerYear)
	}
	return err
}

func (c *Config) validateStrategySettings() error {
	if strings.TrimSpace(c.StrategySettings.Name) == "" {
		return errNoStrategy
	}
	_, err := strategies.LoadStrategyByName(c.StrategySettings.Name)
	return err
}

func (c *Config) validateDataSettings() error {
	var err error
	d := &c.DataSettings
	if len(d.Symbols) == 0 {
		err = gctcommon.AppendError(err, errNoSymbols)
	}
	if !d.StartDate.IsZero() && !d.EndDate.IsZero() {
		err = gctcommon.AppendError(err, gctcommon.StartEndTimeCheck(d.StartDate, d.EndDate))
	}
	if !d.StopAt.IsZero() &&
		((!d.StartDate.IsZero() && d.StopAt.Before(d.StartDate)) ||
			(!d.EndDate.IsZero() && d.StopAt.After(d.EndDate))) {
		err = gctcommon.AppendError(err, fmt.Errorf("%w, received %v", errStopAtOutOfRange, d.StopAt))
	}
	useDatabase := d.Database != nil && d.Database.Enabled
	switch {
	case d.CSVDirectory != "" && useDatabase:
		err = gctcommon.AppendError(err, errMultipleDataSources)
	case d.CSVDirectory == "" && !useDatabase:
		err = gctcommon.AppendError(err, errNoDataSource)
	}
	if useDatabase {
		if d.StartDate.IsZero() || d.EndDate.IsZero() {
			err = gctcommon.AppendError(err, fmt.Errorf("database start and end %w", gctcommon.ErrDateUnset))
		}
		if d.Database.Driver != database.DBSQLite3 && d.Database.Driver != database.DBPostgreSQL {
			err = gctcommon.AppendError(err, fmt.Errorf("%w %q", database.ErrUnsupportedDriver, d.Database.Driver))
		}
		if d.Database.QueriesPerSecond < 0 {
			err = gctcommon.AppendError(err, errBadQueriesPerSecond)
		}
	}
	return gctcommon.AppendError(err, indicators.ValidateSpecs(d.Indicators))
}

func (c *Config) validatePortfolioSettings() error {
	var err error
	if !c.PortfolioSettings.InitialCash.IsPositive() {
		err = gctcommon.AppendError(err, fmt.Errorf("%w, received %v", errBadInitialCash, c.PortfolioSettings.InitialCash))
	}
	if _, errP := risk.ParseCashPolicy(c.PortfolioSettings.CashPolicy); errP != nil {
		err = gctcommon.AppendError(err, errP)
	}
	return err
}

func (c *Config) validateExchangeSettings() error {
	var err error
	e := &c.ExchangeSettings
	switch strings.ToLower(e.Broker) {
	case "", exchange.BasicBroker, exchange.SlippageBroker:
	default:
		err = gctcommon.AppendError(err, fmt.Errorf("%w %q", errUnknownBroker, e.Broker))
	}
	if e.Commission.IsNegative() {
		err = gctcommon.AppendError(err, errNegativeCommission)
	}
	if e.MinimumSlippagePercent.IsNegative() ||
		e.MaximumSlippagePercent.GreaterThan(oneHundred) ||
		e.MinimumSlippagePercent.GreaterThan(e.MaximumSlippagePercent) {
		err = gctcommon.AppendError(err, errBadSlippageRates)
	}
	if e.MaximumVolumePercent.IsNegative() || e.MaximumVolumePercent.GreaterThan(oneHundred) {
		err = gctcommon.AppendError(err, errBadVolumePercent)
	}
	return err
}

// DatabaseConfig returns the connection settings for the candle store
func (d *DatabaseData) DatabaseConfig() *database.Config {
	if d == nil {
		return nil
	}
	return &database.Config{
		Enabled:           d.Enabled,
		Verbose:           d.Verbose,
		Driver:            d.Driver,
		ConnectionDetails: d.ConnectionDetails,
	}
}

// LoggerConfig returns logger settings for the configured log level. An
// empty level keeps the logger defaults
func (c *Config) LoggerConfig() *log.Config {
	cfg := log.GenDefaultSettings()
	if c.Output.LogLevel != "" {
		cfg.Level = c.Output.LogLevel
	}
	return &cfg
}

// GenerateDefaultConfig returns a buy and hold config that reads daily bars
// from csv files in the supplied directory
func GenerateDefaultConfig(csvDirectory string) *Config {
	return &Config{
		Nickname: "buy and hold",
		Goal:     "Buy an equal share of every symbol on its first bar and hold it",
		StrategySettings: StrategySettings{
			Name: "buyandhold",
		},
		DataSettings: DataSettings{
			Symbols:      []string{"AAPL", "MSFT"},
			StartDate:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:      time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			CSVDirectory: csvDirectory,
		},
		PortfolioSettings: PortfolioSettings{
			InitialCash: decimal.NewFromInt(100000),
			CashPolicy:  string(risk.Reject),
		},
		ExchangeSettings: ExchangeSettings{
			Name:   "simulated",
			Broker: exchange.BasicBroker,
		},
		StatisticSettings: StatisticSettings{
			PeriodsPerYear: decimal.NewFromInt(statistics.DefaultPeriodsPerYear),
		},
		Output: Output{
			LogLevel: "INFO|WARN|ERROR",
		},
	}
}

// PrintSetting prints relevant settings to the console for easy reading
func (c *Config) PrintSetting() {
	log.Info(log.ConfigMgr, "------------------Backtester Settings------------------------")
	log.Infof(log.ConfigMgr, "Nickname: %v", c.Nickname)
	log.Infof(log.ConfigMgr, "Goal: %v", c.Goal)
	log.Info(log.ConfigMgr, "------------------Strategy Settings--------------------------")
	log.Infof(log.ConfigMgr, "Strategy: %s", c.StrategySettings.Name)
	if len(c.StrategySettings.CustomSettings) > 0 {
		log.Info(log.ConfigMgr, "Custom strategy variables:")
		for k, v := range c.StrategySettings.CustomSettings {
			log.Infof(log.ConfigMgr, "%s: %v", k, v)
		}
	} else {
		log.Info(log.ConfigMgr, "Custom strategy variables: unset")
	}
	log.Info(log.ConfigMgr, "------------------Data Settings------------------------------")
	log.Infof(log.ConfigMgr, "Symbols: %v", strings.Join(c.DataSettings.Symbols, ", "))
	if !c.DataSettings.StartDate.IsZero() {
		log.Infof(log.ConfigMgr, "Start date: %v", c.DataSettings.StartDate.Format(gctcommon.SimpleTimeFormat))
	}
	if !c.DataSettings.EndDate.IsZero() {
		log.Infof(log.ConfigMgr, "End date: %v", c.DataSettings.EndDate.Format(gctcommon.SimpleTimeFormat))
	}
	if !c.DataSettings.StopAt.IsZero() {
		log.Infof(log.ConfigMgr, "Stop at: %v", c.DataSettings.StopAt.Format(gctcommon.SimpleTimeFormat))
	}
	if c.DataSettings.CSVDirectory != "" {
		log.Infof(log.ConfigMgr, "CSV directory: %v", c.DataSettings.CSVDirectory)
	}
	if c.DataSettings.Database != nil && c.DataSettings.Database.Enabled {
		log.Infof(log.ConfigMgr, "Database driver: %v", c.DataSettings.Database.Driver)
		log.Infof(log.ConfigMgr, "Database: %v", c.DataSettings.Database.ConnectionDetails.Database)
	}
	for i := range c.DataSettings.Indicators {
		log.Infof(log.ConfigMgr, "Indicator: %+v", c.DataSettings.Indicators[i])
	}
	log.Info(log.ConfigMgr, "------------------Portfolio Settings-------------------------")
	log.Infof(log.ConfigMgr, "Initial cash: %v", c.PortfolioSettings.InitialCash)
	log.Infof(log.ConfigMgr, "Cash policy: %v", c.PortfolioSettings.CashPolicy)
	log.Infof(log.ConfigMgr, "Allow short: %v", c.PortfolioSettings.AllowShort)
	log.Info(log.ConfigMgr, "------------------Exchange Settings--------------------------")
	log.Infof(log.ConfigMgr, "Broker: %v", c.ExchangeSettings.Broker)
	log.Infof(log.ConfigMgr, "Commission: %v", c.ExchangeSettings.Commission)
	log.Infof(log.ConfigMgr, "Minimum slippage percent: %v", c.ExchangeSettings.MinimumSlippagePercent)
	log.Infof(log.ConfigMgr, "Maximum slippage percent: %v", c.ExchangeSettings.MaximumSlippagePercent)
	log.Infof(log.ConfigMgr, "Maximum volume percent: %v", c.ExchangeSettings.MaximumVolumePercent)
}
