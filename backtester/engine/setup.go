package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/config"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/bar"
	csvdata "github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/csv"
	dbdata "github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/database"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/indicators"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/exchange"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/portfolio"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/statistics"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies"
	gctcommon "github.com/jp-quant/AlgorithmicTrading-Academic-Project/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
)

// NewFromConfig loads the configured bars, derives indicator columns and
// wires every component into a BackTest ready to run
func NewFromConfig(ctx context.Context, cfg *config.Config) (*BackTest, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w config", gctcommon.ErrNilPointer)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Infof(log.BackTester, "loading config %v", cfg.Nickname)

	strat, err := strategies.LoadStrategyByName(cfg.StrategySettings.Name)
	if err != nil {
		return nil, err
	}
	if len(cfg.StrategySettings.CustomSettings) > 0 {
		if err = strat.SetCustomSettings(cfg.StrategySettings.CustomSettings); err != nil {
			return nil, err
		}
	}

	series, err := loadData(ctx, cfg)
	if err != nil {
		return nil, err
	}
	for symbol := range series {
		series[symbol] = data.Sanitise(strings.ToUpper(symbol), series[symbol])
	}
	if err = indicators.Apply(series, cfg.DataSettings.Indicators); err != nil {
		return nil, err
	}
	src, err := data.NewSource(series)
	if err != nil {
		return nil, err
	}
	if !cfg.DataSettings.StopAt.IsZero() {
		src.StopAt(cfg.DataSettings.StopAt)
	}

	ex, err := exchange.New(&exchange.Settings{
		Name:                   cfg.ExchangeSettings.Name,
		Broker:                 strings.ToLower(cfg.ExchangeSettings.Broker),
		Commission:             cfg.ExchangeSettings.Commission,
		MinimumSlippagePercent: cfg.ExchangeSettings.MinimumSlippagePercent,
		MaximumSlippagePercent: cfg.ExchangeSettings.MaximumSlippagePercent,
		MaximumVolumePercent:   cfg.ExchangeSettings.MaximumVolumePercent,
		RandomSeed:             cfg.ExchangeSettings.RandomSeed,
	})
	if err != nil {
		return nil, err
	}
	p, err := portfolio.New(src.Symbols(), &portfolio.Settings{
		InitialCash: cfg.PortfolioSettings.InitialCash,
		CashPolicy:  cfg.PortfolioSettings.CashPolicy,
		AllowShort:  cfg.PortfolioSettings.AllowShort,
		Commission:  ex,
	})
	if err != nil {
		return nil, err
	}
	stats, err := statistics.New(cfg.Nickname, cfg.Goal, cfg.StatisticSettings.RiskFreeRate, cfg.StatisticSettings.PeriodsPerYear)
	if err != nil {
		return nil, err
	}
	stats.SetStrategyName(strat.Name(), strat.Description())

	bt, err := New(src, strat, p, ex, stats)
	if err != nil {
		return nil, err
	}
	bt.reportPath = cfg.Output.ReportPath
	return bt, nil
}

// loadData reads raw bars from whichever source the config enables
func loadData(ctx context.Context, cfg *config.Config) (map[string][]bar.Bar, error) {
	d := &cfg.DataSettings
	var loader data.Loader
	if d.Database != nil && d.Database.Enabled {
		loader = &dbdata.Loader{
			Config:           d.Database.DatabaseConfig(),
			Symbols:          d.Symbols,
			Start:            d.StartDate,
			End:              d.EndDate,
			QueriesPerSecond: d.Database.QueriesPerSecond,
		}
	} else {
		loader = &csvdata.Loader{
			Directory: d.CSVDirectory,
			Symbols:   d.Symbols,
			Start:     d.StartDate,
			End:       d.EndDate,
		}
	}
	series, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	for symbol := range series {
		if len(series[symbol]) == 0 {
			log.Warnf(log.Data, "%s has no bars in the requested range", symbol)
		}
	}
	return series, nil
}
