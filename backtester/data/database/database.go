package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/bar"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database/drivers/postgres"
	sqlite "github.com/jp-quant/AlgorithmicTrading-Academic-Project/database/drivers/sqlite3"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database/repository/candle"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// Connect opens the configured database and returns a connected instance
func Connect(cfg *database.Config) (*database.Instance, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config %w", common.ErrNilPointer)
	}
	db, err := database.NewInstance(cfg)
	if err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case database.DBSQLite3:
		con, err := sqlite.Connect(&cfg.ConnectionDetails)
		if err != nil {
			return nil, err
		}
		err = db.SetSQLiteConnection(con)
		if err != nil {
			return nil, err
		}
	case database.DBPostgreSQL:
		con, err := postgres.Connect(&cfg.ConnectionDetails)
		if err != nil {
			return nil, err
		}
		err = db.SetPostgresConnection(con)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w %q", database.ErrUnsupportedDriver, cfg.Driver)
	}
	log.Infof(log.Database, "connected to %s database %s", cfg.Driver, cfg.Database)
	return db, nil
}

// Load queries each symbol's candles and converts them to bars
func (l *Loader) Load(ctx context.Context) (map[string][]bar.Bar, error) {
	if l.Instance == nil && (l.Config == nil || !l.Config.Enabled) {
		return nil, errDatabaseNotEnabled
	}
	if l.Start.IsZero() || l.End.IsZero() {
		return nil, errNoDateRange
	}
	db := l.Instance
	if db == nil {
		var err error
		db, err = Connect(l.Config)
		if err != nil {
			return nil, err
		}
		defer func() {
			if errC := db.CloseConnection(); errC != nil {
				log.Errorln(log.Database, errC)
			}
		}()
	}

	symbols := l.Symbols
	if len(symbols) == 0 {
		var err error
		symbols, err = candle.Symbols(ctx, db)
		if err != nil {
			return nil, err
		}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if l.QueriesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(l.QueriesPerSecond), 1)
	}
	resp := make(map[string][]bar.Bar, len(symbols))
	for i := range symbols {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		symbol := strings.ToUpper(symbols[i])
		item, err := candle.Series(ctx, db, symbol, l.Start, l.End)
		if err != nil {
			return nil, err
		}
		resp[symbol] = toBars(symbol, item.Candles)
		log.Debugf(log.Data, "loaded %d bars for %s from database", len(item.Candles), symbol)
	}
	return resp, nil
}

func toBars(symbol string, candles []candle.Candle) []bar.Bar {
	resp := make([]bar.Bar, len(candles))
	for i := range candles {
		resp[i] = bar.Bar{
			Symbol:    symbol,
			Timestamp: candles[i].Timestamp,
			Open:      decimal.NewFromFloat(candles[i].Open),
			High:      decimal.NewFromFloat(candles[i].High),
			Low:       decimal.NewFromFloat(candles[i].Low),
			Close:     decimal.NewFromFloat(candles[i].Close),
			Volume:    decimal.NewFromFloat(candles[i].Volume),
		}
	}
	return resp
}
