package main

import (
	"errors"
	"fmt"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/config"
	dbdata "github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data/database"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database/drivers"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/database/repository/candle"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
	"github.com/urfave/cli/v2"
)

var errNoCSVFiles = errors.New("no csv files supplied")

var importCSVCommand = &cli.Command{
	Name:      "importcsv",
	Usage:     "insert candle csv files into the database a config reads from",
	ArgsUsage: "<file> [file...]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:      "config",
			Aliases:   []string{"c"},
			Usage:     "config whose database settings are used",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  "driver",
			Value: database.DBSQLite3,
			Usage: "database driver when no config is supplied: sqlite3 or postgres",
		},
		&cli.StringFlag{
			Name:  "database",
			Value: "backtester.db",
			Usage: "database name or sqlite file when no config is supplied",
		},
		&cli.StringFlag{
			Name:  "symbol",
			Usage: "symbol of the supplied candles, defaults to each file name",
		},
	},
	Action: importCSV,
}

func importCSV(c *cli.Context) error {
	if c.NArg() == 0 {
		return errNoCSVFiles
	}
	dbCfg := &database.Config{
		Enabled: true,
		Driver:  c.String("driver"),
		ConnectionDetails: drivers.ConnectionDetails{
			Database: c.String("database"),
		},
	}
	if path := c.String("config"); path != "" {
		cfg, err := config.ReadConfigFromFile(path)
		if err != nil {
			return err
		}
		if cfg.DataSettings.Database == nil {
			return fmt.Errorf("%s has no database settings", path)
		}
		dbCfg = cfg.DataSettings.Database.DatabaseConfig()
	}
	db, err := dbdata.Connect(dbCfg)
	if err != nil {
		return err
	}
	defer func() {
		if errC := db.CloseConnection(); errC != nil {
			log.Errorln(log.Database, errC)
		}
	}()
	if err = candle.CreateTable(c.Context, db); err != nil {
		return err
	}
	for _, file := range c.Args().Slice() {
		symbol := normaliseSymbol(c.String("symbol"), file)
		inserted, err := candle.InsertFromCSV(c.Context, db, symbol, file)
		if err != nil {
			return err
		}
		log.Infof(log.Database, "inserted %d %s candles from %s", inserted, symbol, file)
	}
	return nil
}

// strategiesList returns the name and description of every registered strategy
func strategiesList() [][2]string {
	strats := strategies.GetStrategies()
	resp := make([][2]string, len(strats))
	for i := range strats {
		resp[i] = [2]string{strats[i].Name(), strats[i].Description()}
	}
	return resp
}
