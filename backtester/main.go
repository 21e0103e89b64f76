package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/config"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/engine"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/signaler"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "backtester"
	app.Usage = "event driven backtesting of trading strategies against historical bars"
	app.EnableBashCompletion = true
	app.Commands = []*cli.Command{
		runCommand,
		strategiesCommand,
		defaultConfigCommand,
		importCSVCommand,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-signaler.WaitForInterrupt()
		fmt.Println("backtester interrupted")
		cancel()
	}()

	err := app.RunContext(ctx, os.Args)
	cancel()
	if errC := log.CloseLogger(); errC != nil {
		fmt.Println(errC)
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "run a backtest described by a config file",
	ArgsUsage: "<config>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:      "config",
			Aliases:   []string{"c"},
			Usage:     "path to a json or yaml config file",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  "logfile",
			Usage: "write log output to this file as well as the console",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "overrides the config's report path",
		},
		&cli.BoolFlag{
			Name:  "printconfig",
			Usage: "print the loaded settings before running",
		},
	},
	Action: runBacktest,
}

func runBacktest(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		path = c.Args().First()
	}
	if path == "" {
		return cli.ShowSubcommandHelp(c)
	}
	cfg, err := config.ReadConfigFromFile(path)
	if err != nil {
		return err
	}
	if err = setupLogger(cfg, c.String("logfile")); err != nil {
		return err
	}
	if c.IsSet("report") {
		cfg.Output.ReportPath = c.String("report")
	}
	if c.Bool("printconfig") {
		cfg.PrintSetting()
	}
	bt, err := engine.NewFromConfig(c.Context, cfg)
	if err != nil {
		return err
	}
	return bt.ExecuteStrategy(c.Context)
}

func setupLogger(cfg *config.Config, logFile string) error {
	lc := cfg.LoggerConfig()
	if logFile != "" {
		if err := log.SetFileOutput(logFile); err != nil {
			return err
		}
		lc.Output = "console|file"
	}
	return log.SetupGlobalLogger(lc)
}

var defaultConfigCommand = &cli.Command{
	Name:  "defaultconfig",
	Usage: "write a buy and hold config to get started with",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "output",
			Value: "config.yaml",
			Usage: "where to write the config, the extension selects json or yaml",
		},
		&cli.StringFlag{
			Name:  "datadir",
			Value: "data",
			Usage: "directory holding one csv file per symbol",
		},
	},
	Action: func(c *cli.Context) error {
		dir, err := filepath.Abs(c.String("datadir"))
		if err != nil {
			return err
		}
		cfg := config.GenerateDefaultConfig(dir)
		if err = cfg.WriteToFile(c.String("output")); err != nil {
			return err
		}
		fmt.Printf("config written to %s\n", c.String("output"))
		return nil
	},
}

var strategiesCommand = &cli.Command{
	Name:  "strategies",
	Usage: "list the strategies available to configs",
	Action: func(_ *cli.Context) error {
		for _, s := range strategiesList() {
			fmt.Printf("%-12s %s\n", s[0], s[1])
		}
		return nil
	},
}

// normaliseSymbol derives a symbol from a csv file name when none is given
func normaliseSymbol(symbol, file string) string {
	if symbol != "" {
		return strings.ToUpper(symbol)
	}
	return strings.ToUpper(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
}
