package script

import (
	"errors"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/base"
)

const (
	// Name is the strategy name
	Name          = "script"
	scriptKey     = "script"
	scriptPathKey = "script-path"
	lookbackKey   = "lookback"
	timeoutKey    = "timeout"
	description   = `Runs a tengo script once per symbol per tick. The script reads closes, position, cash and symbol and sets signal to LONG, SHORT, EXIT or an empty string, optionally with a quantity`

	signalVar   = "signal"
	quantityVar = "quantity"
	closesVar   = "closes"
	positionVar = "position"
	cashVar     = "cash"
	symbolVar   = "symbol"
)

var (
	errNoScript            = errors.New("no script loaded, set the script or script-path custom setting")
	errUnknownScriptSignal = errors.New("script set an unrecognised signal")
	errBothScriptSources   = errors.New("only one of script and script-path may be set")
)

// Strategy is an implementation of the Handler interface whose trading rule
// is a compiled tengo script
type Strategy struct {
	base.Strategy
	source   []byte
	lookback int
	timeout  time.Duration
	compiled *tengo.Compiled
}
