package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/data"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/eventholder"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/exchange"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/portfolio/risk"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/statistics"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/fill"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/market"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/order"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/signal"
	gctcommon "github.com/jp-quant/AlgorithmicTrading-Academic-Project/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
)

// New returns a BackTest wired to the supplied components
func New(d DataHandler, s strategies.Handler, p PortfolioHandler, e exchange.ExecutionHandler, st statistics.Handler) (*BackTest, error) {
	if d == nil || s == nil || p == nil || e == nil || st == nil {
		return nil, fmt.Errorf("%w backtest component", gctcommon.ErrNilPointer)
	}
	return &BackTest{
		shutdown:   make(chan struct{}),
		Data:       d,
		Strategy:   s,
		Portfolio:  p,
		Exchange:   e,
		Statistic:  st,
		EventQueue: &eventholder.Holder{},
	}, nil
}

// StopAt ends the replay after the last tick at or before t
func (bt *BackTest) StopAt(t time.Time) {
	bt.Data.StopAt(t)
}

// Stop shuts down the run loop before the next tick
func (bt *BackTest) Stop() {
	bt.m.Lock()
	defer bt.m.Unlock()
	select {
	case <-bt.shutdown:
	default:
		close(bt.shutdown)
	}
}

// Run advances the data source one tick at a time and drains every event
// caused by that tick before advancing again. It returns nil when the data
// is exhausted. Component errors are logged and the run continues; only an
// event the loop cannot dispatch stops it
func (bt *BackTest) Run(ctx context.Context) error {
	bt.m.Lock()
	if bt.hasRan {
		bt.m.Unlock()
		return errAlreadyRan
	}
	bt.hasRan = true
	bt.m.Unlock()

	log.Info(log.BackTester, "running backtester against pre-defined data")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-bt.shutdown:
			log.Info(log.BackTester, "backtester stopped")
			return nil
		default:
		}
		ev, err := bt.Data.Next()
		if err != nil {
			if errors.Is(err, data.ErrDataExhausted) {
				log.Infof(log.BackTester, "backtester finished after %d ticks", bt.Data.Offset())
				return nil
			}
			return err
		}
		bt.EventQueue.AppendEvent(ev)
		for e := bt.EventQueue.NextEvent(); e != nil; e = bt.EventQueue.NextEvent() {
			if err = bt.handleEvent(e); err != nil {
				return err
			}
		}
	}
}

// handleEvent is the main processor of data for the backtester
func (bt *BackTest) handleEvent(e common.Event) error {
	if e == nil {
		return common.ErrNilEvent
	}
	switch ev := e.(type) {
	case *market.Market:
		bt.processMarketEvent(ev)
	case *signal.Signal:
		bt.processSignalEvent(ev)
	case *order.Order:
		bt.processOrderEvent(ev)
	case *fill.Fill:
		bt.processFillEvent(ev)
	default:
		return fmt.Errorf("%w %T received", errUnhandledEvent, e)
	}
	return nil
}

func (bt *BackTest) processMarketEvent(ev *market.Market) {
	if err := bt.Portfolio.OnMarket(ev, bt.Data); err != nil {
		log.Errorf(log.BackTester, "portfolio OnMarket %v", err)
	}
	signals, err := bt.Strategy.OnMarket(ev, bt.Data, bt.Portfolio)
	if err != nil {
		log.Errorf(log.BackTester, "strategy %v OnMarket %v", bt.Strategy.Name(), err)
		return
	}
	for i := range signals {
		if signals[i] == nil {
			continue
		}
		bt.EventQueue.AppendEvent(signals[i])
	}
}

func (bt *BackTest) processSignalEvent(ev *signal.Signal) {
	o, err := bt.Portfolio.OnSignal(ev, bt.Data)
	if err != nil {
		switch {
		case errors.Is(err, risk.ErrInsufficientCash),
			errors.Is(err, risk.ErrShortSellingDisallowed),
			errors.Is(err, common.ErrZeroQuantity):
			log.Warnf(log.BackTester, "%v %v %v signal not actioned: %v", ev.GetTime(), ev.GetSymbol(), ev.GetAction(), err)
		default:
			log.Errorf(log.BackTester, "portfolio OnSignal %v", err)
		}
		return
	}
	if o != nil {
		bt.EventQueue.AppendEvent(o)
	}
}

func (bt *BackTest) processOrderEvent(ev *order.Order) {
	f, err := bt.Exchange.ExecuteOrder(ev, bt.Data)
	if err != nil {
		if !errors.Is(err, exchange.ErrOrderRejected) {
			log.Errorf(log.BackTester, "exchange ExecuteOrder %v", err)
		}
		bt.Portfolio.OnRejection(ev, err)
		if errS := bt.Statistic.AddRejection(ev, err); errS != nil {
			log.Errorf(log.BackTester, "statistics AddRejection %v", errS)
		}
		return
	}
	bt.EventQueue.AppendEvent(f)
}

func (bt *BackTest) processFillEvent(ev *fill.Fill) {
	if err := bt.Portfolio.OnFill(ev, bt.Data); err != nil {
		log.Errorf(log.BackTester, "portfolio OnFill %v", err)
		return
	}
	if err := bt.Statistic.AddFill(ev); err != nil {
		log.Errorf(log.BackTester, "statistics AddFill %v", err)
	}
}

// ExecuteStrategy runs the backtest then calculates, prints and optionally
// saves its statistics
func (bt *BackTest) ExecuteStrategy(ctx context.Context) error {
	if err := bt.Run(ctx); err != nil {
		return err
	}
	if err := bt.Statistic.CalculateAllResults(bt.Portfolio); err != nil {
		return err
	}
	bt.Statistic.PrintTotalResults()
	if bt.reportPath == "" {
		return nil
	}
	return bt.Statistic.WriteReport(bt.reportPath)
}
