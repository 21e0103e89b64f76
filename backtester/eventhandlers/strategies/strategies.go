package strategies

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/allocation"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/base"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/buyandhold"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/macrossover"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/rsi"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventhandlers/strategies/script"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/common"
)

var (
	m                sync.Mutex
	customStrategies []func() Handler
)

// LoadStrategyByName returns a new instance of the named strategy with its
// default settings applied
func LoadStrategyByName(name string) (Handler, error) {
	strats := GetStrategies()
	for i := range strats {
		if !strings.EqualFold(name, strats[i].Name()) {
			continue
		}
		strats[i].SetDefaults()
		return strats[i], nil
	}
	return nil, fmt.Errorf("strategy '%v' %w", name, base.ErrStrategyNotFound)
}

// GetStrategies returns a fresh instance of every loaded strategy
func GetStrategies() []Handler {
	m.Lock()
	defer m.Unlock()
	strats := []Handler{
		new(buyandhold.Strategy),
		new(macrossover.Strategy),
		new(allocation.Strategy),
		new(rsi.Strategy),
		new(script.Strategy),
	}
	for i := range customStrategies {
		strats = append(strats, customStrategies[i]())
	}
	return strats
}

// AddStrategy will add a strategy to the list of strategies. The constructor
// is called each time the strategy is loaded so runs never share state
func AddStrategy(constructor func() Handler) error {
	if constructor == nil {
		return fmt.Errorf("%w strategy constructor", common.ErrNilPointer)
	}
	strat := constructor()
	if strat == nil {
		return fmt.Errorf("%w strategy", common.ErrNilPointer)
	}
	for _, s := range GetStrategies() {
		if strings.EqualFold(s.Name(), strat.Name()) {
			return fmt.Errorf("'%v' %w", strat.Name(), ErrStrategyAlreadyExists)
		}
	}
	m.Lock()
	defer m.Unlock()
	customStrategies = append(customStrategies, constructor)
	return nil
}
