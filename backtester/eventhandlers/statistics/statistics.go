package statistics

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/common"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/fill"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/backtester/eventtypes/order"
	gctcommon "github.com/jp-quant/AlgorithmicTrading-Academic-Project/common"
	gctmath "github.com/jp-quant/AlgorithmicTrading-Academic-Project/common/math"
	"github.com/jp-quant/AlgorithmicTrading-Academic-Project/log"
	"github.com/shopspring/decimal"
)

// New returns a Statistic ready to track a run. A zero periodsPerYear
// defaults to daily bars
func New(nickname, goal string, riskFreeRate, periodsPerYear decimal.Decimal) (*Statistic, error) {
	if periodsPerYear.IsZero() {
		periodsPerYear = decimal.NewFromInt(DefaultPeriodsPerYear)
	}
	if periodsPerYear.IsNegative() {
		return nil, fmt.Errorf("%w, received %v", errInvalidPeriods, periodsPerYear)
	}
	return &Statistic{
		StrategyNickname: nickname,
		StrategyGoal:     goal,
		RiskFreeRate:     riskFreeRate,
		PeriodsPerYear:   periodsPerYear,
	}, nil
}

// Reset returns the struct to defaults
func (s *Statistic) Reset() {
	*s = Statistic{}
}

// SetStrategyName sets the name for statistical identification
func (s *Statistic) SetStrategyName(name, description string) {
	s.StrategyName = name
	s.StrategyDescription = description
}

// AddFill records a completed fill
func (s *Statistic) AddFill(f *fill.Fill) error {
	if f == nil {
		return common.ErrNilEvent
	}
	s.TotalFills++
	switch f.GetAction() {
	case common.Buy:
		s.BuyFills++
	case common.Sell:
		s.SellFills++
	}
	if f.IsPartial() {
		s.PartialFills++
	}
	s.TotalCommission = s.TotalCommission.Add(f.GetCommission())
	s.Transactions = append(s.Transactions, ResultTransaction{
		Time:       f.GetTime(),
		Symbol:     f.GetSymbol(),
		Action:     f.GetAction(),
		Price:      f.GetPrice(),
		Quantity:   f.GetQuantity(),
		Commission: f.GetCommission(),
		Reason:     f.GetReason(),
	})
	return nil
}

// AddRejection records an order the exchange refused to fill
func (s *Statistic) AddRejection(o *order.Order, reason error) error {
	if o == nil {
		return common.ErrNilEvent
	}
	s.RejectedOrders++
	r := ResultRejection{
		Time:     o.GetTime(),
		Symbol:   o.GetSymbol(),
		Action:   o.GetAction(),
		Quantity: o.GetQuantity(),
	}
	if reason != nil {
		r.Reason = reason.Error()
	}
	s.Rejections = append(s.Rejections, r)
	return nil
}

// CalculateAllResults derives returns, ratios and drawdowns from the
// equity curve. The first point has no return and is excluded from ratios
func (s *Statistic) CalculateAllResults(ec EquityCurver) error {
	if ec == nil {
		return fmt.Errorf("%w equity curve", gctcommon.ErrNilPointer)
	}
	curve := ec.EquityCurve()
	if len(curve) == 0 {
		return errNoEquityCurve
	}
	if s.PeriodsPerYear.IsZero() {
		s.PeriodsPerYear = decimal.NewFromInt(DefaultPeriodsPerYear)
	}
	first, last := curve[0], curve[len(curve)-1]
	s.EquityCurve = curve
	s.StartDate = first.Time
	s.EndDate = last.Time
	s.InitialValue = first.Total
	s.FinalValue = last.Total
	s.TotalReturn = last.Equity.Sub(decimal.NewFromInt(1))

	periods := s.PeriodsPerYear.InexactFloat64()
	riskFreePerPeriod := s.RiskFreeRate.InexactFloat64() / periods
	returns := make([]float64, 0, len(curve))
	equity := make([]float64, len(curve))
	for i := range curve {
		equity[i] = curve[i].Equity.InexactFloat64()
		if curve[i].Return.Valid {
			returns = append(returns, curve[i].Return.Decimal.InexactFloat64())
		}
	}
	s.SharpeRatio = fromFloat(gctmath.CalculateSharpeRatio(returns, riskFreePerPeriod, periods))
	s.SortinoRatio = fromFloat(gctmath.CalculateSortinoRatio(returns, riskFreePerPeriod, periods))
	s.CompoundAnnualGrowthRate = fromFloat(gctmath.CalculateCompoundAnnualGrowthRate(
		equity[0], equity[len(equity)-1], periods, float64(len(equity)-1)))
	s.MaxDrawdown = s.calculateMaxDrawdown(equity)
	return nil
}

// calculateMaxDrawdown locates the deepest fall below the running high water
// mark of the equity curve
func (s *Statistic) calculateMaxDrawdown(equity []float64) Swing {
	drawdown, duration := gctmath.CalculateMaxDrawdown(equity)
	swing := Swing{
		Drawdown:         fromFloat(drawdown),
		IntervalDuration: int64(duration),
	}
	if drawdown <= 0 {
		return swing
	}
	highIndex := 0
	for i := range equity {
		if equity[i] >= equity[highIndex] {
			highIndex = i
			continue
		}
		if equity[highIndex]-equity[i] != drawdown {
			continue
		}
		swing.Highest = ValueAtTime{Time: s.EquityCurve[highIndex].Time, Value: s.EquityCurve[highIndex].Equity, Set: true}
		swing.Lowest = ValueAtTime{Time: s.EquityCurve[i].Time, Value: s.EquityCurve[i].Equity, Set: true}
		if equity[highIndex] > 0 {
			swing.DrawdownPercent = fromFloat(drawdown / equity[highIndex] * 100)
		}
		break
	}
	return swing
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// PrintTotalResults outputs all results to the CMD
func (s *Statistic) PrintTotalResults() {
	log.Info(log.Statistics, "------------------Strategy-----------------------------------")
	log.Infof(log.Statistics, "Strategy Name: %v", s.StrategyName)
	log.Infof(log.Statistics, "Strategy Nickname: %v", s.StrategyNickname)
	log.Infof(log.Statistics, "Strategy Goal: %v", s.StrategyGoal)
	log.Infof(log.Statistics, "Start: %v End: %v", s.StartDate.Format(gctcommon.SimpleTimeFormat), s.EndDate.Format(gctcommon.SimpleTimeFormat))
	log.Info(log.Statistics, "------------------Orders-------------------------------------")
	log.Infof(log.Statistics, "Buy fills: %v", s.BuyFills)
	log.Infof(log.Statistics, "Sell fills: %v", s.SellFills)
	log.Infof(log.Statistics, "Partial fills: %v", s.PartialFills)
	log.Infof(log.Statistics, "Total fills: %v", s.TotalFills)
	log.Infof(log.Statistics, "Rejected orders: %v", s.RejectedOrders)
	log.Infof(log.Statistics, "Total commission: $%v", s.TotalCommission.StringFixed(2))
	log.Info(log.Statistics, "------------------Results------------------------------------")
	log.Infof(log.Statistics, "Initial value: $%v", s.InitialValue.StringFixed(2))
	log.Infof(log.Statistics, "Final value: $%v", s.FinalValue.StringFixed(2))
	log.Infof(log.Statistics, "Total return: %v%%", s.TotalReturn.Mul(decimal.NewFromInt(100)).StringFixed(2))
	log.Infof(log.Statistics, "Compound annual growth rate: %v%%", s.CompoundAnnualGrowthRate.StringFixed(2))
	log.Infof(log.Statistics, "Sharpe ratio: %v", s.SharpeRatio.StringFixed(4))
	log.Infof(log.Statistics, "Sortino ratio: %v", s.SortinoRatio.StringFixed(4))
	log.Info(log.Statistics, "------------------Max Drawdown-------------------------------")
	if s.MaxDrawdown.Highest.Set {
		log.Infof(log.Statistics, "Highest equity: %v at %v", s.MaxDrawdown.Highest.Value.StringFixed(4), s.MaxDrawdown.Highest.Time.Format(gctcommon.SimpleTimeFormat))
		log.Infof(log.Statistics, "Lowest equity: %v at %v", s.MaxDrawdown.Lowest.Value.StringFixed(4), s.MaxDrawdown.Lowest.Time.Format(gctcommon.SimpleTimeFormat))
	}
	log.Infof(log.Statistics, "Drawdown: %v (%v%%)", s.MaxDrawdown.Drawdown.StringFixed(4), s.MaxDrawdown.DrawdownPercent.StringFixed(2))
	log.Infof(log.Statistics, "Longest drawdown: %v ticks", s.MaxDrawdown.IntervalDuration)
}

// Serialise outputs the Statistic struct in json
func (s *Statistic) Serialise() (string, error) {
	resp, err := json.MarshalIndent(s, "", " ")
	if err != nil {
		return "", err
	}
	return string(resp), nil
}

// WriteReport serialises the statistics to a JSON file
func (s *Statistic) WriteReport(path string) error {
	resp, err := s.Serialise()
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, []byte(resp), 0o644); err != nil {
		return err
	}
	log.Infof(log.Statistics, "report written to %v", path)
	return nil
}
