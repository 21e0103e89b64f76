package math

import (
	"math"
)

// RoundFloat rounds your floating point number to the desired decimal place
func RoundFloat(x float64, prec int) float64 {
	pow := math.Pow(10, float64(prec))
	return math.Round(x*pow) / pow
}

// CalculatePercentageGainOrLoss returns the percentage rise over a certain
// period
func CalculatePercentageGainOrLoss(priceNow, priceThen float64) float64 {
	if priceThen == 0 {
		return 0
	}
	return (priceNow - priceThen) / priceThen * 100
}

// CalculateCompoundAnnualGrowthRate Calculates CAGR.
// Using days, intervals per year would be 365 and number of intervals would be the number of days
func CalculateCompoundAnnualGrowthRate(openValue, closeValue, intervalsPerYear, numberOfIntervals float64) float64 {
	if openValue == 0 || numberOfIntervals == 0 {
		return 0
	}
	k := math.Pow(closeValue/openValue, intervalsPerYear/numberOfIntervals) - 1
	return k * 100
}

// PopulationStandardDeviation calculates standard deviation using population based calculation
func PopulationStandardDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := ArithmeticAverage(values)
	diffs := make([]float64, len(values))
	for x := range values {
		diffs[x] = math.Pow(values[x]-avg, 2)
	}
	return math.Sqrt(ArithmeticAverage(diffs))
}

// SampleStandardDeviation standard deviation is a statistic that
// measures the dispersion of a dataset relative to its mean and
// is calculated as the square root of the variance
func SampleStandardDeviation(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	mean := ArithmeticAverage(values)
	var combined float64
	for i := range values {
		combined += math.Pow(values[i]-mean, 2)
	}
	return math.Sqrt(combined / float64(len(values)-1))
}

// ArithmeticAverage is the basic form of calculating an average.
// Divide the sum of all values by the length of values
func ArithmeticAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumOfValues float64
	for x := range values {
		sumOfValues += values[x]
	}
	return sumOfValues / float64(len(values))
}

// FinancialGeometricAverage is a modified geometric average to assess
// the negative returns of investments. Each value has 1 added so that
// negative movements can participate in the product
func FinancialGeometricAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	product := 1.0
	for i := range values {
		if values[i] <= -1 {
			// cannot lose more than 100%, figures are incorrect
			return 0
		}
		product *= values[i] + 1
	}
	return math.Pow(product, 1/float64(len(values))) - 1
}

// CalculateSharpeRatio returns the annualised sharpe ratio of a set of
// per-period returns: sqrt(periods) * mean(excess) / std(excess)
func CalculateSharpeRatio(returns []float64, riskFreeRatePerPeriod, periodsPerYear float64) float64 {
	if len(returns) <= 1 {
		return 0
	}
	excessReturns := make([]float64, len(returns))
	for i := range returns {
		excessReturns[i] = returns[i] - riskFreeRatePerPeriod
	}
	standardDeviation := PopulationStandardDeviation(excessReturns)
	if standardDeviation == 0 {
		return 0
	}
	return math.Sqrt(periodsPerYear) * ArithmeticAverage(excessReturns) / standardDeviation
}

// CalculateSortinoRatio returns the annualised sortino ratio, only penalising
// returns that fall below the risk free rate
func CalculateSortinoRatio(returns []float64, riskFreeRatePerPeriod, periodsPerYear float64) float64 {
	if len(returns) <= 1 {
		return 0
	}
	var totalNegativeResultsSquared, sum float64
	for x := range returns {
		excess := returns[x] - riskFreeRatePerPeriod
		sum += excess
		if excess < 0 {
			totalNegativeResultsSquared += excess * excess
		}
	}
	downside := math.Sqrt(totalNegativeResultsSquared / float64(len(returns)))
	if downside == 0 {
		return 0
	}
	return math.Sqrt(periodsPerYear) * (sum / float64(len(returns))) / downside
}

// CalculateMaxDrawdown walks an equity series tracking its high water mark
// and returns the largest drop from the mark along with the longest number of
// periods spent below it
func CalculateMaxDrawdown(equity []float64) (maxDrawdown float64, maxDuration int) {
	if len(equity) == 0 {
		return 0, 0
	}
	highWaterMark := equity[0]
	var duration int
	for i := range equity {
		if equity[i] >= highWaterMark {
			highWaterMark = equity[i]
			duration = 0
			continue
		}
		duration++
		if drawdown := highWaterMark - equity[i]; drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
		if duration > maxDuration {
			maxDuration = duration
		}
	}
	return maxDrawdown, maxDuration
}
