package allocation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

const weightTolerance = 1e-6

// Optimise returns weights summing to 1, each within [0, 1], that maximise
// mean return over volatility for the supplied per-symbol return series.
// Weights are the softmax of an unconstrained vector minimised with BFGS,
// starting from equal weights. Series with no volatility keep equal weights
func Optimise(returns [][]float64, iterations int) ([]float64, error) {
	n := len(returns)
	if n == 0 || len(returns[0]) == 0 {
		return nil, errNoReturns
	}
	observations := len(returns[0])
	for i := range returns {
		if len(returns[i]) != observations {
			return nil, errMismatchedHistories
		}
	}
	mean := make([]float64, n)
	history := mat.NewDense(observations, n, nil)
	for i := range returns {
		mean[i] = stat.Mean(returns[i], nil)
		history.SetCol(i, returns[i])
	}
	cov := mat.NewSymDense(n, nil)
	stat.CovarianceMatrix(cov, history, nil)

	if _, variance := portfolioStats(EqualWeights(n), mean, cov); variance <= 0 {
		return EqualWeights(n), nil
	}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			s := sharpe(softmax(x), mean, cov)
			if math.IsNaN(s) {
				return math.Inf(1)
			}
			return -s
		},
		Grad: func(grad, x []float64) {
			w := softmax(x)
			g := gradient(w, mean, cov)
			dot := floats.Dot(w, g)
			for i := range w {
				grad[i] = -w[i] * (g[i] - dot)
			}
		},
	}
	result, err := optimize.Minimize(problem, make([]float64, n), &optimize.Settings{MajorIterations: iterations}, &optimize.BFGS{})
	if result == nil {
		return nil, err
	}
	w := softmax(result.X)
	if vErr := ValidateWeights(w); vErr != nil {
		return nil, vErr
	}
	return w, nil
}

// ValidateWeights checks weights form a long only allocation of everything
func ValidateWeights(w []float64) error {
	var sum float64
	for i := range w {
		if math.IsNaN(w[i]) || w[i] < -weightTolerance || w[i] > 1+weightTolerance {
			return fmt.Errorf("%w: weight %v at %d", ErrInvalidAllocation, w[i], i)
		}
		sum += w[i]
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %v", ErrInvalidAllocation, sum)
	}
	return nil
}

// EqualWeights returns 1/n for every symbol
func EqualWeights(n int) []float64 {
	resp := make([]float64, n)
	for i := range resp {
		resp[i] = 1 / float64(n)
	}
	return resp
}

// softmax maps any vector onto the long only simplex
func softmax(x []float64) []float64 {
	resp := make([]float64, len(x))
	if len(x) == 0 {
		return resp
	}
	largest := floats.Max(x)
	for i := range x {
		resp[i] = math.Exp(x[i] - largest)
	}
	floats.Scale(1/floats.Sum(resp), resp)
	return resp
}

func portfolioStats(w, mean []float64, cov *mat.SymDense) (ret, variance float64) {
	v := mat.NewVecDense(len(w), w)
	return floats.Dot(w, mean), mat.Inner(v, cov, v)
}

func sharpe(w, mean []float64, cov *mat.SymDense) float64 {
	ret, variance := portfolioStats(w, mean, cov)
	if variance <= 0 {
		return math.NaN()
	}
	return ret / math.Sqrt(variance)
}

// gradient of the sharpe ratio with respect to the weights
func gradient(w, mean []float64, cov *mat.SymDense) []float64 {
	ret, variance := portfolioStats(w, mean, cov)
	grad := make([]float64, len(w))
	if variance <= 0 {
		return grad
	}
	sigma := math.Sqrt(variance)
	var covW mat.VecDense
	covW.MulVec(cov, mat.NewVecDense(len(w), w))
	for i := range w {
		grad[i] = mean[i]/sigma - ret*covW.AtVec(i)/(sigma*variance)
	}
	return grad
}
