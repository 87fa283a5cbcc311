// Package stat provides the small amount of distribution arithmetic the
// confidence-interval contract needs. It is a thin layer over gonum; no
// estimation happens here.
package stat

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Interval is a two-sided confidence interval
type Interval struct {
	Low  float64
	High float64
}

// Normal computes a two-sided interval around estimate using the standard
// normal quantile at the given level.
func Normal(estimate, stdError, level float64) Interval {
	q := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(1 - (1-level)/2)
	return Interval{
		Low:  estimate - q*stdError,
		High: estimate + q*stdError,
	}
}

// T computes a two-sided interval around estimate using the Student-t
// quantile with df degrees of freedom. Non-positive df falls back to the
// normal quantile.
func T(estimate, stdError, df, level float64) Interval {
	if df <= 0 {
		return Normal(estimate, stdError, level)
	}
	q := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(1 - (1-level)/2)
	return Interval{
		Low:  estimate - q*stdError,
		High: estimate + q*stdError,
	}
}

// PValueNormal is the two-sided p-value of statistic under the standard
// normal distribution.
func PValueNormal(statistic float64) float64 {
	return 2 * distuv.Normal{Mu: 0, Sigma: 1}.CDF(-math.Abs(statistic))
}

// PValueT is the two-sided p-value of statistic under a Student-t
// distribution with df degrees of freedom.
func PValueT(statistic, df float64) float64 {
	if df <= 0 {
		return PValueNormal(statistic)
	}
	return 2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.CDF(-math.Abs(statistic))
}

// PValueF is the upper-tail p-value of statistic under an F distribution
// with df1 and df2 degrees of freedom.
func PValueF(statistic, df1, df2 float64) float64 {
	if df1 <= 0 || df2 <= 0 {
		return math.NaN()
	}
	return distuv.F{D1: df1, D2: df2}.Survival(statistic)
}
