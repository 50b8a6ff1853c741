// Package formulas holds the numeric building blocks shared by the analysis modules.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// PopStdDev calculates the population standard deviation (divides by N, not N-1)
func PopStdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	_, std := stat.PopMeanStdDev(data, nil)
	return std
}

// CoefficientOfVariation returns stddev/mean as a ratio using the population stddev.
// A zero or negative mean yields 0.
func CoefficientOfVariation(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(data, nil)
	if mean <= 0 {
		return 0
	}
	return std / mean
}

// LinearRegression fits y = slope*x + intercept by ordinary least squares over
// equally spaced observations x = 0..n-1. Fewer than two points yields zeros.
func LinearRegression(ys []float64) (slope, intercept float64) {
	if len(ys) < 2 {
		return 0, 0
	}
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta, alpha
}

// Clamp bounds value into [lo, hi]
func Clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}

// Percentage returns part/total*100, or 0 when total is not positive
func Percentage(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}

// Round rounds to the given number of decimal places
func Round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
