package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the low-order moment statistics of a sample
type Summary struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"` // Sample variance
	StdDev   float64 `json:"std_dev"`
	Skewness float64 `json:"skewness"`
	Count    int     `json:"count"`
}

// Summarize computes moment statistics for a sample using gonum.
// An empty sample yields a zero Summary, never NaN.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	s := Summary{
		Mean:  stat.Mean(values, nil),
		Count: len(values),
	}

	if len(values) > 1 {
		s.Variance = stat.Variance(values, nil)
		s.StdDev = math.Sqrt(s.Variance)
	}

	if len(values) > 2 && s.StdDev > 0 {
		s.Skewness = stat.Skew(values, nil)
	}

	return s
}

// MeanVariance is a convenience wrapper for the two moments the feature
// vector aggregates.
func MeanVariance(values []float64) (mean, variance float64) {
	s := Summarize(values)
	return s.Mean, s.Variance
}

// ColumnMeanVariance computes per-column mean and variance over a matrix of
// row vectors (e.g. per-coefficient statistics across MFCC frames).
// All rows must have at least cols entries.
func ColumnMeanVariance(rows [][]float64, cols int) (means, variances []float64) {
	means = make([]float64, cols)
	variances = make([]float64, cols)

	if len(rows) == 0 || cols == 0 {
		return means, variances
	}

	column := make([]float64, len(rows))
	for c := range cols {
		for r, row := range rows {
			column[r] = row[c]
		}
		means[c], variances[c] = MeanVariance(column)
	}

	return means, variances
}
