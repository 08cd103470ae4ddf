package temporal

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Energy computes short-time energy features over overlapping frames
type Energy struct {
	frameSize int
	hopSize   int
}

// NewEnergy creates a new energy calculator
func NewEnergy(frameSize, hopSize int) *Energy {
	return &Energy{
		frameSize: frameSize,
		hopSize:   hopSize,
	}
}

// ComputeShortTimeEnergy calculates per-frame RMS energy
func (e *Energy) ComputeShortTimeEnergy(signal []float64) []float64 {
	if len(signal) < e.frameSize || e.hopSize <= 0 || e.frameSize <= 0 {
		return []float64{}
	}

	numFrames := (len(signal)-e.frameSize)/e.hopSize + 1
	energies := make([]float64, numFrames)

	for i := range numFrames {
		startIdx := i * e.hopSize
		endIdx := startIdx + e.frameSize

		if endIdx > len(signal) {
			break
		}

		sumSquares := 0.0
		for j := startIdx; j < endIdx; j++ {
			sumSquares += signal[j] * signal[j]
		}
		energies[i] = math.Sqrt(sumSquares / float64(e.frameSize))
	}

	return energies
}

// ComputeStatistics calculates mean and variance of per-frame energies
func (e *Energy) ComputeStatistics(energies []float64) (mean, variance float64) {
	if len(energies) == 0 {
		return 0, 0
	}

	mean = stat.Mean(energies, nil)
	if len(energies) > 1 {
		variance = stat.Variance(energies, nil)
	}

	return mean, variance
}
