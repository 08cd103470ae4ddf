package spectral

import (
	"gonum.org/v1/gonum/stat"
)

// ZeroCrossingRate calculates zero crossing rate per analysis frame.
// High ZCR indicates fricatives/unvoiced speech or noise, low ZCR indicates
// voiced speech.
type ZeroCrossingRate struct {
	frameSize int
	hopSize   int
}

// NewZeroCrossingRate creates a calculator with the given frame geometry
func NewZeroCrossingRate(frameSize, hopSize int) *ZeroCrossingRate {
	return &ZeroCrossingRate{
		frameSize: frameSize,
		hopSize:   hopSize,
	}
}

// ComputeNormalized calculates ZCR for one frame normalized to 0-1 by the
// maximum possible crossings (an alternating signal).
func (zcr *ZeroCrossingRate) ComputeNormalized(frame []float64) float64 {
	if len(frame) < 2 {
		return 0.0
	}

	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0 && frame[i] < 0) || (frame[i-1] < 0 && frame[i] >= 0) {
			crossings++
		}
	}

	return float64(crossings) / float64(len(frame)-1)
}

// ComputeFrames calculates normalized ZCR for overlapping frames of a signal
func (zcr *ZeroCrossingRate) ComputeFrames(signal []float64) []float64 {
	if len(signal) < zcr.frameSize || zcr.hopSize <= 0 {
		return []float64{}
	}

	numFrames := (len(signal)-zcr.frameSize)/zcr.hopSize + 1
	values := make([]float64, numFrames)

	for i := range numFrames {
		startIdx := i * zcr.hopSize
		endIdx := startIdx + zcr.frameSize

		if endIdx > len(signal) {
			break
		}

		values[i] = zcr.ComputeNormalized(signal[startIdx:endIdx])
	}

	return values
}

// ComputeStatistics calculates mean and variance of per-frame ZCR values
func (zcr *ZeroCrossingRate) ComputeStatistics(values []float64) (mean, variance float64) {
	if len(values) == 0 {
		return 0, 0
	}

	mean = stat.Mean(values, nil)
	if len(values) > 1 {
		variance = stat.Variance(values, nil)
	}

	return mean, variance
}
