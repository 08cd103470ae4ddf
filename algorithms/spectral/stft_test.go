package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSTFTComputeWithWindow(t *testing.T) {
	stft := NewSTFT()

	// 1 kHz sine at 16 kHz
	signal := make([]float64, 16000)
	for i := range signal {
		signal[i] = 0.5 * math.Sin(2.0*math.Pi*1000.0*float64(i)/16000.0)
	}

	result, err := stft.ComputeWithWindow(signal, 400, 160, 16000, nil)
	require.NoError(t, err)

	assert.Equal(t, (16000-400)/160+1, result.TimeFrames)
	assert.Equal(t, 201, result.FreqBins)
	assert.InDelta(t, 40.0, result.FreqResolution, 1e-9)

	// The peak bin should sit at 1 kHz (bin 25 at 40 Hz/bin)
	frame := result.Magnitude[result.TimeFrames/2]
	peak := 0
	for i, mag := range frame {
		if mag > frame[peak] {
			peak = i
		}
	}
	assert.InDelta(t, 25, peak, 1)
}

func TestSTFTDeterministicUnderParallelism(t *testing.T) {
	stft := NewSTFT()

	signal := make([]float64, 32000)
	for i := range signal {
		signal[i] = math.Sin(2.0*math.Pi*440.0*float64(i)/16000.0) +
			0.3*math.Sin(2.0*math.Pi*1300.0*float64(i)/16000.0)
	}

	first, err := stft.ComputeWithWindow(signal, 400, 160, 16000, nil)
	require.NoError(t, err)
	second, err := stft.ComputeWithWindow(signal, 400, 160, 16000, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Magnitude, second.Magnitude)
}

func TestSTFTInvalidInput(t *testing.T) {
	stft := NewSTFT()

	_, err := stft.ComputeWithWindow(nil, 400, 160, 16000, nil)
	assert.Error(t, err)

	_, err = stft.ComputeWithWindow(make([]float64, 1000), 0, 160, 16000, nil)
	assert.Error(t, err)

	_, err = stft.ComputeWithWindow(make([]float64, 1000), 400, 0, 16000, nil)
	assert.Error(t, err)

	// Signal shorter than one window
	_, err = stft.ComputeWithWindow(make([]float64, 100), 400, 160, 16000, nil)
	assert.Error(t, err)
}

func TestZeroCrossingRateNormalized(t *testing.T) {
	zcr := NewZeroCrossingRate(400, 160)

	// Alternating signal crosses at every sample
	alternating := make([]float64, 400)
	for i := range alternating {
		if i%2 == 0 {
			alternating[i] = 1.0
		} else {
			alternating[i] = -1.0
		}
	}
	assert.InDelta(t, 1.0, zcr.ComputeNormalized(alternating), 1e-9)

	// Constant signal never crosses
	constant := make([]float64, 400)
	for i := range constant {
		constant[i] = 0.7
	}
	assert.Zero(t, zcr.ComputeNormalized(constant))
}

func TestZeroCrossingRateFrames(t *testing.T) {
	zcr := NewZeroCrossingRate(400, 160)

	signal := make([]float64, 16000)
	for i := range signal {
		signal[i] = math.Sin(2.0 * math.Pi * 100.0 * float64(i) / 16000.0)
	}

	values := zcr.ComputeFrames(signal)
	require.Len(t, values, (16000-400)/160+1)

	// A 100 Hz sine crosses 200 times per second: rate 200/16000 = 0.0125
	mean, variance := zcr.ComputeStatistics(values)
	assert.InDelta(t, 0.0125, mean, 0.002)
	assert.Less(t, variance, 0.001)
}
