package tonal

// Pitch detection via the YIN algorithm.
//
// References:
// - de Cheveigné, A., Kawahara, H. (2002). "YIN, a fundamental frequency estimator for speech and music"
// - Rabiner, L.R. (1977). "On the use of autocorrelation analysis for pitch detection"

// PitchParams contains parameters for pitch detection
type PitchParams struct {
	SampleRate int     `json:"sample_rate"`
	MinFreq    float64 `json:"min_freq"`      // Minimum frequency (Hz)
	MaxFreq    float64 `json:"max_freq"`      // Maximum frequency (Hz)
	Threshold  float64 `json:"yin_threshold"` // YIN CMND threshold (0.1-0.5)
	MinEnergy  float64 `json:"min_energy"`    // Mean-square energy gate for voicing
}

// PitchEstimate is a per-frame fundamental frequency estimate
type PitchEstimate struct {
	Frequency   float64 `json:"frequency"`   // Estimated F0 in Hz (0 when unvoiced)
	Periodicity float64 `json:"periodicity"` // 1 - min(CMND), higher = more periodic
	Voiced      bool    `json:"voiced"`      // Whether a periodic pitch was detected
}

// PitchDetector estimates per-frame fundamental frequency with a voicing
// decision
type PitchDetector struct {
	params PitchParams
}

// NewPitchDetector creates a pitch detector tuned for speech
func NewPitchDetector(sampleRate int) *PitchDetector {
	return NewPitchDetectorWithParams(PitchParams{
		SampleRate: sampleRate,
		MinFreq:    80.0,  // Low male voice
		MaxFreq:    400.0, // High female voice
		Threshold:  0.15,
		MinEnergy:  1e-6,
	})
}

// NewPitchDetectorWithParams creates a pitch detector with custom parameters
func NewPitchDetectorWithParams(params PitchParams) *PitchDetector {
	if params.MinFreq <= 0 {
		params.MinFreq = 80.0
	}
	if params.MaxFreq <= params.MinFreq {
		params.MaxFreq = 400.0
	}
	if params.Threshold <= 0 {
		params.Threshold = 0.15
	}
	if params.MinEnergy <= 0 {
		params.MinEnergy = 1e-6
	}
	return &PitchDetector{params: params}
}

// Detect estimates the fundamental frequency of a single analysis frame.
// The YIN integration window is half the frame, so the frame must cover at
// least two periods of MinFreq for a reliable estimate.
func (pd *PitchDetector) Detect(frame []float64) PitchEstimate {
	unvoiced := PitchEstimate{}

	w := len(frame) / 2
	if w < 2 {
		return unvoiced
	}

	// Silence gate: no point searching for periodicity in near-zero signal
	energy := 0.0
	for _, s := range frame {
		energy += s * s
	}
	energy /= float64(len(frame))
	if energy < pd.params.MinEnergy {
		return unvoiced
	}

	tauMin := int(float64(pd.params.SampleRate) / pd.params.MaxFreq)
	tauMax := int(float64(pd.params.SampleRate) / pd.params.MinFreq)
	if tauMin < 2 {
		tauMin = 2
	}
	if tauMax > w {
		tauMax = w
	}
	if tauMin >= tauMax {
		return unvoiced
	}

	// Difference function d(tau)
	diff := make([]float64, tauMax+1)
	for tau := 1; tau <= tauMax; tau++ {
		sum := 0.0
		for j := range w {
			delta := frame[j] - frame[j+tau]
			sum += delta * delta
		}
		diff[tau] = sum
	}

	// Cumulative mean normalized difference
	cmnd := make([]float64, tauMax+1)
	cmnd[0] = 1.0
	runningSum := 0.0
	for tau := 1; tau <= tauMax; tau++ {
		runningSum += diff[tau]
		if runningSum > 0 {
			cmnd[tau] = diff[tau] * float64(tau) / runningSum
		} else {
			cmnd[tau] = 1.0
		}
	}

	// First dip below threshold; track the global minimum for the
	// periodicity measure
	bestTau := -1
	minCMND := 1.0
	for tau := tauMin; tau <= tauMax; tau++ {
		if cmnd[tau] < minCMND {
			minCMND = cmnd[tau]
		}
		if bestTau < 0 && cmnd[tau] < pd.params.Threshold {
			// Walk to the local minimum of this dip
			for tau+1 <= tauMax && cmnd[tau+1] < cmnd[tau] {
				tau++
			}
			bestTau = tau
			minCMND = cmnd[tau]
			break
		}
	}

	periodicity := 1.0 - minCMND
	if bestTau < 0 {
		return PitchEstimate{Periodicity: periodicity}
	}

	refined := pd.parabolicInterpolate(cmnd, bestTau, tauMin, tauMax)

	return PitchEstimate{
		Frequency:   float64(pd.params.SampleRate) / refined,
		Periodicity: periodicity,
		Voiced:      true,
	}
}

// DetectFrames runs detection over overlapping frames of a signal
func (pd *PitchDetector) DetectFrames(signal []float64, frameSize, hopSize int) []PitchEstimate {
	if len(signal) < frameSize || hopSize <= 0 {
		return []PitchEstimate{}
	}

	numFrames := (len(signal)-frameSize)/hopSize + 1
	estimates := make([]PitchEstimate, numFrames)

	for i := range numFrames {
		startIdx := i * hopSize
		endIdx := startIdx + frameSize

		if endIdx > len(signal) {
			break
		}

		estimates[i] = pd.Detect(signal[startIdx:endIdx])
	}

	return estimates
}

// parabolicInterpolate refines the lag estimate to sub-sample precision
// using the neighboring CMND values.
func (pd *PitchDetector) parabolicInterpolate(cmnd []float64, tau, tauMin, tauMax int) float64 {
	if tau <= tauMin || tau >= tauMax {
		return float64(tau)
	}

	left := cmnd[tau-1]
	center := cmnd[tau]
	right := cmnd[tau+1]

	denom := 2.0 * (left - 2.0*center + right)
	if denom == 0 {
		return float64(tau)
	}

	shift := (left - right) / denom
	if shift > 0.5 || shift < -0.5 {
		return float64(tau)
	}

	return float64(tau) + shift
}
