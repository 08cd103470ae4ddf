package emotion

import (
	"fmt"

	"github.com/KYKELUKE/IA-AyudaAuditiva/algorithms/spectral"
	"github.com/KYKELUKE/IA-AyudaAuditiva/algorithms/stats"
	"github.com/KYKELUKE/IA-AyudaAuditiva/algorithms/temporal"
	"github.com/KYKELUKE/IA-AyudaAuditiva/algorithms/tonal"
	"github.com/KYKELUKE/IA-AyudaAuditiva/algorithms/windowing"
	"github.com/KYKELUKE/IA-AyudaAuditiva/emotion/config"
	"github.com/KYKELUKE/IA-AyudaAuditiva/logging"
	"github.com/KYKELUKE/IA-AyudaAuditiva/transcode"
)

// Extractor computes the clip-level feature vector from a PCM buffer.
// Extraction is a pure function of the samples: no randomness, no clock, so
// identical input always produces a bit-identical vector.
type Extractor struct {
	cfg    *config.PipelineConfig
	stft   *spectral.STFT
	mfcc   *spectral.MFCC
	window *windowing.Hamming
	zcr    *spectral.ZeroCrossingRate
	energy *temporal.Energy
	pitch  *tonal.PitchDetector
	logger logging.Logger
}

// NewExtractor creates a feature extractor for the given pipeline geometry
func NewExtractor(cfg *config.PipelineConfig) *Extractor {
	return &Extractor{
		cfg:    cfg,
		stft:   spectral.NewSTFT(),
		mfcc: spectral.NewMFCCWithParams(cfg.SampleRate, spectral.MFCCParams{
			NumCoefficients: cfg.MFCCCoefficients,
			NumMelFilters:   cfg.MelFilters,
			HighFreq:        float64(cfg.SampleRate) / 2.0,
			UseLiftering:    true,
		}),
		window: windowing.NewHamming(cfg.FrameSize),
		zcr:    spectral.NewZeroCrossingRate(cfg.FrameSize, cfg.HopSize),
		energy: temporal.NewEnergy(cfg.FrameSize, cfg.HopSize),
		pitch: tonal.NewPitchDetectorWithParams(tonal.PitchParams{
			SampleRate: cfg.SampleRate,
			MinFreq:    cfg.PitchMinFreq,
			MaxFreq:    cfg.PitchMaxFreq,
			Threshold:  cfg.YinThreshold,
		}),
		logger: logging.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}
}

// Dimensions returns the length of every vector Extract produces
func (e *Extractor) Dimensions() int {
	return e.cfg.FeatureDimensions()
}

// Extract computes the feature vector for a decoded clip. Clips shorter than
// one analysis frame are zero-padded to a single frame so the vector always
// has exactly Dimensions() entries.
func (e *Extractor) Extract(pcm *transcode.PCMBuffer) (FeatureVector, error) {
	if pcm == nil || len(pcm.Samples) == 0 {
		return nil, fmt.Errorf("empty PCM buffer")
	}
	if pcm.SampleRate != e.cfg.SampleRate {
		return nil, fmt.Errorf("PCM sample rate %d does not match pipeline rate %d",
			pcm.SampleRate, e.cfg.SampleRate)
	}

	signal := pcm.Samples
	if len(signal) < e.cfg.FrameSize {
		padded := make([]float64, e.cfg.FrameSize)
		copy(padded, signal)
		signal = padded
	}

	logger := e.logger.WithFields(logging.Fields{
		"function": "Extract",
		"samples":  len(signal),
	})

	// Cepstral block: STFT magnitude -> per-frame MFCC -> per-coefficient
	// mean/variance across frames
	spectrogram, err := e.stft.ComputeWithWindow(signal, e.cfg.FrameSize, e.cfg.HopSize, e.cfg.SampleRate, e.window)
	if err != nil {
		return nil, fmt.Errorf("STFT failed: %w", err)
	}

	mfccFrames, err := e.mfcc.ComputeFrames(spectrogram.Magnitude)
	if err != nil {
		return nil, fmt.Errorf("MFCC failed: %w", err)
	}

	mfccMeans, mfccVariances := stats.ColumnMeanVariance(mfccFrames, e.cfg.MFCCCoefficients)

	// Prosodic block: pitch over voiced frames, energy, zero crossings
	estimates := e.pitch.DetectFrames(signal, e.cfg.FrameSize, e.cfg.HopSize)
	var voicedPitches []float64
	for _, est := range estimates {
		if est.Voiced {
			voicedPitches = append(voicedPitches, est.Frequency)
		}
	}

	// Zero voiced frames (silence, noise) leaves the sentinel 0 stats
	pitchMean, pitchVariance := 0.0, 0.0
	if len(voicedPitches) > 0 {
		pitchMean, pitchVariance = stats.MeanVariance(voicedPitches)
	}

	voicedRatio := 0.0
	if len(estimates) > 0 {
		voicedRatio = float64(len(voicedPitches)) / float64(len(estimates))
	}

	energyMean, energyVariance := e.energy.ComputeStatistics(e.energy.ComputeShortTimeEnergy(signal))
	zcrMean, zcrVariance := e.zcr.ComputeStatistics(e.zcr.ComputeFrames(signal))

	fv := make(FeatureVector, 0, e.Dimensions())
	fv = append(fv, mfccMeans...)
	fv = append(fv, mfccVariances...)
	fv = append(fv, pitchMean, pitchVariance, voicedRatio)
	fv = append(fv, energyMean, energyVariance)
	fv = append(fv, zcrMean, zcrVariance)
	fv.sanitize()

	logger.Debug("Feature extraction completed", logging.Fields{
		"dimensions":    len(fv),
		"frames":        spectrogram.TimeFrames,
		"voiced_frames": len(voicedPitches),
		"voiced_ratio":  voicedRatio,
	})

	return fv, nil
}
