package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// PipelineConfig fixes the acoustic front-end geometry shared by the feature
// extractor and the classifier. The classifier's expected input
// dimensionality is derived from it (see FeatureDimensions), so changing any
// of these fields changes the model contract.
type PipelineConfig struct {
	// Decoding
	SampleRate      int           `json:"sample_rate"`       // Pipeline sample rate (Hz)
	MaxClipDuration time.Duration `json:"max_clip_duration"` // Reject longer uploads

	// Short-time analysis geometry
	FrameSize int `json:"frame_size"` // Samples per analysis frame
	HopSize   int `json:"hop_size"`   // Samples between frame starts

	// MFCC front-end
	MFCCCoefficients int `json:"mfcc_coefficients"`
	MelFilters       int `json:"mel_filters"`

	// Pitch estimation
	PitchMinFreq float64 `json:"pitch_min_freq"` // Hz
	PitchMaxFreq float64 `json:"pitch_max_freq"` // Hz
	YinThreshold float64 `json:"yin_threshold"`
}

// DefaultPipelineConfig returns the conventional speech front-end:
// 16 kHz mono, 25 ms frames with a 10 ms hop, 13 MFCCs over 26 mel filters.
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		SampleRate:       16000,
		MaxClipDuration:  120 * time.Second,
		FrameSize:        400, // 25 ms at 16 kHz
		HopSize:          160, // 10 ms at 16 kHz
		MFCCCoefficients: 13,
		MelFilters:       26,
		PitchMinFreq:     80.0,
		PitchMaxFreq:     400.0,
		YinThreshold:     0.15,
	}
}

// FeatureDimensions returns D, the fixed feature-vector length agreed
// between the extractor and any scoring model:
// MFCC means + MFCC variances + pitch mean/variance + voiced ratio +
// energy mean/variance + ZCR mean/variance.
func (c *PipelineConfig) FeatureDimensions() int {
	return 2*c.MFCCCoefficients + 7
}

// Validate checks the configuration for values that would break the
// extractor/classifier contract.
func (c *PipelineConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %d", c.SampleRate)
	}
	if c.FrameSize <= 0 || c.HopSize <= 0 {
		return fmt.Errorf("frame size and hop size must be positive: %d/%d", c.FrameSize, c.HopSize)
	}
	if c.HopSize > c.FrameSize {
		return fmt.Errorf("hop size (%d) cannot exceed frame size (%d)", c.HopSize, c.FrameSize)
	}
	if c.MFCCCoefficients <= 0 {
		return fmt.Errorf("MFCC coefficient count must be positive: %d", c.MFCCCoefficients)
	}
	if c.MaxClipDuration <= 0 {
		return fmt.Errorf("max clip duration must be positive: %v", c.MaxClipDuration)
	}
	if c.PitchMinFreq <= 0 || c.PitchMaxFreq <= c.PitchMinFreq {
		return fmt.Errorf("invalid pitch range: %.1f-%.1f Hz", c.PitchMinFreq, c.PitchMaxFreq)
	}
	// The YIN integration window is half a frame; it has to cover one
	// full period of the lowest searchable pitch.
	if float64(c.FrameSize)/2.0 < float64(c.SampleRate)/c.PitchMinFreq {
		return fmt.Errorf("frame size %d too short for pitch floor %.1f Hz at %d Hz",
			c.FrameSize, c.PitchMinFreq, c.SampleRate)
	}
	return nil
}

// FromEnv applies environment overrides on top of a config. Call godotenv
// beforehand if a .env file should participate.
func FromEnv(c *PipelineConfig) *PipelineConfig {
	if v := os.Getenv("EMOTION_SAMPLE_RATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SampleRate = n
		}
	}
	if v := os.Getenv("EMOTION_MAX_CLIP_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxClipDuration = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("EMOTION_MFCC_COEFFICIENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MFCCCoefficients = n
		}
	}
	return c
}
