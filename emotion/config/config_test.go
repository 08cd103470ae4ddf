package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPipelineConfig(t *testing.T) {
	cfg := DefaultPipelineConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 16000, cfg.SampleRate)
	assert.Equal(t, 400, cfg.FrameSize)
	assert.Equal(t, 160, cfg.HopSize)
	assert.Equal(t, 33, cfg.FeatureDimensions())
}

func TestValidateRejectsBadGeometry(t *testing.T) {
	mutations := map[string]func(*PipelineConfig){
		"zero sample rate":   func(c *PipelineConfig) { c.SampleRate = 0 },
		"zero frame size":    func(c *PipelineConfig) { c.FrameSize = 0 },
		"hop exceeds frame":  func(c *PipelineConfig) { c.HopSize = c.FrameSize + 1 },
		"no mfcc coeffs":     func(c *PipelineConfig) { c.MFCCCoefficients = 0 },
		"zero clip duration": func(c *PipelineConfig) { c.MaxClipDuration = 0 },
		"inverted pitch range": func(c *PipelineConfig) {
			c.PitchMinFreq = 400
			c.PitchMaxFreq = 80
		},
		"frame too short for pitch floor": func(c *PipelineConfig) { c.PitchMinFreq = 20 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultPipelineConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("EMOTION_SAMPLE_RATE", "8000")
	t.Setenv("EMOTION_MAX_CLIP_SECONDS", "60")
	t.Setenv("EMOTION_MFCC_COEFFICIENTS", "20")

	cfg := FromEnv(DefaultPipelineConfig())

	assert.Equal(t, 8000, cfg.SampleRate)
	assert.Equal(t, 60*time.Second, cfg.MaxClipDuration)
	assert.Equal(t, 20, cfg.MFCCCoefficients)
	assert.Equal(t, 47, cfg.FeatureDimensions())
}

func TestFromEnvIgnoresInvalid(t *testing.T) {
	t.Setenv("EMOTION_SAMPLE_RATE", "not-a-number")

	cfg := FromEnv(DefaultPipelineConfig())
	assert.Equal(t, 16000, cfg.SampleRate)
}
