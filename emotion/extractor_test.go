package emotion

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KYKELUKE/IA-AyudaAuditiva/emotion/config"
	"github.com/KYKELUKE/IA-AyudaAuditiva/transcode"
)

func pcmSine(freq float64, sampleRate int, duration time.Duration, amplitude float64) *transcode.PCMBuffer {
	n := int(float64(sampleRate) * duration.Seconds())
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2.0*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return &transcode.PCMBuffer{
		Samples:    samples,
		SampleRate: sampleRate,
		Duration:   duration,
	}
}

func pcmSilence(sampleRate int, duration time.Duration) *transcode.PCMBuffer {
	n := int(float64(sampleRate) * duration.Seconds())
	return &transcode.PCMBuffer{
		Samples:    make([]float64, n),
		SampleRate: sampleRate,
		Duration:   duration,
	}
}

func TestExtractDimensions(t *testing.T) {
	cfg := config.DefaultPipelineConfig()
	extractor := NewExtractor(cfg)

	assert.Equal(t, 33, extractor.Dimensions())

	fv, err := extractor.Extract(pcmSine(220.0, cfg.SampleRate, time.Second, 0.5))
	require.NoError(t, err)
	assert.Len(t, []float64(fv), extractor.Dimensions())
}

func TestExtractDeterministic(t *testing.T) {
	cfg := config.DefaultPipelineConfig()
	extractor := NewExtractor(cfg)

	pcm := pcmSine(220.0, cfg.SampleRate, time.Second, 0.5)

	first, err := extractor.Extract(pcm)
	require.NoError(t, err)
	second, err := extractor.Extract(pcm)
	require.NoError(t, err)

	// Bit-identical, not just approximately equal
	assert.Equal(t, first, second)
}

func TestExtractSilence(t *testing.T) {
	cfg := config.DefaultPipelineConfig()
	extractor := NewExtractor(cfg)

	fv, err := extractor.Extract(pcmSilence(cfg.SampleRate, time.Second))
	require.NoError(t, err)
	require.Len(t, []float64(fv), extractor.Dimensions())

	base := 2 * cfg.MFCCCoefficients
	assert.Zero(t, fv[base+offsetPitchMean], "silence has no voiced pitch")
	assert.Zero(t, fv[base+offsetPitchVariance])
	assert.Zero(t, fv[base+offsetVoicedRatio])
	assert.Zero(t, fv[base+offsetEnergyMean])
	assert.Zero(t, fv[base+offsetZCRMean])

	for i, v := range fv {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "entry %d must be finite", i)
	}
}

func TestExtractSineProsody(t *testing.T) {
	cfg := config.DefaultPipelineConfig()
	extractor := NewExtractor(cfg)

	fv, err := extractor.Extract(pcmSine(220.0, cfg.SampleRate, time.Second, 0.5))
	require.NoError(t, err)

	base := 2 * cfg.MFCCCoefficients

	// A pure tone is fully voiced with pitch near the generator frequency
	assert.InDelta(t, 220.0, fv[base+offsetPitchMean], 10.0)
	assert.Greater(t, fv[base+offsetVoicedRatio], 0.9)
	assert.Greater(t, fv[base+offsetEnergyMean], 0.1)
}

func TestExtractShortClipPadded(t *testing.T) {
	cfg := config.DefaultPipelineConfig()
	extractor := NewExtractor(cfg)

	// Shorter than one analysis frame
	pcm := &transcode.PCMBuffer{
		Samples:    make([]float64, 100),
		SampleRate: cfg.SampleRate,
		Duration:   100 * time.Second / time.Duration(cfg.SampleRate),
	}

	fv, err := extractor.Extract(pcm)
	require.NoError(t, err)
	assert.Len(t, []float64(fv), extractor.Dimensions())
}

func TestExtractRejectsEmptyBuffer(t *testing.T) {
	extractor := NewExtractor(config.DefaultPipelineConfig())

	_, err := extractor.Extract(nil)
	assert.Error(t, err)

	_, err = extractor.Extract(&transcode.PCMBuffer{SampleRate: 16000})
	assert.Error(t, err)
}

func TestExtractRejectsSampleRateMismatch(t *testing.T) {
	extractor := NewExtractor(config.DefaultPipelineConfig())

	_, err := extractor.Extract(pcmSine(220.0, 44100, 100*time.Millisecond, 0.5))
	assert.Error(t, err)
}
