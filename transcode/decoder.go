package transcode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hajimehoshi/go-mp3"

	"github.com/KYKELUKE/IA-AyudaAuditiva/logging"
)

// AudioClip is an uploaded audio payload with its declared container type.
// It is consumed once by the decoder and discarded afterwards.
type AudioClip struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mime_type"`
}

// PCMBuffer holds decoded mono PCM at the pipeline sample rate.
// Samples are normalized to [-1, 1]. A buffer is owned exclusively by one
// pipeline invocation and never shared across requests.
type PCMBuffer struct {
	Samples    []float64     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Duration   time.Duration `json:"duration"`
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	TargetSampleRate int           `json:"target_sample_rate"`
	MaxClipDuration  time.Duration `json:"max_clip_duration"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate: 16000,
		MaxClipDuration:  120 * time.Second,
	}
}

// Decoder turns uploaded WAV/MP3 byte streams into normalized mono PCM
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	if config.TargetSampleRate <= 0 {
		config.TargetSampleRate = 16000
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "audio_decoder",
		}),
	}
}

// Supported MIME types, normalized to lowercase without parameters.
var wavMIMETypes = map[string]bool{
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/wave":  true,
}

var mp3MIMETypes = map[string]bool{
	"audio/mpeg": true,
	"audio/mp3":  true,
}

// SupportedMIMETypes returns the MIME types this decoder accepts
func SupportedMIMETypes() []string {
	return []string{"audio/wav", "audio/x-wav", "audio/wave", "audio/mpeg", "audio/mp3"}
}

// Decode parses the clip's container, decodes to PCM, downmixes to mono and
// resamples to the configured pipeline rate.
func (d *Decoder) Decode(clip AudioClip) (*PCMBuffer, error) {
	logger := d.logger.WithFields(logging.Fields{
		"function":  "Decode",
		"mime_type": clip.MIMEType,
		"data_size": len(clip.Data),
	})

	if len(clip.Data) == 0 {
		return nil, ErrEmptyClip
	}

	mime := normalizeMIME(clip.MIMEType)

	var (
		interleaved []float64
		channels    int
		sampleRate  int
		err         error
	)

	switch {
	case wavMIMETypes[mime]:
		if !isWAV(clip.Data) {
			return nil, fmt.Errorf("%w: payload is not a RIFF/WAVE container", ErrCorruptAudio)
		}
		interleaved, channels, sampleRate, err = d.decodeWAVClip(clip.Data)

	case mp3MIMETypes[mime]:
		interleaved, channels, sampleRate, err = d.decodeMP3Clip(clip.Data)

	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedFormat, clip.MIMEType, strings.Join(SupportedMIMETypes(), ", "))
	}

	if err != nil {
		logger.Error(err, "Decode failed")
		return nil, err
	}

	mono := downmixMono(interleaved, channels)
	mono = resampleLinear(mono, sampleRate, d.config.TargetSampleRate)
	clampSamples(mono)

	if len(mono) == 0 {
		return nil, ErrEmptyClip
	}

	duration := time.Duration(len(mono)) * time.Second / time.Duration(d.config.TargetSampleRate)

	logger.Debug("Decode completed", logging.Fields{
		"input_sample_rate":  sampleRate,
		"input_channels":     channels,
		"output_samples":     len(mono),
		"output_sample_rate": d.config.TargetSampleRate,
		"output_duration":    duration.Seconds(),
	})

	return &PCMBuffer{
		Samples:    mono,
		SampleRate: d.config.TargetSampleRate,
		Duration:   duration,
	}, nil
}

// decodeWAVClip enforces the duration cap from the header before touching
// sample data.
func (d *Decoder) decodeWAVClip(data []byte) ([]float64, int, int, error) {
	_, declared, err := probeWAV(data)
	if err != nil {
		return nil, 0, 0, err
	}

	if d.config.MaxClipDuration > 0 && declared > d.config.MaxClipDuration {
		return nil, 0, 0, fmt.Errorf("%w: %.1fs exceeds %.0fs limit",
			ErrClipTooLong, declared.Seconds(), d.config.MaxClipDuration.Seconds())
	}

	samples, format, err := decodeWAV(data)
	if err != nil {
		return nil, 0, 0, err
	}
	return samples, format.channels, format.sampleRate, nil
}

// decodeMP3Clip decodes via go-mp3, which always yields 16-bit stereo
// little-endian frames at the source sample rate.
func (d *Decoder) decodeMP3Clip(data []byte) ([]float64, int, int, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %v", ErrCorruptAudio, err)
	}

	sampleRate := dec.SampleRate()
	if sampleRate <= 0 {
		return nil, 0, 0, fmt.Errorf("%w: invalid MP3 sample rate", ErrCorruptAudio)
	}

	// Length is the decoded byte count (4 bytes per stereo frame), known
	// before decoding, so the cap is enforced up front.
	if d.config.MaxClipDuration > 0 {
		frames := dec.Length() / 4
		declared := time.Duration(frames) * time.Second / time.Duration(sampleRate)
		if declared > d.config.MaxClipDuration {
			return nil, 0, 0, fmt.Errorf("%w: %.1fs exceeds %.0fs limit",
				ErrClipTooLong, declared.Seconds(), d.config.MaxClipDuration.Seconds())
		}
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %v", ErrCorruptAudio, err)
	}

	// Trim trailing partial frame
	raw = raw[:len(raw)-(len(raw)%4)]
	frames := len(raw) / 4
	interleaved := make([]float64, frames*2)

	for i := range frames {
		left := int16(binary.LittleEndian.Uint16(raw[i*4 : i*4+2]))
		right := int16(binary.LittleEndian.Uint16(raw[i*4+2 : i*4+4]))
		interleaved[i*2] = float64(left) / 32768.0
		interleaved[i*2+1] = float64(right) / 32768.0
	}

	return interleaved, 2, sampleRate, nil
}

func normalizeMIME(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	return mime
}
