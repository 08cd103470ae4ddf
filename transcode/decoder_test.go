package transcode

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWAV builds an in-memory RIFF/WAVE container with 16-bit PCM samples.
// Samples are interleaved float64 in [-1, 1].
func buildWAV(t *testing.T, samples []float64, sampleRate, channels int) []byte {
	t.Helper()

	var body bytes.Buffer
	for _, s := range samples {
		v := int16(math.Round(s * 32767.0))
		require.NoError(t, binary.Write(&body, binary.LittleEndian, v))
	}

	var buf bytes.Buffer
	dataLen := body.Len()
	blockAlign := channels * 2

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(wavFormatPCM))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(body.Bytes())

	return buf.Bytes()
}

// sineSamples generates a mono sine wave
func sineSamples(freq float64, sampleRate int, duration time.Duration, amplitude float64) []float64 {
	n := int(float64(sampleRate) * duration.Seconds())
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2.0*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return samples
}

func TestDecodeWAVMono16kHz(t *testing.T) {
	decoder := NewDecoder(nil)

	samples := sineSamples(220.0, 16000, time.Second, 0.5)
	clip := AudioClip{Data: buildWAV(t, samples, 16000, 1), MIMEType: "audio/wav"}

	pcm, err := decoder.Decode(clip)
	require.NoError(t, err)
	require.NotNil(t, pcm)

	assert.Equal(t, 16000, pcm.SampleRate)
	assert.Equal(t, 16000, len(pcm.Samples))
	assert.InDelta(t, 1.0, pcm.Duration.Seconds(), 0.01)

	for _, s := range pcm.Samples {
		assert.GreaterOrEqual(t, s, -1.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestDecodeWAVStereoDownmix(t *testing.T) {
	decoder := NewDecoder(nil)

	// Opposite-phase channels cancel to silence after downmix
	mono := sineSamples(220.0, 16000, 500*time.Millisecond, 0.5)
	interleaved := make([]float64, len(mono)*2)
	for i, s := range mono {
		interleaved[i*2] = s
		interleaved[i*2+1] = -s
	}

	clip := AudioClip{Data: buildWAV(t, interleaved, 16000, 2), MIMEType: "audio/wav"}

	pcm, err := decoder.Decode(clip)
	require.NoError(t, err)

	assert.Equal(t, len(mono), len(pcm.Samples))
	for _, s := range pcm.Samples {
		assert.InDelta(t, 0.0, s, 0.001)
	}
}

func TestDecodeWAVResamples(t *testing.T) {
	decoder := NewDecoder(&DecoderConfig{TargetSampleRate: 16000, MaxClipDuration: 120 * time.Second})

	samples := sineSamples(440.0, 44100, time.Second, 0.5)
	clip := AudioClip{Data: buildWAV(t, samples, 44100, 1), MIMEType: "audio/wav"}

	pcm, err := decoder.Decode(clip)
	require.NoError(t, err)

	assert.Equal(t, 16000, pcm.SampleRate)
	assert.InDelta(t, 16000, len(pcm.Samples), 2)
}

func TestDecodeEmptyClip(t *testing.T) {
	decoder := NewDecoder(nil)

	_, err := decoder.Decode(AudioClip{Data: nil, MIMEType: "audio/wav"})
	assert.ErrorIs(t, err, ErrEmptyClip)
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	decoder := NewDecoder(nil)

	samples := sineSamples(220.0, 16000, 100*time.Millisecond, 0.5)
	clip := AudioClip{Data: buildWAV(t, samples, 16000, 1), MIMEType: "audio/ogg"}

	_, err := decoder.Decode(clip)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeCorruptWAV(t *testing.T) {
	decoder := NewDecoder(nil)

	cases := map[string][]byte{
		"garbage bytes":  []byte("this is definitely not audio data at all"),
		"header only":    []byte("RIFF\x00\x00\x00\x00WAVE"),
		"missing fmt":    append([]byte("RIFF\x24\x00\x00\x00WAVE"), []byte("data\x04\x00\x00\x00abcd")...),
		"truncated riff": []byte("RIF"),
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decoder.Decode(AudioClip{Data: data, MIMEType: "audio/wav"})
			assert.ErrorIs(t, err, ErrCorruptAudio)
		})
	}
}

func TestDecodeCorruptMP3(t *testing.T) {
	decoder := NewDecoder(nil)

	_, err := decoder.Decode(AudioClip{
		Data:     []byte("not an mpeg stream at all, just text bytes"),
		MIMEType: "audio/mpeg",
	})
	assert.ErrorIs(t, err, ErrCorruptAudio)
}

func TestDecodeClipTooLong(t *testing.T) {
	decoder := NewDecoder(&DecoderConfig{TargetSampleRate: 16000, MaxClipDuration: 2 * time.Second})

	samples := sineSamples(220.0, 8000, 3*time.Second, 0.3)
	clip := AudioClip{Data: buildWAV(t, samples, 8000, 1), MIMEType: "audio/wav"}

	_, err := decoder.Decode(clip)
	assert.ErrorIs(t, err, ErrClipTooLong)
}

func TestDecodeMIMENormalization(t *testing.T) {
	decoder := NewDecoder(nil)

	samples := sineSamples(220.0, 16000, 100*time.Millisecond, 0.5)
	data := buildWAV(t, samples, 16000, 1)

	for _, mime := range []string{"audio/wav", "Audio/WAV", "audio/x-wav", "audio/wave; charset=binary"} {
		_, err := decoder.Decode(AudioClip{Data: data, MIMEType: mime})
		assert.NoError(t, err, "mime %q should decode", mime)
	}
}

func TestProbeWAVDuration(t *testing.T) {
	samples := sineSamples(220.0, 16000, 2*time.Second, 0.5)
	data := buildWAV(t, samples, 16000, 1)

	format, duration, err := probeWAV(data)
	require.NoError(t, err)

	assert.Equal(t, 1, format.channels)
	assert.Equal(t, 16000, format.sampleRate)
	assert.Equal(t, 16, format.bitsPerSample)
	assert.InDelta(t, 2.0, duration.Seconds(), 0.01)
}
