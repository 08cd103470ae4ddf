package transcode

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// wavFormat holds the fields of a RIFF/WAVE fmt chunk we care about.
type wavFormat struct {
	audioFormat   uint16 // 1 = PCM, 3 = IEEE float
	channels      int
	sampleRate    int
	bitsPerSample int
	blockAlign    int
}

const (
	wavFormatPCM       = 1
	wavFormatIEEEFloat = 3
)

// isWAV reports whether data starts with a RIFF/WAVE header.
func isWAV(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WAVE"
}

// probeWAV parses the chunk headers without decoding samples, returning the
// format and the declared duration. The duration check happens before sample
// decoding so an oversized clip is rejected cheaply.
func probeWAV(data []byte) (*wavFormat, time.Duration, error) {
	format, dataLen, _, err := scanWAVChunks(data)
	if err != nil {
		return nil, 0, err
	}

	bytesPerFrame := format.blockAlign
	if bytesPerFrame <= 0 {
		bytesPerFrame = format.channels * format.bitsPerSample / 8
	}
	if bytesPerFrame <= 0 {
		return nil, 0, fmt.Errorf("%w: invalid block alignment", ErrCorruptAudio)
	}

	frames := dataLen / bytesPerFrame
	duration := time.Duration(frames) * time.Second / time.Duration(format.sampleRate)
	return format, duration, nil
}

// decodeWAV decodes the data chunk into interleaved float64 samples in [-1, 1].
func decodeWAV(data []byte) ([]float64, *wavFormat, error) {
	format, dataLen, dataOffset, err := scanWAVChunks(data)
	if err != nil {
		return nil, nil, err
	}

	payload := data[dataOffset : dataOffset+dataLen]
	bytesPerSample := format.bitsPerSample / 8
	if bytesPerSample <= 0 {
		return nil, nil, fmt.Errorf("%w: invalid bits per sample %d", ErrCorruptAudio, format.bitsPerSample)
	}

	// Trim any trailing partial sample
	payload = payload[:len(payload)-(len(payload)%bytesPerSample)]
	sampleCount := len(payload) / bytesPerSample
	samples := make([]float64, sampleCount)

	switch {
	case format.audioFormat == wavFormatPCM && format.bitsPerSample == 8:
		// 8-bit WAV is unsigned
		for i := range sampleCount {
			samples[i] = (float64(payload[i]) - 128.0) / 128.0
		}

	case format.audioFormat == wavFormatPCM && format.bitsPerSample == 16:
		for i := range sampleCount {
			v := int16(binary.LittleEndian.Uint16(payload[i*2 : i*2+2]))
			samples[i] = float64(v) / 32768.0
		}

	case format.audioFormat == wavFormatPCM && format.bitsPerSample == 24:
		for i := range sampleCount {
			b := payload[i*3 : i*3+3]
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			if v&0x800000 != 0 {
				v |= ^int32(0xFFFFFF) // Sign extend
			}
			samples[i] = float64(v) / 8388608.0
		}

	case format.audioFormat == wavFormatPCM && format.bitsPerSample == 32:
		for i := range sampleCount {
			v := int32(binary.LittleEndian.Uint32(payload[i*4 : i*4+4]))
			samples[i] = float64(v) / 2147483648.0
		}

	case format.audioFormat == wavFormatIEEEFloat && format.bitsPerSample == 32:
		for i := range sampleCount {
			bits := binary.LittleEndian.Uint32(payload[i*4 : i*4+4])
			samples[i] = float64(math.Float32frombits(bits))
		}

	default:
		return nil, nil, fmt.Errorf("%w: unsupported WAV encoding (format=%d, bits=%d)",
			ErrCorruptAudio, format.audioFormat, format.bitsPerSample)
	}

	return samples, format, nil
}

// scanWAVChunks walks the RIFF chunk list and returns the parsed fmt chunk
// plus the offset and length of the data chunk.
func scanWAVChunks(data []byte) (*wavFormat, int, int, error) {
	if !isWAV(data) {
		return nil, 0, 0, fmt.Errorf("%w: missing RIFF/WAVE header", ErrCorruptAudio)
	}

	var format *wavFormat
	dataOffset := -1
	dataLen := 0

	pos := 12
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8

		if chunkSize < 0 || body > len(data) {
			return nil, 0, 0, fmt.Errorf("%w: invalid chunk size for %q", ErrCorruptAudio, chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 || body+16 > len(data) {
				return nil, 0, 0, fmt.Errorf("%w: truncated fmt chunk", ErrCorruptAudio)
			}
			format = &wavFormat{
				audioFormat:   binary.LittleEndian.Uint16(data[body : body+2]),
				channels:      int(binary.LittleEndian.Uint16(data[body+2 : body+4])),
				sampleRate:    int(binary.LittleEndian.Uint32(data[body+4 : body+8])),
				blockAlign:    int(binary.LittleEndian.Uint16(data[body+12 : body+14])),
				bitsPerSample: int(binary.LittleEndian.Uint16(data[body+14 : body+16])),
			}

		case "data":
			dataOffset = body
			dataLen = chunkSize
			if body+dataLen > len(data) {
				// Truncated data chunk: take what is actually present
				dataLen = len(data) - body
			}
		}

		// Chunks are word-aligned
		pos = body + chunkSize
		if chunkSize%2 == 1 {
			pos++
		}
	}

	if format == nil {
		return nil, 0, 0, fmt.Errorf("%w: no fmt chunk", ErrCorruptAudio)
	}
	if format.channels <= 0 || format.channels > 8 {
		return nil, 0, 0, fmt.Errorf("%w: invalid channel count %d", ErrCorruptAudio, format.channels)
	}
	if format.sampleRate <= 0 {
		return nil, 0, 0, fmt.Errorf("%w: invalid sample rate %d", ErrCorruptAudio, format.sampleRate)
	}
	if dataOffset < 0 {
		return nil, 0, 0, fmt.Errorf("%w: no data chunk", ErrCorruptAudio)
	}

	return format, dataLen, dataOffset, nil
}
