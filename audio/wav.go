package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

// wavHeaderSize is the encoded size of a canonical PCM WAV header.
const wavHeaderSize = 44

// EncodeWAV encodes 16-bit PCM samples into WAV format.
// For multi-channel audio, samples must be interleaved.
func EncodeWAV(samples []int16, sampleRate, channels int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("audio: cannot encode empty sample slice")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audio: sample rate must be positive, got %d", sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("audio: channel count must be positive, got %d", channels)
	}

	const bitsPerSample = 16
	dataSize := uint32(len(samples) * 2)

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(samples)*2))
	buf.WriteString("RIFF")
	writeLE(buf, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	writeLE(buf, uint32(16))
	writeLE(buf, uint16(1)) // PCM
	writeLE(buf, uint16(channels))
	writeLE(buf, uint32(sampleRate))
	writeLE(buf, uint32(sampleRate*channels*bitsPerSample/8))
	writeLE(buf, uint16(channels*bitsPerSample/8))
	writeLE(buf, uint16(bitsPerSample))
	buf.WriteString("data")
	writeLE(buf, dataSize)
	if err := binary.Write(buf, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("audio: write sample data: %w", err)
	}

	return buf.Bytes(), nil
}

func writeLE(buf *bytes.Buffer, v any) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}

// DecodeWAV decodes 16-bit PCM WAV data back into samples.
// Returns the samples, sample rate, and channel count.
func DecodeWAV(data []byte) ([]int16, int, int, error) {
	if len(data) < wavHeaderSize {
		return nil, 0, 0, fmt.Errorf("audio: WAV data too short: need at least %d bytes, got %d", wavHeaderSize, len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, 0, fmt.Errorf("audio: not a WAV file")
	}
	if string(data[12:16]) != "fmt " {
		return nil, 0, 0, fmt.Errorf("audio: missing fmt chunk")
	}
	if format := binary.LittleEndian.Uint16(data[20:22]); format != 1 {
		return nil, 0, 0, fmt.Errorf("audio: unsupported audio format %d (only PCM)", format)
	}
	if bits := binary.LittleEndian.Uint16(data[34:36]); bits != 16 {
		return nil, 0, 0, fmt.Errorf("audio: unsupported bit depth %d (only 16-bit)", bits)
	}
	if string(data[36:40]) != "data" {
		return nil, 0, 0, fmt.Errorf("audio: missing data chunk")
	}

	channels := int(binary.LittleEndian.Uint16(data[22:24]))
	sampleRate := int(binary.LittleEndian.Uint32(data[24:28]))
	dataSize := int(binary.LittleEndian.Uint32(data[40:44]))
	if dataSize > len(data)-wavHeaderSize {
		dataSize = len(data) - wavHeaderSize
	}

	numSamples := dataSize / 2
	samples := make([]int16, numSamples)
	if err := binary.Read(bytes.NewReader(data[wavHeaderSize:wavHeaderSize+dataSize]), binary.LittleEndian, samples); err != nil {
		return nil, 0, 0, fmt.Errorf("audio: read sample data: %w", err)
	}

	return samples, sampleRate, channels, nil
}

// WAVDuration returns the audio duration of encoded WAV data.
func WAVDuration(data []byte) (time.Duration, error) {
	if len(data) < wavHeaderSize {
		return 0, fmt.Errorf("audio: WAV data too short")
	}
	sampleRate := binary.LittleEndian.Uint32(data[24:28])
	channels := binary.LittleEndian.Uint16(data[22:24])
	if sampleRate == 0 || channels == 0 {
		return 0, fmt.Errorf("audio: invalid WAV header")
	}
	dataSize := binary.LittleEndian.Uint32(data[40:44])
	frames := dataSize / 2 / uint32(channels)
	return time.Duration(frames) * time.Second / time.Duration(sampleRate), nil
}
