package audio

import (
	"math"
	"time"
)

// Level is the amplitude of one sample block, normalized into [0, 1].
type Level struct {
	RMS  float64
	Peak float64
}

// Buffer is an ordered sequence of PCM sample blocks with a computed
// amplitude per block. The recorder owns it while recording; Stop
// transfers ownership and the buffer is never mutated afterwards.
type Buffer struct {
	sampleRate int
	channels   int
	blocks     [][]int16
	levels     []Level
	frames     int
}

// NewBuffer creates an empty buffer for the given capture format.
func NewBuffer(sampleRate, channels int) *Buffer {
	return &Buffer{
		sampleRate: sampleRate,
		channels:   channels,
	}
}

// Append adds one sample block and its amplitude to the buffer.
func (b *Buffer) Append(block []int16, level Level) {
	b.blocks = append(b.blocks, block)
	b.levels = append(b.levels, level)
	b.frames += len(block) / b.channels
}

// SampleRate returns the capture sample rate in Hz.
func (b *Buffer) SampleRate() int { return b.sampleRate }

// Channels returns the capture channel count.
func (b *Buffer) Channels() int { return b.channels }

// Frames returns the number of sample frames accumulated.
func (b *Buffer) Frames() int { return b.frames }

// Duration returns the recorded audio duration.
func (b *Buffer) Duration() time.Duration {
	if b.sampleRate == 0 {
		return 0
	}
	return time.Duration(b.frames) * time.Second / time.Duration(b.sampleRate)
}

// Samples concatenates all blocks into one contiguous slice.
func (b *Buffer) Samples() []int16 {
	out := make([]int16, 0, b.frames*b.channels)
	for _, block := range b.blocks {
		out = append(out, block...)
	}
	return out
}

// Levels returns the per-block amplitudes in capture order.
func (b *Buffer) Levels() []Level {
	out := make([]Level, len(b.levels))
	copy(out, b.levels)
	return out
}

// Empty reports whether no samples were accumulated.
func (b *Buffer) Empty() bool { return b.frames == 0 }

// BlockLevel computes the normalized RMS and peak amplitude of a block.
// The 12x gain keeps quiet or distant microphones visible on a waveform.
func BlockLevel(block []int16) Level {
	if len(block) == 0 {
		return Level{}
	}
	var sum float64
	var peak float64
	for _, s := range block {
		v := float64(s)
		sum += v * v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	rms := math.Sqrt(sum / float64(len(block)))
	return Level{
		RMS:  clamp01(rms / 32768.0 * 12.0),
		Peak: clamp01(peak / 32768.0),
	}
}

func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
