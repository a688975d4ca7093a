package audio

import (
	"context"

	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
)

// MaxSegmentBytes is the provider upload ceiling for one segment.
const MaxSegmentBytes = 25 * 1024 * 1024 // 25 MB

// Segment is a size-bounded slice of a recording sent as one unit to a
// transcription provider. Indices are contiguous from 0 and ordered by
// time range. Immutable once produced.
type Segment struct {
	Index    int
	Data     []byte
	Format   string // "wav" or "mp3"
	FileName string
}

// Chunker prepares a finished Buffer for upload.
type Chunker struct {
	ceiling    int
	compressor Compressor
	log        *logger.Logger
}

// NewChunker creates a chunker with the default 25 MB ceiling.
// compressor may be nil to disable the compression path.
func NewChunker(compressor Compressor) *Chunker {
	return &Chunker{
		ceiling:    MaxSegmentBytes,
		compressor: compressor,
		log:        logger.WithComponent("audio.chunker"),
	}
}

// Prepare encodes the buffer and splits it into segments that each fit
// the ceiling.
//
// Under the ceiling, exactly one WAV segment comes back. Over it, lossy
// compression is tried first to keep a single upload; when compression
// is unavailable, fails, or still exceeds the ceiling, the raw samples
// are split along sample-frame boundaries into independently decodable
// WAV segments with no gaps or overlaps.
func (c *Chunker) Prepare(ctx context.Context, buf *Buffer) ([]Segment, error) {
	if buf == nil || buf.Empty() {
		return nil, nil
	}

	samples := buf.Samples()
	wav, err := EncodeWAV(samples, buf.SampleRate(), buf.Channels())
	if err != nil {
		return nil, err
	}

	if len(wav) <= c.ceiling {
		return []Segment{{Index: 0, Data: wav, Format: "wav", FileName: "recording.wav"}}, nil
	}

	if c.compressor != nil && c.compressor.Available() {
		compressed, format, cerr := c.compressor.Compress(ctx, wav)
		if cerr != nil {
			c.log.Warn("compression failed, splitting raw audio", logger.Fields(logger.FieldError, cerr))
		} else if len(compressed) <= c.ceiling {
			return []Segment{{Index: 0, Data: compressed, Format: format, FileName: "recording." + format}}, nil
		} else {
			c.log.Warn("compressed audio still over ceiling, splitting raw audio", logger.Fields(
				logger.FieldSizeBytes, len(compressed)))
		}
	}

	return c.split(samples, buf.SampleRate(), buf.Channels())
}

// split cuts the sample slice into contiguous frame-aligned WAV segments.
func (c *Chunker) split(samples []int16, sampleRate, channels int) ([]Segment, error) {
	// Frames per segment such that header + frames*channels*2 <= ceiling.
	framesPerSegment := (c.ceiling - wavHeaderSize) / (channels * 2)
	if framesPerSegment <= 0 {
		return nil, apperrors.SegmentSizeExceeded(len(samples)*2+wavHeaderSize, c.ceiling)
	}
	valuesPerSegment := framesPerSegment * channels

	var segments []Segment
	for start := 0; start < len(samples); start += valuesPerSegment {
		end := start + valuesPerSegment
		if end > len(samples) {
			end = len(samples)
		}
		data, err := EncodeWAV(samples[start:end], sampleRate, channels)
		if err != nil {
			return nil, err
		}
		if len(data) > c.ceiling {
			return nil, apperrors.SegmentSizeExceeded(len(data), c.ceiling)
		}
		segments = append(segments, Segment{
			Index:    len(segments),
			Data:     data,
			Format:   "wav",
			FileName: "recording.wav",
		})
	}

	c.log.Info("split recording into segments", logger.Fields(
		logger.FieldSegment, len(segments),
		logger.FieldSizeBytes, len(samples)*2,
	))
	return segments, nil
}
