package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/process"
)

// Compressor turns WAV data into a smaller lossy encoding.
type Compressor interface {
	// Available reports whether the compressor can run in this environment.
	Available() bool

	// Compress encodes WAV data. Returns the compressed bytes and the
	// container format (e.g. "mp3").
	Compress(ctx context.Context, wav []byte) ([]byte, string, error)
}

// FFmpegCompressor shells out to ffmpeg for MP3 encoding. Speech does
// not need more than 64k, and Whisper models don't benefit from it.
type FFmpegCompressor struct {
	// Binary is the ffmpeg executable. Defaults to "ffmpeg".
	Binary string
	// Bitrate is the MP3 bitrate, e.g. "64k".
	Bitrate string
	// Timeout bounds one encoding run. Defaults to 2 minutes.
	Timeout time.Duration

	log *logger.Logger
}

// NewFFmpegCompressor creates an MP3 compressor with the given bitrate.
func NewFFmpegCompressor(bitrate string) *FFmpegCompressor {
	if bitrate == "" {
		bitrate = "64k"
	}
	return &FFmpegCompressor{
		Binary:  "ffmpeg",
		Bitrate: bitrate,
		Timeout: 2 * time.Minute,
		log:     logger.WithComponent("audio.compress"),
	}
}

// Available reports whether the ffmpeg binary is on PATH.
func (c *FFmpegCompressor) Available() bool {
	_, err := exec.LookPath(c.Binary)
	return err == nil
}

// Compress encodes WAV bytes to MP3 via ffmpeg on stdin/stdout.
func (c *FFmpegCompressor) Compress(ctx context.Context, wav []byte) ([]byte, string, error) {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := process.Run(ctx, process.Command{
		Binary: c.Binary,
		Args: []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "wav", "-i", "pipe:0",
			"-b:a", c.Bitrate,
			"-f", "mp3", "pipe:1",
		},
		Stdin: bytes.NewReader(wav),
	})
	if err != nil {
		return nil, "", fmt.Errorf("audio: ffmpeg encode failed: %w", err)
	}
	if len(result.Stdout) == 0 {
		return nil, "", fmt.Errorf("audio: ffmpeg produced no output")
	}

	c.log.Info("compressed recording", logger.Fields(
		"wav_kb", len(wav)/1024,
		"mp3_kb", len(result.Stdout)/1024,
	))
	return result.Stdout, "mp3", nil
}
