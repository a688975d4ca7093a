package audio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// blockFrames is the capture block size: 100 ms at the configured rate.
func blockFrames(sampleRate int) int { return sampleRate / 10 }

// FFmpegInventory opens microphone streams by running ffmpeg against the
// platform capture backend (pulse on Linux, avfoundation on macOS). It
// satisfies DeviceInventory without a cgo audio binding.
type FFmpegInventory struct {
	// Binary is the ffmpeg executable. Defaults to "ffmpeg".
	Binary string
	// Backend is the ffmpeg input format, e.g. "pulse" or "alsa".
	Backend string
}

// NewFFmpegInventory creates an inventory for the given capture backend.
func NewFFmpegInventory(backend string) *FFmpegInventory {
	if backend == "" {
		backend = "pulse"
	}
	return &FFmpegInventory{Binary: "ffmpeg", Backend: backend}
}

func (f *FFmpegInventory) binary() string {
	if f.Binary != "" {
		return f.Binary
	}
	return "ffmpeg"
}

// Devices lists capture sources via `ffmpeg -sources <backend>`.
// Enumeration failures degrade to a single default entry rather than
// blocking capture.
func (f *FFmpegInventory) Devices() ([]Device, error) {
	out, err := exec.Command(f.binary(), "-hide_banner", "-sources", f.Backend).CombinedOutput() //nolint:gosec
	if err != nil {
		return []Device{{ID: "default", Name: "System default", Default: true}}, nil
	}

	var devices []Device
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Lines look like: "  alsa_input.usb-mic [USB Microphone]".
		if line == "" || strings.HasPrefix(line, "Auto-detected") || strings.HasPrefix(line, "-") {
			continue
		}
		fields := strings.SplitN(line, " [", 2)
		id := strings.TrimPrefix(strings.TrimSpace(fields[0]), "* ")
		if id == "" {
			continue
		}
		name := id
		if len(fields) == 2 {
			name = strings.TrimSuffix(fields[1], "]")
		}
		devices = append(devices, Device{
			ID:      id,
			Name:    name,
			Default: strings.HasPrefix(strings.TrimSpace(fields[0]), "*"),
		})
	}
	if len(devices) == 0 {
		devices = []Device{{ID: "default", Name: "System default", Default: true}}
	}
	return devices, nil
}

// Open starts an ffmpeg capture process for the named device.
func (f *FFmpegInventory) Open(deviceID string, sampleRate, channels int) (SampleStream, error) {
	return f.open(deviceID, sampleRate, channels)
}

// OpenDefault opens the backend's default capture source.
func (f *FFmpegInventory) OpenDefault(sampleRate, channels int) (SampleStream, Device, error) {
	stream, err := f.open("default", sampleRate, channels)
	if err != nil {
		return nil, Device{}, err
	}
	return stream, Device{ID: "default", Name: "System default", Default: true}, nil
}

func (f *FFmpegInventory) open(deviceID string, sampleRate, channels int) (SampleStream, error) {
	cmd := exec.Command(f.binary(), //nolint:gosec
		"-hide_banner", "-loglevel", "error",
		"-f", f.Backend, "-i", deviceID,
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-f", "s16le", "pipe:1",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("audio: capture pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("audio: start capture for %q: %w", deviceID, err)
	}

	return &ffmpegStream{
		cmd:        cmd,
		stdout:     stdout,
		blockBytes: blockFrames(sampleRate) * channels * 2,
		closed:     make(chan struct{}),
	}, nil
}

// ffmpegStream reads interleaved s16le blocks from a capture process.
type ffmpegStream struct {
	cmd        *exec.Cmd
	stdout     io.ReadCloser
	blockBytes int
	closeOnce  sync.Once
	closed     chan struct{}
}

func (s *ffmpegStream) ReadBlock() ([]int16, error) {
	raw := make([]byte, s.blockBytes)
	n, err := io.ReadFull(s.stdout, raw)
	if err != nil {
		select {
		case <-s.closed:
			return nil, io.EOF
		default:
		}
		if n == 0 {
			return nil, io.EOF
		}
		raw = raw[:n-n%2]
		if len(raw) == 0 {
			return nil, io.EOF
		}
	}

	block := make([]int16, len(raw)/2)
	for i := range block {
		block[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return block, nil
}

func (s *ffmpegStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		err = s.stdout.Close()
		_ = s.cmd.Wait()
	})
	return err
}
