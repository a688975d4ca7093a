package audio

import (
	"io"
	"sync"
	"testing"
	"time"

	apperrors "github.com/kbukum/scribe/errors"
)

type fakeStream struct {
	blocks    chan []int16
	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeStream() *fakeStream {
	return &fakeStream{
		blocks: make(chan []int16, 16),
		closed: make(chan struct{}),
	}
}

func (s *fakeStream) ReadBlock() ([]int16, error) {
	select {
	case block := <-s.blocks:
		return block, nil
	case <-s.closed:
		return nil, io.EOF
	}
}

func (s *fakeStream) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

func (s *fakeStream) push(block []int16) {
	s.blocks <- block
}

type fakeInventory struct {
	stream      *fakeStream
	failNamed   bool
	failDefault bool
	openedNamed string
}

func (f *fakeInventory) Devices() ([]Device, error) {
	return []Device{{ID: "default", Name: "Built-in Microphone", Default: true}}, nil
}

func (f *fakeInventory) Open(deviceID string, sampleRate, channels int) (SampleStream, error) {
	if f.failNamed {
		return nil, io.ErrUnexpectedEOF
	}
	f.openedNamed = deviceID
	return f.stream, nil
}

func (f *fakeInventory) OpenDefault(sampleRate, channels int) (SampleStream, Device, error) {
	if f.failDefault {
		return nil, Device{}, io.ErrUnexpectedEOF
	}
	return f.stream, Device{ID: "default", Name: "Built-in Microphone", Default: true}, nil
}

// waitLevels polls until the recorder has processed n blocks.
func waitLevels(t *testing.T, r *Recorder, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(r.LevelHistory()) >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("recorder never processed %d blocks", n)
}

func testBlock(value int16, n int) []int16 {
	block := make([]int16, n)
	for i := range block {
		block[i] = value
	}
	return block
}

func TestRecorderStartStop(t *testing.T) {
	inv := &fakeInventory{stream: newFakeStream()}
	r := NewRecorder(inv, RecorderConfig{SampleRate: 16000, Channels: 1})

	if err := r.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if r.State() != StateRecording {
		t.Errorf("expected recording state, got %s", r.State())
	}

	inv.stream.push(testBlock(500, 1600))
	inv.stream.push(testBlock(500, 1600))
	waitLevels(t, r, 2)

	if r.CurrentRMS() <= 0 {
		t.Error("expected positive RMS while recording")
	}

	buf, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if buf.Frames() != 3200 {
		t.Errorf("expected 3200 frames, got %d", buf.Frames())
	}
	if r.State() != StateIdle {
		t.Errorf("expected idle after stop, got %s", r.State())
	}
}

func TestRecorderStartWhileActive(t *testing.T) {
	inv := &fakeInventory{stream: newFakeStream()}
	r := NewRecorder(inv, RecorderConfig{SampleRate: 16000, Channels: 1})

	if err := r.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	err := r.Start()
	if err == nil {
		t.Fatal("expected error starting twice")
	}
	if !apperrors.HasCode(err, apperrors.ErrCodeRecorderState) {
		t.Errorf("expected RECORDER_STATE, got %v", err)
	}
	r.Cancel()
}

func TestRecorderStopWhileIdle(t *testing.T) {
	inv := &fakeInventory{stream: newFakeStream()}
	r := NewRecorder(inv, RecorderConfig{SampleRate: 16000, Channels: 1})

	if _, err := r.Stop(); err == nil {
		t.Fatal("expected error stopping idle recorder")
	}
}

func TestRecorderPauseDropsSamples(t *testing.T) {
	inv := &fakeInventory{stream: newFakeStream()}
	r := NewRecorder(inv, RecorderConfig{SampleRate: 16000, Channels: 1})

	if err := r.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	inv.stream.push(testBlock(100, 1600))
	waitLevels(t, r, 1)

	if err := r.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if r.State() != StatePaused {
		t.Errorf("expected paused, got %s", r.State())
	}

	// Blocks arriving while paused are discarded.
	inv.stream.push(testBlock(100, 1600))
	time.Sleep(50 * time.Millisecond)

	if err := r.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	inv.stream.push(testBlock(100, 1600))
	waitLevels(t, r, 2)

	buf, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if buf.Frames() != 3200 {
		t.Errorf("expected 3200 frames (paused block dropped), got %d", buf.Frames())
	}
}

func TestRecorderPauseFreezesDuration(t *testing.T) {
	inv := &fakeInventory{stream: newFakeStream()}
	r := NewRecorder(inv, RecorderConfig{SampleRate: 16000, Channels: 1})

	if err := r.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := r.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}

	frozen := r.Duration()
	time.Sleep(30 * time.Millisecond)
	if got := r.Duration(); got != frozen {
		t.Errorf("duration moved while paused: %v -> %v", frozen, got)
	}

	if err := r.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if got := r.Duration(); got <= frozen {
		t.Errorf("duration did not advance after resume: %v", got)
	}
	r.Cancel()
}

func TestRecorderCancelDiscardsBuffer(t *testing.T) {
	inv := &fakeInventory{stream: newFakeStream()}
	r := NewRecorder(inv, RecorderConfig{SampleRate: 16000, Channels: 1})

	if err := r.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	inv.stream.push(testBlock(100, 1600))
	waitLevels(t, r, 1)

	r.Cancel()
	if r.State() != StateIdle {
		t.Errorf("expected idle after cancel, got %s", r.State())
	}
	if _, err := r.Stop(); err == nil {
		t.Error("stop after cancel should fail, buffer is gone")
	}
}

func TestRecorderDeviceFallback(t *testing.T) {
	inv := &fakeInventory{stream: newFakeStream(), failNamed: true}
	r := NewRecorder(inv, RecorderConfig{SampleRate: 16000, Channels: 1, Device: "usb-mic"})

	if err := r.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if r.DeviceInUse() != "default" {
		t.Errorf("expected fallback to default device, got %q", r.DeviceInUse())
	}
	r.Cancel()
}

func TestRecorderNoDevice(t *testing.T) {
	inv := &fakeInventory{stream: newFakeStream(), failNamed: true, failDefault: true}
	r := NewRecorder(inv, RecorderConfig{SampleRate: 16000, Channels: 1, Device: "usb-mic"})

	err := r.Start()
	if err == nil {
		t.Fatal("expected error when no device exists")
	}
	if !apperrors.HasCode(err, apperrors.ErrCodeDeviceUnavailable) {
		t.Errorf("expected DEVICE_UNAVAILABLE, got %v", err)
	}
	if r.State() != StateIdle {
		t.Errorf("failed start must stay idle, got %s", r.State())
	}
}

func TestRecorderLevelHistoryBounded(t *testing.T) {
	inv := &fakeInventory{stream: newFakeStream()}
	r := NewRecorder(inv, RecorderConfig{SampleRate: 16000, Channels: 1})

	if err := r.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for i := 0; i < levelHistorySize+10; i++ {
		inv.stream.push(testBlock(50, 160))
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && len(r.LevelHistory()) < levelHistorySize {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)

	if got := len(r.LevelHistory()); got != levelHistorySize {
		t.Errorf("history should cap at %d entries, got %d", levelHistorySize, got)
	}
	r.Cancel()
}
