package audio

import (
	"testing"
	"time"
)

func TestEncodeDecodeWAVRoundTrip(t *testing.T) {
	samples := make([]int16, 16000) // 1 second of mono audio
	for i := range samples {
		samples[i] = int16(i % 1000)
	}

	data, err := EncodeWAV(samples, 16000, 1)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	if len(data) != wavHeaderSize+len(samples)*2 {
		t.Errorf("unexpected encoded size %d", len(data))
	}

	decoded, rate, channels, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if rate != 16000 {
		t.Errorf("expected rate 16000, got %d", rate)
	}
	if channels != 1 {
		t.Errorf("expected 1 channel, got %d", channels)
	}
	if len(decoded) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(decoded))
	}
	for i := range samples {
		if decoded[i] != samples[i] {
			t.Fatalf("sample %d mismatch: got %d, want %d", i, decoded[i], samples[i])
		}
	}
}

func TestEncodeWAVStereo(t *testing.T) {
	samples := make([]int16, 3200) // interleaved stereo
	data, err := EncodeWAV(samples, 16000, 2)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	_, rate, channels, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if rate != 16000 || channels != 2 {
		t.Errorf("got rate=%d channels=%d", rate, channels)
	}
}

func TestEncodeWAVValidation(t *testing.T) {
	if _, err := EncodeWAV(nil, 16000, 1); err == nil {
		t.Error("expected error for empty samples")
	}
	if _, err := EncodeWAV([]int16{1}, 0, 1); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if _, err := EncodeWAV([]int16{1}, 16000, 0); err == nil {
		t.Error("expected error for zero channels")
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	if _, _, _, err := DecodeWAV([]byte("not a wav")); err == nil {
		t.Error("expected error for short data")
	}
	bad := make([]byte, 64)
	copy(bad, "RIFF????NOPE")
	if _, _, _, err := DecodeWAV(bad); err == nil {
		t.Error("expected error for bad format marker")
	}
}

func TestWAVDuration(t *testing.T) {
	samples := make([]int16, 8000) // 0.5s at 16kHz mono
	data, err := EncodeWAV(samples, 16000, 1)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	d, err := WAVDuration(data)
	if err != nil {
		t.Fatalf("WAVDuration failed: %v", err)
	}
	if d != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", d)
	}
}
