// Package audio owns microphone capture and segment preparation.
//
// Recorder accumulates PCM sample blocks from a device stream opened
// through a DeviceInventory, computing per-block amplitude levels off
// the capture path for live waveform feedback. Stop hands the finished
// Buffer over; the recorder never touches it again.
//
// Chunker turns a finished Buffer into provider-size-compliant
// Segments: one segment for the common case, MP3 compression via ffmpeg
// for oversized recordings, and a contiguous sample-boundary WAV split
// when compression is unavailable or insufficient.
package audio
