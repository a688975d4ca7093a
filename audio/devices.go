package audio

// Device describes one input device known to the inventory.
type Device struct {
	ID         string
	Name       string
	Channels   int
	SampleRate int
	Default    bool
}

// SampleStream is a live microphone stream producing interleaved 16-bit
// PCM blocks.
type SampleStream interface {
	// ReadBlock blocks until the next sample block is available.
	// Returns io.EOF when the stream has been closed.
	ReadBlock() ([]int16, error)

	// Close releases the device.
	Close() error
}

// DeviceInventory is the boundary to the platform audio backend. The
// recorder only ever asks it to open streams; enumeration exists for
// settings surfaces.
type DeviceInventory interface {
	// Devices lists the available input devices.
	Devices() ([]Device, error)

	// Open opens the named input device with the requested format.
	Open(deviceID string, sampleRate, channels int) (SampleStream, error)

	// OpenDefault opens the system default input device. Returns the
	// stream and the device that was actually opened.
	OpenDefault(sampleRate, channels int) (SampleStream, Device, error)
}
