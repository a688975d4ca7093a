package transcription

// Request holds one audio segment to transcribe.
type Request struct {
	// Audio is the encoded audio payload.
	Audio []byte
	// FileName is the upload name presented to the provider (e.g. "recording.wav").
	FileName string
	// Format is the audio container format, "wav" or "mp3".
	Format string
	// Language is the expected language of the audio (e.g. "en"). Empty
	// lets the provider auto-detect.
	Language string
	// Prompt optionally biases the model toward expected vocabulary.
	Prompt string
	// Model overrides the provider's configured model when set.
	Model string
}

// Response holds the result of a single transcription call.
type Response struct {
	// Text is the transcribed text.
	Text string
}

// SegmentTranscript is the transcript of one audio segment together with
// the provider that produced it.
type SegmentTranscript struct {
	// Index is the segment's position in the recording, starting at 0.
	Index int
	// Text is the transcribed text for this segment.
	Text string
	// Provider is the name of the backend that produced the text.
	Provider string
	// Attempts is how many calls it took, across retries, to get the text.
	Attempts int
}

// TranscriptResult is the merged transcript of a full recording.
type TranscriptResult struct {
	// Text is the final transcript, post-processed when cleanup ran and
	// its output passed validation.
	Text string
	// Segments holds the per-segment transcripts in index order.
	Segments []SegmentTranscript
	// PostProcessed reports whether Text is the cleaned-up version.
	PostProcessed bool
}
