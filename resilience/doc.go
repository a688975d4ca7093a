// Package resilience provides the fault-tolerance primitives used by the
// transcription pipeline.
//
// This package includes:
//   - Retry: retries failed provider attempts with exponential backoff and
//     per-attempt deadlines
//   - Bulkhead: bounds how many segment uploads run concurrently
//
// Classification of which errors are worth retrying lives in the errors
// package; Retry only consumes the decision through RetryIf.
package resilience
