// Package errors provides unified error handling for the dictation pipeline.
// It implements structured error types with machine-readable codes and
// retryable classification covering capture, chunking, provider, and
// session failure conditions.
package errors
