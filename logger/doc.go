// Package logger provides structured logging for the dictation pipeline
// using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component-scoped loggers with structured fields.
// Output defaults to stderr so transcripts printed on stdout stay clean.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.Get("recorder")
//	log.Info("capture started", logger.Fields(logger.FieldDevice, name))
package logger
