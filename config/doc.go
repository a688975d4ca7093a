// Package config provides configuration loading and validation for the
// scribe daemon.
//
// It uses Viper to load configuration from config.yml and environment
// variables, with godotenv picking up a local .env file first.
//
// # Usage
//
//	cfg, err := config.Load()
//
// Environment variables override file values using the SCRIBE_ prefix with
// underscore-separated paths (e.g., SCRIBE_TRANSCRIPTION_MODEL). Provider
// API keys are read from GROQ_API_KEY and OPENAI_API_KEY.
package config
