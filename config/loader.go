package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix namespaces environment overrides, e.g. SCRIBE_TRANSCRIPTION_MODEL.
// Provider API keys are the exception: they are read from their conventional
// unprefixed names (GROQ_API_KEY, OPENAI_API_KEY).
const envPrefix = "SCRIBE"

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver handles finding config and env files when no explicit
// paths are given.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles finds config and env files.
// Returns explicit paths if provided, otherwise searches standard locations.
func (r *Resolver) ResolveFiles(opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.findFirst(configSearchPaths)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.findFirst(envSearchPaths)
	}

	return resolved
}

var configSearchPaths = []string{
	"./cmd/scribed/config.yml",
	"./config/config.yml",
	"./config.yml",
	"../config.yml",
}

var envSearchPaths = []string{
	"./.env",
	"../.env",
	"./config/.env",
}

func (r *Resolver) findFirst(paths []string) string {
	for _, path := range paths {
		if r.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct .env file path (optional)
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads configuration from config.yml, .env, and the environment,
// applies defaults, and validates the result.
func Load(opts ...LoaderOption) (*Settings, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(lc)

	cfg := &Settings{}
	if err := loadFromResolvedFiles(cfg, files, lc.FileSystem); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromResolvedFiles loads configuration from specific files.
func loadFromResolvedFiles(cfg *Settings, files ResolvedFiles, fs FileSystem) error {
	// .env first so that viper's env binding sees its variables.
	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			fmt.Fprintf(os.Stderr, "[config] warning: failed to load .env file %s: %v\n", files.EnvFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if files.ConfigFile != "" && fs.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", files.ConfigFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// API keys come from their conventional environment names only,
	// never from the config file.
	cfg.Transcription.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	cfg.Transcription.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	return nil
}

// bindEnvKeys registers every settings key with viper so AutomaticEnv
// resolves SCRIBE_SECTION_FIELD overrides even when the key is absent
// from the config file.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"name",
		"environment",
		"debug",
		"logging.level",
		"logging.format",
		"logging.output",
		"audio.sample_rate",
		"audio.channels",
		"audio.input_device",
		"audio.min_duration",
		"transcription.primary_provider",
		"transcription.model",
		"transcription.language",
		"transcription.prompt",
		"transcription.max_attempts",
		"transcription.initial_backoff",
		"transcription.max_backoff",
		"transcription.attempt_timeout",
		"transcription.workers",
		"transcription.compress_bitrate",
		"post_process.enabled",
		"post_process.model",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}
