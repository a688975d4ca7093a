// Package validation validates settings and other structured input.
//
// It supports struct tag validation (using the validator library) and
// programmatic validation with error collection for cross-field rules.
// Both report failures as a single InvalidConfig AppError listing every
// offending field.
//
// # Struct Tag Validation
//
//	type AudioConfig struct {
//	    SampleRate int `mapstructure:"sample_rate" validate:"gte=8000,lte=48000"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(cfg.InitialBackoff <= cfg.MaxBackoff, "initial_backoff", "must not exceed max_backoff")
//	err := v.Validate()
package validation
