package app

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/fpgasweep/internal/patcher"
	"github.com/specialistvlad/fpgasweep/internal/runner"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Paths are sweep definition files or directories.
	Paths []string `validate:"dive,required"`
	// Sweep selects a sweep by name; it may be empty when only one is loaded.
	Sweep string

	// WorkDir is the root of the build system.
	WorkDir string `validate:"required"`
	// ConfigFile is the VHDL config package, relative to WorkDir unless
	// absolute.
	ConfigFile string `validate:"required"`
	Tool       string `validate:"required"`
	// Backend skips the backend probe when set.
	Backend string `validate:"omitempty,backend_name"`

	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("backend_name", func(fl validator.FieldLevel) bool {
		return runner.IsBackendName(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
	return v
}

// DefaultConfig returns the settings used when no flag overrides them.
func DefaultConfig() Config {
	return Config{
		WorkDir:    ".",
		ConfigFile: patcher.DefaultPath,
		Tool:       runner.DefaultTool,
		LogFormat:  "text",
		LogLevel:   "info",
	}
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
