package app

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config holds everything one run needs from the command line.
type Config struct {
	Locator   string `validate:"required"`
	OutputDir string `validate:"required"`

	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`

	SettingsPath string
	ReportPath   string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
