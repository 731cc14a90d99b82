// Package config loads thinkstep configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/raphaelgruber/thinkstep-go/internal/step"
)

// Judgment modes.
const (
	JudgmentAuto = "auto"
	JudgmentOn   = "on"
	JudgmentOff  = "off"
)

// Config holds all configuration values.
type Config struct {
	// Side-channel rendering. Only the exact value "true" disables it.
	DisableRendering string `env:"THINKSTEP_DISABLE_RENDERING"`

	// Categories
	CategorySet  string `env:"THINKSTEP_CATEGORY_SET" envDefault:"phase" validate:"oneof=phase framework free"`
	CategoryFile string `env:"THINKSTEP_CATEGORY_FILE"`

	// Aggregate judgment
	Judgment          string `env:"THINKSTEP_JUDGMENT" envDefault:"auto" validate:"oneof=auto on off"`
	AffirmativeMarker string `env:"THINKSTEP_AFFIRMATIVE_MARKER" envDefault:"endorse" validate:"required"`
	NegativeMarker    string `env:"THINKSTEP_NEGATIVE_MARKER" envDefault:"reject" validate:"required"`

	// Logging
	LogFile      string `env:"THINKSTEP_LOG_FILE" envDefault:"/tmp/thinkstep.log"`
	LogLevelName string `env:"THINKSTEP_LOG_LEVEL" envDefault:"INFO"`
	LogLevel     slog.Level
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from environment variables and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enum and required fields.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RenderingEnabled reports whether accepted steps are rendered to stderr.
func (c Config) RenderingEnabled() bool {
	return c.DisableRendering != "true"
}

// Categories resolves the configured category set. A category file takes
// precedence over the built-in set name.
func (c Config) Categories() (*step.CategorySet, error) {
	if c.CategoryFile != "" {
		return LoadCategoryFile(c.CategoryFile)
	}
	return step.SetByKind(c.CategorySet)
}

// JudgmentEnabled reports whether aggregate judgments are computed for set.
// In auto mode only framework and custom sets are judged.
func (c Config) JudgmentEnabled(set *step.CategorySet) bool {
	switch c.Judgment {
	case JudgmentOn:
		return true
	case JudgmentOff:
		return false
	default:
		return set.Kind() == step.KindFramework || set.Kind() == step.KindCustom
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
