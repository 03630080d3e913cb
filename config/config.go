package config

import (
	"time"

	"github.com/go-errors/errors"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

// Prefix is prepended to every environment variable name
const Prefix = "HALFBLOCK"

// Config holds all application configuration.
type Config struct {
	// Rendering
	FPS          int    `envconfig:"FPS" default:"15"`
	CanvasWidth  int    `envconfig:"CANVAS_WIDTH" default:"300"`
	CanvasHeight int    `envconfig:"CANVAS_HEIGHT" default:"300"`
	Backend      string `envconfig:"BACKEND" default:"auto"`

	// Input
	EscapeTimeout time.Duration `envconfig:"ESCAPE_TIMEOUT" default:"50ms"`

	// Diagnostics
	Debug       bool   `envconfig:"DEBUG" default:"false"`
	LogDir      string `envconfig:"LOG_DIR" default:"logs"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"debug"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:""`
}

// Load loads configuration from HALFBLOCK_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.WrapPrefix(err, "failed to load config", 0)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		FPS:           15,
		CanvasWidth:   300,
		CanvasHeight:  300,
		Backend:       "auto",
		EscapeTimeout: 50 * time.Millisecond,
		LogDir:        "logs",
		LogLevel:      "debug",
	}
}

// Validate reports the first setting that cannot be used
func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return errors.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return errors.Errorf("canvas size must be positive, got %dx%d", c.CanvasWidth, c.CanvasHeight)
	}
	switch c.Backend {
	case "auto", "ansi", "console":
	default:
		return errors.Errorf("unknown backend %q (want auto, ansi or console)", c.Backend)
	}
	if c.EscapeTimeout < 0 {
		return errors.Errorf("escape timeout must not be negative, got %v", c.EscapeTimeout)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.WrapPrefix(err, "log level", 0)
	}
	return nil
}
