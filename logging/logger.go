// Package logging builds the zap logger. Output always goes to a file: stdout
// carries rendered frames and must stay clean.
package logging

import (
	"os"
	"path/filepath"

	"github.com/go-errors/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// FileName is the log file created inside Config.Dir
	FileName = "halfblock.log"

	// maxLogSize is the size above which the previous log is rotated to .old
	maxLogSize = 10 * 1024 * 1024
)

// Config defines logger configuration.
type Config struct {
	Enabled bool
	Dir     string
	Level   string // "debug", "info", "warn", "error"
}

// New creates the file logger, or a no-op logger when disabled.
func New(cfg Config) (*zap.Logger, error) {
	if !cfg.Enabled {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.WrapPrefix(err, "parse log level", 0)
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, errors.WrapPrefix(err, "create log directory", 0)
	}
	path := filepath.Join(cfg.Dir, FileName)
	if err := rotate(path); err != nil {
		return nil, err
	}

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          "json",
		EncoderConfig:     zap.NewProductionEncoderConfig(),
		OutputPaths:       []string{path},
		ErrorOutputPaths:  []string{path},
		DisableStacktrace: true,
	}
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, errors.WrapPrefix(err, "build logger", 0)
	}
	return logger, nil
}

// rotate moves an oversized log aside, replacing any earlier .old file
func rotate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapPrefix(err, "stat log file", 0)
	}
	if info.Size() <= maxLogSize {
		return nil
	}
	if err := os.Rename(path, path+".old"); err != nil {
		return errors.WrapPrefix(err, "rotate log file", 0)
	}
	return nil
}
