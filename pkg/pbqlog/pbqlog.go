// Package pbqlog configures the CLI's structured logger: a zap logger
// writing to stdout/stderr/a file, with optional rotation via
// lumberjack.
package pbqlog

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileMode selects how an on-disk log destination behaves across runs.
type FileMode string

const (
	// ModeAppend appends to an existing log file. The default.
	ModeAppend FileMode = "append"
	// ModeTruncate truncates the log file on open.
	ModeTruncate FileMode = "truncate"
	// ModeRotate enables size/age-based rotation via lumberjack.
	ModeRotate FileMode = "rotate"
)

func (m *FileMode) Set(s string) error {
	switch FileMode(s) {
	case ModeAppend, "":
		*m = ModeAppend
	case ModeTruncate:
		*m = ModeTruncate
	case ModeRotate:
		*m = ModeRotate
	default:
		return fmt.Errorf("invalid log file mode: %s", s)
	}
	return nil
}

func (m FileMode) String() string { return string(m) }

// OpenFile resolves path to a zapcore.WriteSyncer, honoring the
// stdout/stderr/dev-null aliases before touching the filesystem.
func OpenFile(path string, mode FileMode) (zapcore.WriteSyncer, error) {
	switch path {
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "", "/dev/null":
		return zapcore.AddSync(discard{}), nil
	}
	switch mode {
	case ModeRotate:
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}), nil
	case ModeTruncate:
		return openWithFlags(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE)
	default:
		return openWithFlags(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE)
	}
}

func openWithFlags(path string, flags int) (zapcore.WriteSyncer, error) {
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(f), nil
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// New builds a zap.Logger writing to path in mode, at the given level
// ("debug", "info", "warn", "error").
func New(path string, mode FileMode, level string) (*zap.Logger, error) {
	ws, err := OpenFile(path, mode)
	if err != nil {
		return nil, fmt.Errorf("opening log destination %s: %w", path, err)
	}
	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), ws, lvl)
	return zap.New(core), nil
}
