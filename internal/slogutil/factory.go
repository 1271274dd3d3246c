package slogutil

import (
	"io"
	"log/slog"
	"path/filepath"

	"adaptive/internal/config"
)

// LoggerFactory builds the CLI logger from configuration and flags.
// Precedence for the level: CLI flags > config logging.level > warn.
type LoggerFactory struct {
	config   *config.Config
	cliLevel *slog.Level
	closers  []io.Closer
}

// NewLoggerFactory creates a new logger factory. cliLevel is nil when no
// verbosity flag was given.
func NewLoggerFactory(cfg *config.Config, cliLevel *slog.Level) *LoggerFactory {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &LoggerFactory{config: cfg, cliLevel: cliLevel}
}

// Logger returns a logger writing to stderr, teed into logging.file when
// configured. A file that cannot be opened is reported once on stderr and
// otherwise ignored.
func (f *LoggerFactory) Logger(stderr io.Writer) *slog.Logger {
	level := f.EffectiveLevel()
	console := NewHandler(stderr, &slog.HandlerOptions{Level: level})

	path := f.config.Logging.File
	if path == "" {
		return slog.New(console)
	}

	fileLogger, closer, err := f.createFileLogger(path, f.fileLevel())
	if err != nil {
		logger := slog.New(console)
		logger.Warn("Cannot open log file", "path", path, "error", err.Error())
		return logger
	}
	f.closers = append(f.closers, closer)
	return slog.New(NewTeeHandler(console, fileLogger.Handler()))
}

// EffectiveLevel returns the console level.
func (f *LoggerFactory) EffectiveLevel() slog.Level {
	if f.cliLevel != nil {
		return *f.cliLevel
	}
	if f.config.Logging.Level != "" {
		return LevelFromString(f.config.Logging.Level)
	}
	return slog.LevelWarn
}

// fileLevel keeps the log file at info or more verbose, regardless of -q.
func (f *LoggerFactory) fileLevel() slog.Level {
	level := f.EffectiveLevel()
	if level > slog.LevelInfo {
		return slog.LevelInfo
	}
	return level
}

func (f *LoggerFactory) createFileLogger(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	return NewFileLoggerWithRotation(filepath.Clean(path), level, f.config.Logging.MaxSize, f.config.Logging.MaxBackups)
}

// Close closes all open log files.
func (f *LoggerFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
