// Package logger provides structured logging using zap.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance. It discards everything until Init is called,
// so engine packages can log unconditionally from tests and tools.
var Log = zap.NewNop()

// Sugar is the sugared logger for convenient logging.
var Sugar = Log.Sugar()

// base writes at the lowest configured level; Log and component loggers
// raise it back to their own threshold.
var (
	base       = zap.NewNop()
	components = map[string]zapcore.Level{}
)

// FileConfig holds rotating file sink settings.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default file logging settings.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  20,
		MaxBackups: 3,
		MaxAgeDays: 14,
		Compress:   true,
	}
}

// Options configures the global logger.
type Options struct {
	Level   string
	File    FileConfig // Empty Path disables the file sink
	Console bool

	// Components overrides the level of Named loggers, e.g. {"camera": "debug"}.
	Components map[string]string
}

// Init initializes the logger with the given level and optional file output.
func Init(level string, logFile string) error {
	opts := Options{Level: level, Console: true}
	if logFile != "" {
		opts.File = DefaultFileConfig(logFile)
	}
	return Configure(opts)
}

// InitWithFileConfig initializes the logger with custom file configuration.
// Set consoleOutput to false to disable console logging (useful for tests).
func InitWithFileConfig(level string, fileCfg FileConfig, consoleOutput bool) error {
	return Configure(Options{Level: level, File: fileCfg, Console: consoleOutput})
}

// Configure replaces the global logger. An unparsable component level is an
// error and leaves the previous logger in place.
func Configure(opts Options) error {
	root := ParseLevel(opts.Level)
	floor := root
	levels := make(map[string]zapcore.Level, len(opts.Components))
	for name, l := range opts.Components {
		lvl, err := zapcore.ParseLevel(l)
		if err != nil {
			return fmt.Errorf("component %q: %w", name, err)
		}
		levels[name] = lvl
		if lvl < floor {
			floor = lvl
		}
	}

	var cores []zapcore.Core
	if opts.Console {
		cores = append(cores, zapcore.NewCore(consoleEncoder(), zapcore.AddSync(os.Stdout), floor))
	}
	if opts.File.Path != "" {
		cores = append(cores, zapcore.NewCore(fileEncoder(), zapcore.AddSync(rotatingWriter(opts.File)), floor))
	}

	if len(cores) == 0 {
		base, components, Log = zap.NewNop(), map[string]zapcore.Level{}, zap.NewNop()
		Sugar = Log.Sugar()
		return nil
	}

	base = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	components = levels
	Log = base.WithOptions(zap.IncreaseLevel(root))
	Sugar = Log.Sugar()

	return nil
}

func rotatingWriter(cfg FileConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
}

func consoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeLevel:      zapcore.CapitalColorLevelEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	})
}

func fileEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	})
}

// ParseLevel converts a config level string to a zapcore.Level.
// Unknown strings fall back to info.
func ParseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil || level == "" {
		return zapcore.InfoLevel
	}
	return lvl
}

// Named returns a child logger tagged with a component name ("camera", "model", ...).
// Components without an override follow whatever Log is at the time of the call.
func Named(component string) *zap.Logger {
	lvl, ok := components[component]
	if !ok {
		return Log.Named(component)
	}
	return base.Named(component).WithOptions(zap.IncreaseLevel(lvl))
}

// Sync flushes any buffered log entries.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string, fields ...zap.Field) {
	Log.Fatal(msg, fields...)
}
