// Package telemetry wires up the structured logger used throughout
// the build and query paths, following the teacher's layered
// console/file/multi logger design in server/logger.go.
package telemetry

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// NewConsoleLogger returns a JSON-encoded logger writing to out at
// the given level, for interactive builds.
func NewConsoleLogger(out io.Writer, level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(newJSONEncoder(), zapcore.AddSync(out), level)
	return zap.New(core, zap.AddCaller())
}

// RotationConfig configures a size/age-bounded log file, mirroring
// the fields server/logger.go reads off Config.GetLogger().
type RotationConfig struct {
	File       string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
	LocalTime  bool
	Compress   bool
}

// NewRotatingFileLogger returns a logger backed by a lumberjack file
// sink, used by long-running index-build daemons that must not grow
// their logs unbounded.
func NewRotatingFileLogger(cfg RotationConfig, level zapcore.Level) *zap.Logger {
	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  cfg.LocalTime,
		Compress:   cfg.Compress,
	})
	core := zapcore.NewCore(newJSONEncoder(), writer, level)
	return zap.New(core, zap.AddCaller())
}

// NewMultiLogger tees every record to all of loggers, the way the
// teacher fans a build out to both stdout and a rotating file.
func NewMultiLogger(loggers ...*zap.Logger) *zap.Logger {
	cores := make([]zapcore.Core, 0, len(loggers))
	for _, l := range loggers {
		cores = append(cores, l.Core())
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

func newJSONEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})
}

// ParseLevel maps a level name ("debug", "info", "warn", "error") to
// its zapcore.Level, defaulting to InfoLevel on an empty or unknown
// name rather than failing a build over a log setting.
func ParseLevel(name string) zapcore.Level {
	switch name {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
