// Package config loads build-time and query-time knobs for the
// indexing pipeline, following the teacher's explicit-getter Config
// interface (server/config.go) backed by a YAML file with flag
// overrides instead of nakama's package-level command-line variables
// (spec.md section 9, Design Notes: "treat all configuration as
// explicit parameters").
package config

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ArenaConfig sizes the bump allocator backing each ingestion shard.
type ArenaConfig struct {
	InitialSlabBytes int `yaml:"initial_slab_bytes"`
}

// CodecConfig selects the integer codec and d-gap strategy written to
// the codec descriptor file (spec.md section 6).
type CodecConfig struct {
	Name  string `yaml:"name"`  // "eliasgammavb", "vbyte", "fixed32"
	DNess string `yaml:"dness"` // "0", "1", "none"
}

// QuantizerConfig bounds the impact domain the quantizer maps scores into.
type QuantizerConfig struct {
	SmallestImpact uint8 `yaml:"smallest_impact"`
	LargestImpact  uint8 `yaml:"largest_impact"`
}

// LogConfig mirrors the fields server/logger.go reads off
// Config.GetLogger() in the teacher.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Rotation   bool   `yaml:"rotation"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
	MaxBackups int    `yaml:"max_backups"`
	LocalTime  bool   `yaml:"local_time"`
	Compress   bool   `yaml:"compress"`
}

// Config is the indexing pipeline's configuration surface.
type Config interface {
	GetArena() *ArenaConfig
	GetCodec() *CodecConfig
	GetQuantizer() *QuantizerConfig
	GetLogger() *LogConfig
}

type config struct {
	Arena     ArenaConfig     `yaml:"arena"`
	Codec     CodecConfig     `yaml:"codec"`
	Quantizer QuantizerConfig `yaml:"quantizer"`
	Logger    LogConfig       `yaml:"logger"`
}

func (c *config) GetArena() *ArenaConfig         { return &c.Arena }
func (c *config) GetCodec() *CodecConfig         { return &c.Codec }
func (c *config) GetQuantizer() *QuantizerConfig { return &c.Quantizer }
func (c *config) GetLogger() *LogConfig          { return &c.Logger }

// NewDefault returns a Config with sane defaults for a fresh build:
// a 64KiB initial arena slab, the normative Elias-gamma-VB codec with
// d1 gaps, and the full [1,255] impact domain.
func NewDefault() Config {
	return &config{
		Arena:     ArenaConfig{InitialSlabBytes: 64 * 1024},
		Codec:     CodecConfig{Name: "eliasgammavb", DNess: "1"},
		Quantizer: QuantizerConfig{SmallestImpact: 1, LargestImpact: 255},
		Logger:    LogConfig{Level: "info"},
	}
}

// ParseArgs loads a Config by merging an optional "--config <path>"
// YAML file with flag overrides, following the teacher's
// server.ParseArgs shape: the file is read first so its values become
// new defaults, and flags on the command line win over the file. args
// is shaped like os.Args: args[0] is the program name and is skipped.
func ParseArgs(logger *zap.Logger, args []string) Config {
	cfg := NewDefault().(*config)

	if path, ok := configPathFrom(args); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("could not read config file, using defaults", zap.String("path", path), zap.Error(err))
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			logger.Error("could not parse config file, using defaults", zap.String("path", path), zap.Error(err))
		}
	}

	fs := flag.NewFlagSet("indexkit", flag.ContinueOnError)
	codecName := fs.String("codec", cfg.Codec.Name, "integer codec name")
	dness := fs.String("dness", cfg.Codec.DNess, "d-gap strategy: 0, 1, or none")
	logLevel := fs.String("log-level", cfg.Logger.Level, "debug, info, warn, or error")
	flagArgs := args
	if len(flagArgs) > 0 {
		flagArgs = flagArgs[1:]
	}
	if err := fs.Parse(remainingArgs(flagArgs)); err != nil {
		logger.Error("could not parse flags, using file/default values", zap.Error(err))
		return cfg
	}

	cfg.Codec.Name = *codecName
	cfg.Codec.DNess = *dness
	cfg.Logger.Level = *logLevel
	return cfg
}

func configPathFrom(args []string) (string, bool) {
	for i, a := range args {
		if a == "--config" && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

func remainingArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" {
			i++ // also skip its value
			continue
		}
		out = append(out, args[i])
	}
	return out
}

// Validate reports a descriptive error for out-of-domain settings
// rather than letting them surface later as an opaque IndexCorrupt.
func Validate(c Config) error {
	q := c.GetQuantizer()
	if q.SmallestImpact == 0 {
		return fmt.Errorf("quantizer: smallest_impact must be >= 1, got 0")
	}
	if q.SmallestImpact > q.LargestImpact {
		return fmt.Errorf("quantizer: smallest_impact %d exceeds largest_impact %d", q.SmallestImpact, q.LargestImpact)
	}
	switch c.GetCodec().DNess {
	case "0", "1", "none":
	default:
		return fmt.Errorf("codec: dness must be one of 0, 1, none, got %q", c.GetCodec().DNess)
	}
	return nil
}
