package tzdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Netflix/go-env"
)

// Extra log levels used by the tzparse tools next to the slog built-ins.
const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

// Trace logs at LevelTrace on logger.
func Trace(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelTrace, msg, args...)
}

// ParseLevel accepts any prefix of trace, debug, info, warning, error or
// fatal, in any case.
func ParseLevel(value string) (slog.Level, error) {
	lv := strings.ToLower(value)
	switch {
	case lv == "":
	case strings.HasPrefix("trace", lv):
		return LevelTrace, nil
	case strings.HasPrefix("debug", lv):
		return slog.LevelDebug, nil
	case strings.HasPrefix("info", lv):
		return slog.LevelInfo, nil
	case strings.HasPrefix("warning", lv):
		return slog.LevelWarn, nil
	case strings.HasPrefix("error", lv):
		return slog.LevelError, nil
	case strings.HasPrefix("fatal", lv):
		return LevelFatal, nil
	}
	return 0, errors.New("loglevel must be a prefix of trace, debug, info, warning, error or fatal")
}

// DefaultSources are the zoneinfo roots searched when TZDIR is not set.
var DefaultSources = []string{
	"/usr/share/zoneinfo/",
	"/usr/lib/zoneinfo/",
	"/usr/share/lib/zoneinfo/",
	"/usr/lib/locale/TZ/",
}

// Config holds the settings of a Database.
type Config struct {
	// ZoneinfoDir replaces DefaultSources when set.
	ZoneinfoDir string `json:"zoneinfo_dir,omitempty" env:"TZDIR"`

	// ExtendThrough is the last year for which footer rules are expanded
	// past the end of a zone's table. Zero disables the expansion.
	ExtendThrough int `json:"extend_through" env:"TZPARSE_EXTEND_THROUGH,default=2037"`

	LogLevel string `json:"log_level" env:"TZPARSE_LOG_LEVEL,default=info"`
}

// DefaultConfig returns the configuration used when the environment sets
// nothing.
func DefaultConfig() Config {
	return Config{ExtendThrough: 2037, LogLevel: "info"}
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ConfigFromEnv reads the configuration from the environment without
// validating it, for callers that still apply overrides of their own.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values no Database can use.
func (c Config) Validate() error {
	if c.ExtendThrough < 0 || c.ExtendThrough > 9999 {
		return fmt.Errorf("extend through year %d out of range 0..9999", c.ExtendThrough)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	if c.ZoneinfoDir != "" {
		info, err := os.Stat(c.ZoneinfoDir)
		if err != nil {
			return fmt.Errorf("zoneinfo directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("zoneinfo directory %s is not a directory", c.ZoneinfoDir)
		}
	}
	return nil
}

// Sources returns the zoneinfo roots to search, in order.
func (c Config) Sources() []string {
	if c.ZoneinfoDir != "" {
		return []string{c.ZoneinfoDir}
	}
	return DefaultSources
}
