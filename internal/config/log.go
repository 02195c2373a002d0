package config

import (
	"fmt"
	"log/slog"
	"strings"
)

type Log struct {
	Format    LogFormat  `env:"LOG_FORMAT" envDefault:"JSON"`
	Level     slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	AddSource bool       `env:"LOG_ADD_SOURCE" envDefault:"true"`
	// NoColor disables ANSI colors in the TEXT format.
	NoColor bool `env:"LOG_NO_COLOR"`
}

// LogFormat selects structured JSON output or human-readable text.
type LogFormat uint8

const (
	LogFormatJSON LogFormat = iota
	LogFormatText
)

var logFormatNames = map[string]LogFormat{
	"JSON":    LogFormatJSON,
	"TEXT":    LogFormatText,
	"CONSOLE": LogFormatText,
}

func (f LogFormat) String() string {
	if f == LogFormatText {
		return "TEXT"
	}
	return "JSON"
}

// UnmarshalText implements [encoding.TextUnmarshaler]. Names are case-insensitive.
func (f *LogFormat) UnmarshalText(text []byte) error {
	format, ok := logFormatNames[strings.ToUpper(strings.TrimSpace(string(text)))]
	if !ok {
		return fmt.Errorf("unknown log format: %s", text)
	}
	*f = format
	return nil
}

func (f LogFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
