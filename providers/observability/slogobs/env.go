package slogobs

import (
	"log/slog"
	"os"
	"strings"
)

// Format selects the handler output layout.
type Format string

const (
	// FormatCompact prints one line per record: time, level, message and the
	// attributes as a JSON object.
	//
	//	2026-03-01 10:40:35 DEBUG Page fetched | {"paginate.page.index":0}
	FormatCompact Format = "compact"

	// FormatJSON prints one JSON object per record.
	FormatJSON Format = "json"
)

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.LevelDebug - 4

const (
	envLogFormat = "AIGOTOOLS_LOG_FORMAT"
	envLogLevel  = "AIGOTOOLS_LOG_LEVEL"
)

// ParseFormat maps a case-insensitive name to a Format, defaulting to compact.
func ParseFormat(s string) Format {
	if Format(strings.ToLower(strings.TrimSpace(s))) == FormatJSON {
		return FormatJSON
	}
	return FormatCompact
}

// ParseLevel maps trace, debug, info, warn/warning and error to slog levels.
// Anything else yields slog.LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FormatFromEnv reads AIGOTOOLS_LOG_FORMAT, then LOG_FORMAT.
func FormatFromEnv() Format {
	return ParseFormat(firstEnv(envLogFormat, "LOG_FORMAT"))
}

// LevelFromEnv reads AIGOTOOLS_LOG_LEVEL, then LOG_LEVEL.
func LevelFromEnv() slog.Level {
	return ParseLevel(firstEnv(envLogLevel, "LOG_LEVEL"))
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func levelName(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "TRACE"
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}
