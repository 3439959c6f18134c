package log

//go:generate go tool stringer --linecomment --type Level,Format --output level_string.go

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level is the severity of a message.
type Level slog.Level

// Levels understood by [ParseLevel]. Trace sits below [LevelDebug] and is used
// for per-entry detail.
const (
	LevelTrace Level = Level(slog.LevelDebug - 4) // trace
	LevelDebug Level = Level(slog.LevelDebug)     // debug
	LevelInfo  Level = Level(slog.LevelInfo)      // info
	LevelWarn  Level = Level(slog.LevelWarn)      // warn
	LevelError Level = Level(slog.LevelError)     // error
)

// Levels returns the names of all levels, least severe first.
func Levels() []string {
	return []string{
		LevelTrace.String(),
		LevelDebug.String(),
		LevelInfo.String(),
		LevelWarn.String(),
		LevelError.String(),
	}
}

// ParseLevel parses a level name, case-insensitively. Besides the names
// returned by [Levels], anything [slog.Level.UnmarshalText] accepts is valid,
// such as "info+2".
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, LevelTrace.String()) {
		return LevelTrace, nil
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel, err
	}

	return Level(l), nil
}

// Format selects the encoding of each message.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// Formats returns the names of all formats.
func Formats() []string {
	return []string{FormatText.String(), FormatJSON.String()}
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case FormatText.String():
		return FormatText, nil
	case FormatJSON.String():
		return FormatJSON, nil
	default:
		return DefaultFormat, fmt.Errorf("unknown log format %q", s)
	}
}
