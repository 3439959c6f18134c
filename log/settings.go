package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Defaults of the process-wide logger.
const (
	DefaultLevel      = LevelInfo
	DefaultFormat     = FormatText
	DefaultTimeLayout = "kitchen"
	DefaultPretty     = true
)

// settings is the complete configuration of the process-wide logger.
type settings struct {
	out    io.Writer
	stamp  func(time.Time) string // nil omits timestamps
	level  Level
	format Format
	caller bool
	pretty bool
}

func defaultSettings() settings {
	return settings{
		out:    os.Stderr,
		stamp:  stampFunc(DefaultTimeLayout),
		level:  DefaultLevel,
		format: DefaultFormat,
		pretty: DefaultPretty,
	}
}

// Option changes one setting of the logger. See [Config].
type Option func(*settings)

// WithOutput sends messages to w. A nil w discards them.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w == nil {
			w = io.Discard
		}

		s.out = w
	}
}

// WithLevel drops messages less severe than level.
func WithLevel(level Level) Option {
	return func(s *settings) { s.level = level }
}

// WithFormat selects the message encoding.
func WithFormat(format Format) Option {
	return func(s *settings) { s.format = format }
}

// WithTimeLayout sets the timestamp layout. The layout is either the name of
// a layout constant of package time ("kitchen", "RFC3339", "DateTime", and
// so on, case-insensitively) or a Go layout string used as is. An empty
// layout, or "none", omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(s *settings) { s.stamp = stampFunc(layout) }
}

// WithCaller adds the source location of the logging call to each message.
func WithCaller(enable bool) Option {
	return func(s *settings) { s.caller = enable }
}

// WithPretty colorizes text output. Color is only written to terminals, and
// JSON output is never affected.
func WithPretty(enable bool) Option {
	return func(s *settings) { s.pretty = enable }
}

var namedLayouts = map[string]string{
	"none":        "",
	"kitchen":     time.Kitchen,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"rfc822":      time.RFC822,
	"rfc1123":     time.RFC1123,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
	"datetime":    time.DateTime,
	"dateonly":    time.DateOnly,
	"timeonly":    time.TimeOnly,
}

func stampFunc(layout string) func(time.Time) string {
	if std, ok := namedLayouts[strings.ToLower(strings.TrimSpace(layout))]; ok {
		layout = std
	}

	if strings.TrimSpace(layout) == "" {
		return nil
	}

	return func(t time.Time) string { return t.Format(layout) }
}

// replaceAttr renders the built-in time and level attributes.
func (s settings) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		t, ok := a.Value.Any().(time.Time)
		if !ok {
			return a
		}

		if s.stamp == nil {
			return slog.Attr{}
		}

		a.Value = slog.StringValue(s.stamp(t))

	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
		}
	}

	return a
}

func (s settings) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   s.caller,
		Level:       slog.Level(s.level),
		ReplaceAttr: s.replaceAttr,
	}

	switch {
	case s.format == FormatJSON:
		return slog.NewJSONHandler(s.out, opts)
	case s.pretty:
		return newPrettyHandler(s.out, opts)
	default:
		return slog.NewTextHandler(s.out, opts)
	}
}
