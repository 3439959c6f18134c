package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
)

// capture points the process-wide logger at a buffer, with default settings
// and no timestamps, until the test ends.
func capture(t *testing.T, opts ...Option) *bytes.Buffer {
	t.Helper()

	prev := std.snapshot()
	t.Cleanup(func() { std.reset(prev) })

	var buf bytes.Buffer

	std.reset(defaultSettings())
	Config(append([]Option{WithOutput(&buf), WithTimeLayout("none")}, opts...)...)

	return &buf
}

func TestDefaults(t *testing.T) {
	s := defaultSettings()

	if s.level != LevelInfo {
		t.Errorf("expected default level info, got %v", s.level)
	}
	if s.format != FormatText {
		t.Errorf("expected default format text, got %v", s.format)
	}
	if s.caller {
		t.Error("expected caller disabled by default")
	}
	if !s.pretty {
		t.Error("expected pretty output enabled by default")
	}
	if s.out != os.Stderr {
		t.Errorf("expected standard error, got %v", s.out)
	}
	if s.stamp == nil {
		t.Error("expected timestamps by default")
	}
}

func TestLevelFiltersMessages(t *testing.T) {
	ctx := context.Background()
	buf := capture(t, WithLevel(LevelTrace))

	TraceContext(ctx, "resolving layer")
	if !strings.Contains(buf.String(), "resolving layer") {
		t.Errorf("trace message not logged at trace level: %q", buf.String())
	}

	buf.Reset()
	Config(WithLevel(LevelWarn))

	InfoContext(ctx, "loaded configuration layer")
	if buf.Len() > 0 {
		t.Errorf("info message logged at warn level: %q", buf.String())
	}

	WarnContext(ctx, "configuration file ignored")
	if !strings.Contains(buf.String(), "configuration file ignored") {
		t.Errorf("warn message not logged at warn level: %q", buf.String())
	}
}

func TestFunctionsUseTheirLevel(t *testing.T) {
	ctx := context.Background()
	buf := capture(t, WithLevel(LevelTrace), WithFormat(FormatJSON))

	tests := []struct {
		fn    func(context.Context, string, ...slog.Attr)
		level string
	}{
		{TraceContext, "TRACE"},
		{DebugContext, "DEBUG"},
		{InfoContext, "INFO"},
		{WarnContext, "WARN"},
		{ErrorContext, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.fn(ctx, "composed", slog.String("context", "build"))

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to parse JSON output %q: %v", buf.String(), err)
			}

			if entry["level"] != tt.level {
				t.Errorf("expected level=%s, got %v", tt.level, entry["level"])
			}
			if entry["msg"] != "composed" || entry["context"] != "build" {
				t.Errorf("unexpected entry %v", entry)
			}
			if _, ok := entry["time"]; ok {
				t.Errorf("expected no time field, got %v", entry["time"])
			}
		})
	}
}

func TestConfigKeepsUnnamedSettings(t *testing.T) {
	buf := capture(t, WithFormat(FormatJSON), WithLevel(LevelDebug))

	Config(WithCaller(true))
	DebugContext(context.Background(), "kept")

	out := buf.String()
	if !strings.HasPrefix(out, "{") {
		t.Errorf("expected JSON output to be kept, got %q", out)
	}
	if !strings.Contains(out, `"msg":"kept"`) {
		t.Errorf("expected debug level to be kept, got %q", out)
	}
}

func TestPlainText(t *testing.T) {
	buf := capture(t, WithPretty(false))

	InfoContext(context.Background(), "applied", slog.String("name", "GREETING"))

	want := "level=INFO msg=applied name=GREETING\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPrettyHandler(t *testing.T) {
	buf := capture(t, WithLevel(LevelDebug))

	DebugContext(context.Background(), "entry",
		slog.String("name", "DATA_DIR"),
		slog.Bool("relative", true),
		slog.Group("origin", slog.String("dir", "/proj")),
	)

	// A bytes.Buffer is not a terminal, so no escape sequences are written.
	want := "DEBUG entry name=DATA_DIR relative=true origin.dir=/proj\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPrettyHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer

	s := defaultSettings()
	s.out, s.stamp = &buf, nil

	grouped := slog.New(s.handler().WithGroup("layer").
		WithAttrs([]slog.Attr{slog.String("file", ".envtab.yaml")}))

	grouped.Info("loaded", slog.Int("entries", 2))

	want := "INFO  loaded layer.file=.envtab.yaml layer.entries=2\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPrettyHandler_LogValuer(t *testing.T) {
	buf := capture(t)

	ErrorContext(context.Background(), "failed",
		slog.Any("error", valuer{errors.New("boom")}))

	if got := buf.String(); !strings.Contains(got, "error.msg=boom") {
		t.Errorf("expected resolved log value, got %q", got)
	}
}

type valuer struct{ err error }

func (v valuer) LogValue() slog.Value {
	return slog.GroupValue(slog.String("msg", v.err.Error()))
}

func TestHandlerSelection(t *testing.T) {
	s := defaultSettings()
	s.out = io.Discard

	if _, ok := s.handler().(*prettyHandler); !ok {
		t.Errorf("expected pretty handler by default, got %T", s.handler())
	}

	s.pretty = false
	if _, ok := s.handler().(*slog.TextHandler); !ok {
		t.Errorf("expected text handler, got %T", s.handler())
	}

	s.pretty, s.format = true, FormatJSON
	if _, ok := s.handler().(*slog.JSONHandler); !ok {
		t.Errorf("expected JSON handler, got %T", s.handler())
	}
}

func TestCaller(t *testing.T) {
	buf := capture(t, WithFormat(FormatJSON), WithCaller(true))

	InfoContext(context.Background(), "here")

	var entry struct {
		Source struct {
			File string `json:"file"`
		} `json:"source"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON output %q: %v", buf.String(), err)
	}

	// The source is the caller of InfoContext, not this package's internals.
	if !strings.HasSuffix(entry.Source.File, "log_test.go") {
		t.Errorf("expected source in log_test.go, got %q", entry.Source.File)
	}

	buf.Reset()
	Config(WithCaller(false))
	InfoContext(context.Background(), "here")

	if strings.Contains(buf.String(), `"source"`) {
		t.Errorf("expected no source field, got %q", buf.String())
	}
}

func TestWithOutputNil(t *testing.T) {
	capture(t)

	Config(WithOutput(nil))

	if got := std.snapshot().out; got != io.Discard {
		t.Errorf("expected io.Discard, got %v", got)
	}
}

func TestConcurrentConfig(t *testing.T) {
	var (
		buf syncBuffer
		wg  sync.WaitGroup
	)

	capture(t, WithOutput(&buf), WithPretty(false))

	for i := range 16 {
		wg.Add(2)

		go func() {
			defer wg.Done()

			InfoContext(context.Background(), "concurrent", slog.Int("id", i))
		}()

		go func() {
			defer wg.Done()

			Config(WithCaller(i%2 == 0))
		}()
	}

	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 16 {
		t.Errorf("expected 16 lines, got %d", got)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func BenchmarkInfoContext(b *testing.B) {
	prev := std.snapshot()
	b.Cleanup(func() { std.reset(prev) })

	for _, format := range []Format{FormatText, FormatJSON} {
		b.Run(format.String(), func(b *testing.B) {
			Config(WithOutput(io.Discard), WithFormat(format))

			ctx := context.Background()

			for i := 0; b.Loop(); i++ {
				InfoContext(ctx, "benchmark message", slog.Int("iteration", i))
			}
		})
	}
}
