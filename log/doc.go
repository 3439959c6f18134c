// Package log is the process-wide logger of envtab, built on [log/slog].
//
// There is a single logger. The command line configures it once flags are
// known, and every package logs through the functions of this package:
//
//	log.Config(log.WithLevel(log.LevelDebug), log.WithTimeLayout("none"))
//	log.DebugContext(ctx, "loaded configuration layer",
//		slog.String("file", path))
//
// Messages go to standard error by default so they never mix with the
// environment written to standard output.
//
// # Levels
//
// [LevelTrace] sits below the four levels of [log/slog] and reports each
// resolved entry.
//
// # Formats
//
// [FormatText] writes one line per message, colorized with lipgloss when
// pretty output is enabled and the output is a terminal. [FormatJSON] writes
// one JSON object per message.
package log
