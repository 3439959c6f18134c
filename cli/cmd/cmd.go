package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/alecthomas/kong"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer for command output.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the writer for diagnostics that are not log messages.
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// Options are the global settings shared by every command.
type Options struct {
	// Dir is the directory where configuration discovery starts. It is also
	// the base directory for relative entries with no known origin, and the
	// working directory of child processes.
	Dir string
	// UserConfig is the user configuration file, the outermost layer.
	UserConfig string
	// ConfigFiles are extra configuration files layered after the discovered
	// ones, in order.
	ConfigFiles []string
	// ProtectedPrefixes are reserved variable name prefixes in addition to
	// the built-in CARGO_ prefix, which is always reserved.
	ProtectedPrefixes []string
	// Environ is the ambient environment in os.Environ form. When nil, the
	// environment of the current process is used.
	Environ []string
}

type optionsKey struct{}

// WithOptions returns a new context.Context containing opts.
//
// Dir is made absolute, and ConfigFiles are made absolute and deduplicated so
// that a file named twice, by different paths or through a symlink, is
// layered only once at its last position.
func WithOptions(ctx context.Context, opts Options) context.Context {
	if opts.Dir == "" {
		opts.Dir = "."
	}

	if abs, err := filepath.Abs(opts.Dir); err == nil {
		opts.Dir = abs
	}

	opts.ConfigFiles = uniqueFiles(opts.ConfigFiles)

	return context.WithValue(ctx, optionsKey{}, opts)
}

// optionsFrom retrieves the Options stored in ctx by WithOptions, or the
// defaults if none were stored.
func optionsFrom(ctx context.Context) Options {
	opts, ok := ctx.Value(optionsKey{}).(Options)
	if !ok {
		opts.Dir, _ = os.Getwd()
	}

	if opts.Environ == nil {
		opts.Environ = os.Environ()
	}

	return opts
}

// uniqueFiles returns the absolute form of paths with duplicates removed.
// Two paths are duplicates if they name the same file, and only the last of
// them is kept, so a file named again later in the list moves to that later
// position. Paths that cannot be inspected are kept so that reading them
// reports the error.
func uniqueFiles(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}

	out := make([]string, 0, len(paths))
	seen := make([]os.FileInfo, 0, len(paths))

	for _, path := range slices.Backward(paths) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}

		info, err := os.Stat(path)
		if err != nil {
			out = append(out, path)

			continue
		}

		if containsFile(seen, info) {
			continue
		}

		seen = append(seen, info)
		out = append(out, path)
	}

	slices.Reverse(out)

	return out
}

func containsFile(seen []os.FileInfo, info os.FileInfo) bool {
	for _, s := range seen {
		if os.SameFile(s, info) {
			return true
		}
	}

	return false
}
