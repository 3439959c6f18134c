package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/envtab/layer"
	"github.com/ardnew/envtab/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag defaults from
// the options mapping of a YAML configuration file:
//
//	options:
//	  log-level: debug
//	  protected_prefix: [TOOL_]
//	env:
//	  GREETING: hello
//
// Flag names may be spelled with hyphens or underscores. Command-line flags
// override configuration values. The env table of the same file is read
// separately as the outermost configuration layer.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var doc map[string]any

		err = yaml.UnmarshalContext(ctx, data, &doc)
		if err != nil {
			// Malformed files are reported when read as a layer.
			log.DebugContext(ctx, "ignoring unreadable options",
				slog.Any("error", err),
			)

			return options{}, nil
		}

		opts, ok := doc[layer.OptionsKey].(map[string]any)
		if !ok {
			return options{}, nil
		}

		return makeOptions(opts), nil
	}
}

// options implements [kong.Resolver] for the options mapping.
type options map[string]any

func makeOptions(m map[string]any) options {
	out := make(options, len(m))

	for key, val := range m {
		out[strings.ReplaceAll(key, "_", "-")] = flagValue(val)
	}

	return out
}

// Validate implements [kong.Resolver].
func (o options) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (o options) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := o[flag.Name]; ok {
		return value, nil
	}

	return nil, nil //nolint:nilnil
}

// flagValue converts a decoded YAML value to a form kong can parse. Kong
// parses numbers from strings.
func flagValue(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, x := range v {
			out[i] = flagValue(x)
		}

		return out
	default:
		return v
	}
}
