package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/envtab/envcfg"
	"github.com/ardnew/envtab/layer"
	"github.com/ardnew/envtab/log"
	"github.com/ardnew/envtab/profile"
)

const (
	defaultDirMode  os.FileMode = 0o700
	defaultFileMode os.FileMode = 0o600
)

// Init writes the user configuration file with the current option values.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file, keeping its env table." short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	var env map[string]any

	_, err = os.Stat(confPath)
	if err == nil {
		if !i.Force {
			return ErrWriteConfig.
				With(slog.String("file", confPath)).
				With(slog.Bool("exists", true)).
				Wrap(ErrFileExists)
		}

		ly, rerr := layer.Read(ctx, confPath)
		if rerr != nil {
			return rerr
		}

		env = ly.Env
	}

	data, err := yaml.MarshalContext(ctx, i.document(ktx, env))
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	err = os.MkdirAll(filepath.Dir(confPath), defaultDirMode)
	if err == nil {
		err = os.WriteFile(confPath, data, defaultFileMode)
	}

	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.InfoContext(ctx, "wrote configuration file",
		slog.String("file", confPath),
		slog.Int("entries", len(env)),
	)

	return nil
}

// document builds the configuration file contents: the options mapping from
// the current flag values, followed by the env table.
func (i *Init) document(ktx *kong.Context, env map[string]any) yaml.MapSlice {
	if env == nil {
		env = map[string]any{}
	}

	return yaml.MapSlice{
		{Key: layer.OptionsKey, Value: i.options(ktx)},
		{Key: envcfg.TableKey, Value: env},
	}
}

// options returns the application flags worth persisting with their current
// values, in declaration order.
func (i *Init) options(ktx *kong.Context) yaml.MapSlice {
	ignore := []string{"help", "version", "config", "dir", profile.Tag}

	opts := yaml.MapSlice{}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val, ok := flagValue(ktx, flag); ok {
			opts = append(opts, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return opts
}

// flagValue returns the value of flag in a form the options resolver reads
// back, or false if the flag is unset.
func flagValue(ktx *kong.Context, flag *kong.Flag) (any, bool) {
	val := ktx.FlagValue(flag)

	switch v := val.(type) {
	case nil:
		return nil, false

	case string:
		return v, true

	case []string:
		if len(v) == 0 {
			return nil, false
		}

		return v, true

	case bool, int, int64, uint, uint64, float64:
		return v, true

	default:
		// Custom flag types implement encoding.TextUnmarshaler over a string.
		return fmt.Sprint(v), true
	}
}
