package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/envtab/envcfg"
	"github.com/ardnew/envtab/layer"
	"github.com/ardnew/envtab/log"
)

// resolved is the validated env table of the configuration that applies to
// the working directory.
type resolved struct {
	Files []string
	Table envcfg.Table
}

// resolve discovers, loads, and resolves the configuration layers named by
// the options stored in ctx.
func resolve(ctx context.Context) (resolved, error) {
	opts := optionsFrom(ctx)

	paths, err := layer.Discover(ctx, opts.Dir, opts.UserConfig)
	if err != nil {
		return resolved{}, ErrDiscover.
			With(slog.String("dir", opts.Dir)).
			Wrap(err)
	}

	paths = uniqueFiles(append(paths, opts.ConfigFiles...))

	merged, err := layer.Load(ctx, paths...)
	if err != nil {
		return resolved{}, err
	}

	tab, err := envcfg.Resolve(merged.Raw,
		envcfg.WithOrigins(merged.Origins),
		envcfg.WithProtectedPrefixes(opts.ProtectedPrefixes...),
	)
	if err != nil {
		return resolved{Files: merged.Files}, err
	}

	tab = tab.ResolvePaths(opts.Dir)

	log.DebugContext(ctx, "resolved env table",
		slog.Int("files", len(merged.Files)),
		slog.Int("entries", len(tab)),
	)

	for _, e := range tab.Entries() {
		log.TraceContext(ctx, "entry", slog.Any("entry", e))
	}

	return resolved{Files: merged.Files, Table: tab}, nil
}

// compose resolves the configuration and composes the environment of a
// process started in context c.
func compose(ctx context.Context, c envcfg.Context) (envcfg.Composition, error) {
	res, err := resolve(ctx)
	if err != nil {
		return envcfg.Composition{}, err
	}

	return composeTable(ctx, res.Table, c), nil
}

func composeTable(
	ctx context.Context,
	tab envcfg.Table,
	c envcfg.Context,
) envcfg.Composition {
	opts := optionsFrom(ctx)
	comp := envcfg.Compose(tab, envcfg.FromEnviron(opts.Environ), c)

	for _, a := range comp.Applied {
		if a.Source == envcfg.SourceAmbient {
			log.DebugContext(ctx, "ambient value takes precedence",
				slog.String("name", a.Entry.Name),
				slog.String("context", c.String()),
			)
		}
	}

	return comp
}
