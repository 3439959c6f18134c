package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/envtab/envcfg"
)

// Show prints the environment composed for a process context.
type Show struct {
	Context string `default:"build" enum:"${contextEnum}" help:"Process context to compose for (${enum})." short:"x"`
	Format  string `default:"env"   enum:"${formatEnum}"  help:"Output format (${enum})."                  short:"o"`
	Where   string `help:"Only show entries matching an expression over name, value, origin, force, relative, and in_subcommands." short:"w"`
	All     bool   `help:"Include the inherited environment, not just declared entries."                                          short:"a"`
}

// Run executes the show command.
func (s *Show) Run(ctx context.Context) error {
	c, ok := envcfg.ParseContext(s.Context)
	if !ok {
		return ErrInvalidContext.With(
			slog.String("context", s.Context),
			slog.Any("want", envcfg.Contexts()),
		)
	}

	format, ok := envcfg.ParseFormat(s.Format)
	if !ok {
		return ErrInvalidFormat.With(
			slog.String("format", s.Format),
			slog.Any("want", envcfg.Formats()),
		)
	}

	filter, err := envcfg.CompileFilter(s.Where)
	if err != nil {
		return err
	}

	res, err := resolve(ctx)
	if err != nil {
		return err
	}

	tab, err := res.Table.Filter(filter)
	if err != nil {
		return err
	}

	comp := composeTable(ctx, tab, c)

	err = comp.Write(ctx, stdout(ctx), format, s.All)
	if err != nil {
		return ErrWriteOutput.With(slog.String("format", format.String())).Wrap(err)
	}

	return nil
}
