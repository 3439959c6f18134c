package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/envtab/envcfg"
)

// Check validates the configuration that applies to the working directory.
type Check struct {
	Files bool `help:"List the configuration files that were checked." short:"l"`
}

// Run executes the check command.
//
// Every resolution error is printed on its own line before the command fails,
// so that all problems can be fixed in one pass.
func (c *Check) Run(ctx context.Context) error {
	res, err := resolve(ctx)
	if err != nil {
		var errs envcfg.Errors
		if !errors.As(err, &errs) {
			return err
		}

		for _, e := range errs {
			if _, werr := fmt.Fprintln(stderr(ctx), e); werr != nil {
				return ErrWriteOutput.Wrap(werr)
			}
		}

		return ErrCheck.With(slog.Int("errors", len(errs)))
	}

	out := stdout(ctx)

	if c.Files {
		for _, file := range res.Files {
			if _, err := fmt.Fprintln(out, file); err != nil {
				return ErrWriteOutput.Wrap(err)
			}
		}
	}

	_, err = fmt.Fprintf(out, "ok: %d %s in %d %s\n",
		len(res.Table), plural(len(res.Table), "entry", "entries"),
		len(res.Files), plural(len(res.Files), "file", "files"),
	)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
