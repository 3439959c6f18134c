package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"

	"github.com/ardnew/envtab/cli"
	"github.com/ardnew/envtab/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	if err != nil {
		// A child process that ran and failed has already reported its own
		// error; only its exit status is forwarded.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			log.DebugContext(ctx, "command exited", slog.Any("error", err))
			os.Exit(exitErr.ExitCode())
		}

		log.ErrorContext(ctx, "run failed", slog.Any("error", err))
		os.Exit(1)
	}
}
