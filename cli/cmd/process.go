package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ardnew/envtab/envcfg"
	"github.com/ardnew/envtab/log"
)

// Process is a child command line shared by the commands that start one.
type Process struct {
	Command []string `arg:"" help:"Command and arguments to run (after --)." name:"command" passthrough:""`
}

// start runs the command with the environment in comp and waits for it.
//
// The command name is looked up in the PATH of the composed environment, so a
// declared PATH takes effect for the lookup too. The PATH of envtab itself is
// never consulted.
func (p Process) start(ctx context.Context, comp envcfg.Composition) error {
	if len(p.Command) == 0 {
		return ErrNoCommand.With(slog.String("context", comp.Context.String()))
	}

	opts := optionsFrom(ctx)

	name, err := lookPath(p.Command[0], comp.Vars["PATH"])
	if err != nil {
		return ErrStart.With(
			slog.String("command", p.Command[0]),
			slog.String("context", comp.Context.String()),
			slog.String("PATH", comp.Vars["PATH"]),
		).Wrap(err)
	}

	cmd := exec.CommandContext(ctx, name, p.Command[1:]...)
	cmd.Env = comp.Environ()
	cmd.Dir = opts.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout(ctx)
	cmd.Stderr = stderr(ctx)

	log.DebugContext(ctx, "starting command",
		slog.String("command", name),
		slog.Any("args", p.Command[1:]),
		slog.String("context", comp.Context.String()),
		slog.Int("declared", len(comp.Applied)),
	)

	err = cmd.Run()
	if err == nil {
		return nil
	}

	attrs := []slog.Attr{
		slog.String("command", p.Command[0]),
		slog.String("context", comp.Context.String()),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ErrCommand.
			With(append(attrs, slog.Int("code", exitErr.ExitCode()))...).
			Wrap(err)
	}

	return ErrStart.With(attrs...).Wrap(err)
}

// lookPath resolves a bare command name against the absolute directories in
// path. Names containing a separator are returned unchanged. A bare name that
// no directory holds is an error wrapping [exec.ErrNotFound], even when path
// is empty.
func lookPath(name, path string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) ||
		strings.ContainsRune(name, '/') {
		return name, nil
	}

	if name != "" {
		for _, dir := range filepath.SplitList(path) {
			if dir == "" || !filepath.IsAbs(dir) {
				continue
			}

			if found, err := exec.LookPath(filepath.Join(dir, name)); err == nil {
				return found, nil
			}
		}
	}

	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// Build runs a build script or compiler with the build environment.
type Build struct {
	Constants string `help:"Also write the compile-time constant table to this file (YAML, or JSON with a .json extension)." placeholder:"FILE" type:"path"`

	Process `embed:""`
}

// Run executes the build command.
func (b *Build) Run(ctx context.Context) error {
	comp, err := compose(ctx, envcfg.Build)
	if err != nil {
		return err
	}

	if b.Constants != "" {
		if err := writeConstants(ctx, b.Constants, comp); err != nil {
			return err
		}
	}

	return b.start(ctx, comp)
}

// Run runs a built artifact with the run environment.
type Run struct {
	Process `embed:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) error {
	comp, err := compose(ctx, envcfg.RunArtifact)
	if err != nil {
		return err
	}

	return r.start(ctx, comp)
}

// Exec runs a subcommand with the subcommand environment. Only entries
// declared with in_subcommands are applied.
type Exec struct {
	Process `embed:""`
}

// Run executes the exec command.
func (e *Exec) Run(ctx context.Context) error {
	comp, err := compose(ctx, envcfg.Subcommand)
	if err != nil {
		return err
	}

	return e.start(ctx, comp)
}

func writeConstants(
	ctx context.Context,
	path string,
	comp envcfg.Composition,
) (err error) {
	format := envcfg.FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = envcfg.FormatJSON
	}

	file, err := os.Create(path)
	if err != nil {
		return ErrConstants.With(slog.String("file", path)).Wrap(err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = ErrConstants.With(slog.String("file", path)).Wrap(cerr)
		}
	}()

	err = comp.WriteConstants(ctx, file, format)
	if err != nil {
		return ErrConstants.With(slog.String("file", path)).Wrap(err)
	}

	log.DebugContext(ctx, "wrote constants file",
		slog.String("file", path),
		slog.String("format", format.String()),
		slog.Int("constants", len(comp.Constants)),
	)

	return nil
}
