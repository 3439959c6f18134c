package cli

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/envtab/cli/cmd"
	"github.com/ardnew/envtab/envcfg"
	"github.com/ardnew/envtab/log"
	"github.com/ardnew/envtab/pkg"
)

// CLI is the top-level command-line interface for envtab.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Config          []string         `help:"Additional configuration file(s), layered after the discovered ones." short:"c" type:"existingfile"`
	Dir             string           `default:"." help:"Directory where configuration discovery starts." short:"C" type:"existingdir"`
	ProtectedPrefix []string         `help:"Additional reserved variable name prefix(es); ${protectedPrefix} is always reserved." placeholder:"PREFIX"`
	Version         kong.VersionFlag `help:"Print version and exit."`

	Check cmd.Check `cmd:"" help:"Validate configuration"`
	Show  cmd.Show  `cmd:"" default:"1" help:"Print the composed environment"`
	Build cmd.Build `cmd:"" help:"Run a command with the build environment"`
	Run   cmd.Run   `cmd:"" help:"Run a command with the run environment"`
	Exec  cmd.Exec  `cmd:"" help:"Run a command with the subcommand environment"`
	Init  cmd.Init  `cmd:"" help:"Initialize the user configuration file"`
}

// Validate rejects option values that parse but cannot be used.
func (c *CLI) Validate() error {
	for _, prefix := range c.ProtectedPrefix {
		if strings.TrimSpace(prefix) == "" {
			return cmd.ErrInvalidOption.With(
				slog.String("option", "protected-prefix"),
			).Wrap(errors.New("reserved prefix must not be empty"))
		}
	}

	return nil
}

// Run executes the envtab CLI with the given context and arguments.
// The exit function is called with the appropriate exit code when parsing
// terminates early, such as for --help.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, exit, pkg.ConfigFile(), nil, args)
}

// run is [Run] with the user configuration file and any extra kong options
// supplied by the caller.
func run(
	ctx context.Context,
	exit func(code int),
	configFile string,
	extra []kong.Option,
	args []string,
) error {
	var cli CLI

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFile,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Name + " " + pkg.Version,
		"protectedPrefix":    envcfg.DefaultProtectedPrefix,
		"contextEnum":        strings.Join(envcfg.Contexts(), ","),
		"formatEnum":         strings.Join(envcfg.Formats(), ","),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags are applied before parsing so that errors reported while
	// parsing, including those from configuration loaders, use them.
	cli.Log.scan(args)

	opts := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, strings.TrimSuffix(configFile, filepath.Ext(configFile))+".json"),
		kong.Configuration(resolve(ctx), configFile),
		vars,
	}

	parser, err := kong.New(&cli, append(opts, extra...)...)
	if err != nil {
		return err
	}

	// Log messages share the diagnostics stream of the parser.
	log.Config(log.WithOutput(parser.Stderr))

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values, including those
	// read from the user configuration file.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx, cmd.Options{
		Dir:               cli.Dir,
		UserConfig:        configFile,
		ConfigFiles:       cli.Config,
		ProtectedPrefixes: cli.ProtectedPrefix,
	})

	return ktx.Run(ctx)
}
