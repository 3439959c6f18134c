// Package cli contains the command line interface for envtab.
//
// # Usage
//
//	envtab [flags] <command> [args]
//
// Commands:
//
//   - check: validate every configuration layer that applies
//   - show: print the environment composed for a process context (default)
//   - build -- CMD: run CMD with the build environment
//   - run -- CMD: run CMD with the run environment
//   - exec -- CMD: run CMD with the subcommand environment
//   - init: write the user configuration file
//
// # Configuration
//
// Configuration files named .envtab.yaml are discovered from --dir up to the
// filesystem root. The user configuration file is the outermost layer; its
// options mapping also supplies flag defaults:
//
//	options:
//	  log-level: debug
//	  protected-prefix: [TOOL_]
//	env:
//	  GREETING: hello
//
// # Logging Options
//
//   - --log-level: minimum log level (trace, debug, info, warn, error)
//   - --log-format: log output format (text, json)
//   - --log-time-layout: timestamp layout (kitchen, RFC3339, none, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o envtab .
//	envtab --pprof-mode=cpu --pprof-dir=/tmp/profiles check
package cli
