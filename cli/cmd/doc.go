// Package cmd implements the envtab subcommands.
//
// Every command runs the same pipeline: discover and load configuration
// layers, resolve the merged env table, resolve relative paths, and compose
// the environment for one process context. Commands differ only in what they
// do with the composition: check validates, show prints, and build, run, and
// exec start a child process with it.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the user configuration file.
	ConfigIdentifier = "config"
)
