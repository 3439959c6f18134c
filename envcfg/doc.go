// Package envcfg resolves the env table of a layered build configuration
// into the environment of the processes a build tool starts.
//
// # Declarations
//
// Each key of the env table names one variable. Its value is either a string
// or a table:
//
//	env:
//	  GREETING: hello
//	  TOOLCHAIN_DIR: { value: toolchain, relative: true }
//	  PATH: { value: /opt/bin, force: true, in_subcommands: true }
//
// [ParseEntry] converts one declaration to an [Entry]. [Resolve] converts the
// whole table, rejecting names in the protected namespace (see
// [IsProtected]) and reporting every malformed declaration at once.
//
// # Paths
//
// Entries declared with relative set hold a path relative to the directory
// of the configuration file that declared them. [Table.ResolvePaths] turns
// them into absolute paths. Other values are opaque strings.
//
// # Composition
//
// [Compose] applies a table to an inherited environment for one [Context]:
//
//   - [Build] and [RunArtifact] see every entry; the composition also carries
//     the final values as compile-time constants.
//   - [Subcommand] only sees entries declared with in_subcommands.
//
// A forced entry always wins over the inherited environment; any other entry
// is only a default for a variable the inherited environment lacks.
//
// All functions in this package are pure and safe for concurrent use.
package envcfg
