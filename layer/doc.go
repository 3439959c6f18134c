// Package layer discovers, reads, and merges envtab configuration files.
//
// A configuration file is a YAML document whose env key holds the entry
// declarations understood by package envcfg:
//
//	env:
//	  GREETING: hello
//	  DATA_DIR: { value: data, relative: true }
//
// Files closer to the working directory take precedence over files further
// up the directory tree, which in turn take precedence over the user
// configuration file. Merging happens per name: the nearest declaration of a
// name replaces all others, and the directory of the file holding it becomes
// the base for relative paths.
package layer
