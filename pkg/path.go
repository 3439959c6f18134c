package pkg

import (
	"os"
	"path/filepath"
	"sync"
)

// ConfigFileName is the base name of the user configuration file within
// [ConfigDir].
const ConfigFileName = "config.yaml"

// ConfigDir returns the user configuration directory of the tool, falling
// back to ~/.config and then the working directory.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserConfigDir, ".config"), Name)
	},
)

// CacheDir returns the directory used for transient files such as profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserCacheDir, ".cache"), Name)
	},
)

// ConfigFile returns the path of the user configuration file. It forms the
// outermost configuration layer and holds command-line option defaults.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

func userDir(lookup func() (string, error), hidden string) string {
	dir, err := lookup()
	if err == nil {
		return dir
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, hidden)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "."
	}

	return wd
}
