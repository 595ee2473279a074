package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// ConfigDirName is the name of the config directory under ~/.config.
const ConfigDirName = "bootstrap"

// GetConfigDir returns the config directory path (~/.config/bootstrap).
// Respects XDG_CONFIG_HOME if set.
func GetConfigDir(getenv func(string) string) (string, error) {
	configHome := getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDirName), nil
}

// ResolveBaseDir picks the directory holding the tier files:
// the --dir flag, then BOOTSTRAP_HOME, then the XDG config dir.
func ResolveBaseDir(flagDir string, getenv func(string) string) (string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	dir := flagDir
	if dir == "" {
		dir = getenv(KeyHome)
	}
	if dir == "" {
		return GetConfigDir(getenv)
	}

	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", dir, err)
	}
	return filepath.Abs(expanded)
}
