package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/gitid/internal/constants"
	"github.com/mrz1836/gitid/internal/errors"
)

// GlobalConfigDir returns the path to the global gitid configuration
// directory, typically ~/.config/gitid on Unix systems.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, filepath.FromSlash(constants.ConfigDir)), nil
}

// GlobalConfigPath returns the full path to the global configuration file,
// typically ~/.config/gitid/config.yaml.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// LogDir returns the directory for rotated log files.
func LogDir() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogDirName), nil
}
