// Package paths resolves where pets keeps its config.yaml and its database.
// Flags win over environment variables, which win over defaults.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// appName names the platform config subdirectory.
const appName = "pets"

// ConfigFileName is the file read from and written to the config directory.
const ConfigFileName = "config.yaml"

// DefaultDataDirName is the data directory created under the working
// directory when nothing else is configured.
const DefaultDataDirName = ".pets-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "PETS_CONFIG_DIR"
	EnvDataDir   = "PETS_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	workDir       func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	workDir:       os.Getwd,
}

// DefaultConfigDir returns the per-user configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/pets (fallback ~/.config/pets)
// macOS:   ~/Library/Application Support/pets
// Windows: %APPDATA%/pets
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir returns the absolute configuration directory:
// flag > PETS_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	return firstAbs(DefaultConfigDir, flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir returns the absolute data directory:
// flag > data_dir from config.yaml > PETS_DATA_DIR > $(CWD)/.pets-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	return firstAbs(defaultDataDir, flag, configYAMLValue, os.Getenv(EnvDataDir))
}

// ConfigFile returns the path of config.yaml inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

func defaultDataDir() (string, error) {
	cwd, err := platformDir.workDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// firstAbs returns the first non-empty candidate as an absolute path, or the
// fallback when every candidate is empty. A leading "~" names the home
// directory, since values from config.yaml never pass through a shell.
func firstAbs(fallback func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		p, err := expandHome(c)
		if err != nil {
			return "", err
		}
		return filepath.Abs(p)
	}
	return fallback()
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
