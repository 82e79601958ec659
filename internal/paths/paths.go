// Package paths resolves where annopack keeps its configuration and its
// pack database.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppDirName is the per-user directory name under the platform config and
// data roots.
const AppDirName = "annopack"

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".annopack"
	DefaultDataDirName   = ".annopack-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "ANNOPACK_CONFIG_DIR"
	EnvDataDir   = "ANNOPACK_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/annopack (fallback ~/.config/annopack)
// macOS:   ~/Library/Application Support/annopack
// Windows: %APPDATA%/annopack
func DefaultConfigDir() (string, error) {
	return platformAppDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/annopack (fallback ~/.local/share/annopack)
// macOS and Windows: same as DefaultConfigDir
func DefaultDataDir() (string, error) {
	return platformAppDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// platformAppDir applies the XDG rules on Linux and os.UserConfigDir
// elsewhere.
func platformAppDir(xdgEnv, homeRel string) (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv(xdgEnv); xdg != "" {
			return filepath.Join(xdg, AppDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, homeRel, AppDirName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppDirName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > ANNOPACK_CONFIG_DIR env > DefaultConfigDir().
// Explicit values are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config.yaml data_dir > ANNOPACK_DATA_DIR env > $(CWD)/.annopack-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
