package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ConfigPath returns the config file location: $TODOAPP_CONFIG_PATH when
// non-blank, otherwise config.toml in the application directory.
func ConfigPath() (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvConfigPath)); v != "" {
		return expandPath(v), nil
	}
	dir, err := appDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// DefaultStorePath returns tasks.json in the application directory.
func DefaultStorePath() (string, error) {
	dir, err := appDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultStoreFile), nil
}

// appDir returns the per-user application directory:
// %APPDATA%\todoapp on Windows, $HOME/.config/todoapp elsewhere.
func appDir() (string, error) {
	base, err := osUserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// osUserConfigDir returns the OS-specific user config directory. macOS
// uses ~/.config like the other Unix systems.
func osUserConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata, nil
		}
		return "", errors.New("APPDATA is not set")
	}
	home := os.Getenv("HOME")
	if home == "" {
		return "", errors.New("HOME is not set")
	}
	return filepath.Join(home, ".config"), nil
}
