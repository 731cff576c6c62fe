package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// getConfigDir returns the configuration directory for warden.
func getConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "warden")
}

// getDataDir returns the data directory for warden.
// This follows XDG on Linux, Application Support on macOS, and LocalAppData on Windows.
func getDataDir() string {
	switch runtime.GOOS {
	case "linux":
		// Follow XDG Base Directory Specification
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, "warden")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "warden")

	case "darwin":
		// macOS: Use Application Support (same as config)
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "warden")

	case "windows":
		// Windows: Use LocalAppData
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "warden")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "AppData", "Local", "warden")

	default:
		// Fallback: use config directory
		return getConfigDir()
	}
}

// EnsureDirectories creates all required directories if they don't exist.
func EnsureDirectories() error {
	paths := ResolvePaths()

	dirs := []string{
		paths.ConfigDir,
		paths.DataDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	return nil
}
