package config

import (
	"os"
	"path/filepath"
)

// appDirName is the directory used under the user config dir.
const appDirName = "umcp"

// DefaultSettingsPath returns the per-user settings file location,
// falling back to the temp dir when no user config dir is available.
func DefaultSettingsPath() string {
	return filepath.Join(baseDir(), "settings.json")
}

// DefaultStateCacheDir returns the directory used for persisted state
// snapshots.
func DefaultStateCacheDir() string {
	cacheHome, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDirName)
	}
	return filepath.Join(cacheHome, appDirName)
}

func baseDir() string {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDirName)
	}
	return filepath.Join(configHome, appDirName)
}
