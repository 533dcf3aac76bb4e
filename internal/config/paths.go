// Package config provides configuration management for storefind.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds all the path configurations for storefind.
type Paths struct {
	// ConfigDir is the directory for configuration files (~/.config/storefind)
	ConfigDir string

	// DataDir is the directory for persisted state (~/.local/share/storefind)
	DataDir string

	// RuntimeDir is the directory for lock files
	RuntimeDir string
}

// DefaultPaths returns the default paths based on XDG Base Directory spec.
// On Windows, it uses %APPDATA% instead.
func DefaultPaths() *Paths {
	home := homeDir()

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(home, "AppData", "Local")
		}

		return &Paths{
			ConfigDir:  filepath.Join(appData, "storefind"),
			DataDir:    filepath.Join(localAppData, "storefind"),
			RuntimeDir: filepath.Join(localAppData, "storefind", "run"),
		}
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = filepath.Join(home, ".storefind", "run")
	} else {
		runtimeDir = filepath.Join(runtimeDir, "storefind")
	}

	return &Paths{
		ConfigDir:  filepath.Join(configHome, "storefind"),
		DataDir:    filepath.Join(dataHome, "storefind"),
		RuntimeDir: runtimeDir,
	}
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// DatabaseFile returns the path to the SQLite database.
func (p *Paths) DatabaseFile() string {
	return filepath.Join(p.DataDir, "state.db")
}

// BadgerDir returns the directory of the Badger recents database.
func (p *Paths) BadgerDir() string {
	return filepath.Join(p.DataDir, "recents.badger")
}

// RecentsFile returns the path to the JSON recents file.
func (p *Paths) RecentsFile() string {
	return filepath.Join(p.DataDir, "recents.json")
}

// LogFile returns the default log file path.
func (p *Paths) LogFile() string {
	return filepath.Join(p.DataDir, "logs", "storefind.log")
}

// PickerLockFile returns the lock held while a picker is open.
func (p *Paths) PickerLockFile() string {
	return filepath.Join(p.RuntimeDir, "picker.lock")
}

// EnsureDirectories creates all necessary directories.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ConfigDir, p.DataDir, p.RuntimeDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		if runtime.GOOS == "windows" {
			return os.Getenv("USERPROFILE")
		}
		return os.Getenv("HOME")
	}
	return home
}
