// Package config loads gitfeed's configuration.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// FileName is the config file looked up inside Dir.
const FileName = "config.yaml"

// Dir returns the gitfeed configuration directory.
//
// Resolution:
//   - $GITFEED_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/gitfeed if set (respects XDG on any platform)
//   - %AppData%/gitfeed on Windows
//   - ~/.config/gitfeed on macOS and Linux
func Dir() string {
	if dir := os.Getenv("GITFEED_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gitfeed")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "gitfeed")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gitfeed")
}

// DefaultPath returns the config file path inside Dir, or "" when no
// directory can be resolved.
func DefaultPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, FileName)
}
