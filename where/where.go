// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "PAGEVAULT_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// It follows XDG_CONFIG_HOME on Linux and the user profile equivalents on Darwin and Windows.
// The path can be overridden via the PAGEVAULT_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Handlers resolves the directory scanned for capture handler units.
// It is not created here; handler discovery creates it together with its marker file.
func Handlers() string {
	return filepath.Join(Config(), "handlers")
}

// DefaultScript resolves the browser script used when no custom handler matches.
func DefaultScript() string {
	if custom := viper.GetString(key.CaptureDefaultScript); custom != "" {
		return custom
	}
	return filepath.Join(Config(), constant.DefaultScriptName)
}

// Archive resolves the directory snapshots are written to.
// Without configuration this is the current working directory.
func Archive() string {
	if custom := viper.GetString(key.ArchivePath); custom != "" {
		return ensureDir(lo.Must(filepath.Abs(custom)))
	}
	return lo.Must(os.Getwd())
}

// History resolves the absolute path to the capture history file.
func History() string {
	return filepath.Join(Config(), "history.json")
}
