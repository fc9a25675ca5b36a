package config

import (
	"errors"
	"os"
	"path/filepath"
)

const appDirName = "broforce-tools"

// Environment overrides, checked before any other resolution. They exist so
// tests and the Nix wrapper can relocate state without touching the config.
const (
	EnvConfigDir    = "BROFORCE_CONFIG_DIR"
	EnvCacheDir     = "BROFORCE_CACHE_DIR"
	EnvTemplatesDir = "BROFORCE_TEMPLATES_DIR"
	EnvReposParent  = "BROFORCE_REPOS_PARENT"
)

// Dir resolves the config directory: env override, then
// $XDG_CONFIG_HOME/broforce-tools, then ~/.config/broforce-tools.
func Dir() string {
	if p := os.Getenv(EnvConfigDir); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return appDirName
	}
	return filepath.Join(home, ".config", appDirName)
}

// CacheDir resolves the cache directory: env override, then
// $XDG_CACHE_HOME/broforce-tools, then ~/.cache/broforce-tools.
func CacheDir() string {
	if p := os.Getenv(EnvCacheDir); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDirName)
	}
	return filepath.Join(home, ".cache", appDirName)
}

// CacheFilePath is the location of the dependency version cache.
func CacheFilePath() string {
	return filepath.Join(CacheDir(), "dependency_cache.json")
}

// ReposParentDir resolves the directory containing all source repositories:
// env override, then the config setting.
func (c *Config) ReposParentDir() (string, error) {
	if p := os.Getenv(EnvReposParent); p != "" {
		return p, nil
	}
	if c.ReposParent != "" {
		return c.ReposParent, nil
	}
	return "", errors.New("repos parent directory not configured (set repos_parent in the config file or " + EnvReposParent + ")")
}

// TemplatesDirPath resolves the templates directory: env override, then the
// config setting, then a "Broforce-Templates" sibling of the repos parent.
func (c *Config) TemplatesDirPath() (string, error) {
	if p := os.Getenv(EnvTemplatesDir); p != "" {
		return p, nil
	}
	if c.TemplatesDir != "" {
		return c.TemplatesDir, nil
	}
	parent, err := c.ReposParentDir()
	if err != nil {
		return "", errors.New("templates directory not configured (set templates_dir in the config file or " + EnvTemplatesDir + ")")
	}
	return filepath.Join(parent, "Broforce-Templates"), nil
}
