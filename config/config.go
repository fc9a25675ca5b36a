// Package config handles the per-user configuration file and the
// XDG-style directory conventions the tool stores state under.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the top-level per-user configuration.
type Config struct {
	// Repos lists the source repositories to search for projects when the
	// current working directory is not inside one.
	Repos []string `yaml:"repos"`

	// Ignore maps a repo name to project names excluded from discovery.
	Ignore map[string][]string `yaml:"ignore,omitempty"`

	// Defaults pre-fill prompts during metadata initialization.
	Defaults Defaults `yaml:"defaults,omitempty"`

	// ReposParent is the directory containing all source repositories.
	ReposParent string `yaml:"repos_parent,omitempty"`

	// TemplatesDir is the directory holding "Mod Template", "Bro Template"
	// and the "ThunderstorePackage" assets.
	TemplatesDir string `yaml:"templates_dir,omitempty"`
}

// Defaults holds optional default values offered during initialization.
type Defaults struct {
	Namespace  string `yaml:"namespace,omitempty"`
	WebsiteURL string `yaml:"website_url,omitempty"`
}

// Load reads the configuration file. A missing file yields an empty config;
// an unreadable or malformed file is logged as a warning and also yields an
// empty config, never an error.
func Load() *Config {
	path := FilePath()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("Failed to read config file %q: %v", path, err)
		}
		return &Config{}
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		logger.Warnf("Failed to parse config file %q: %v", path, unmarshalErr)
		return &Config{}
	}
	return &cfg
}

// Save writes the configuration file, creating the config directory first.
func Save(cfg *Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory %q: %w", dir, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	path := FilePath()
	if writeErr := os.WriteFile(path, data, 0o644); writeErr != nil {
		return fmt.Errorf("failed to write config file %q: %w", path, writeErr)
	}
	return nil
}

// IgnoredProjects returns the ignore list for a repo, or nil.
func (c *Config) IgnoredProjects(repo string) []string {
	if c.Ignore == nil {
		return nil
	}
	return c.Ignore[repo]
}

// HasRepo reports whether the repo is already configured.
func (c *Config) HasRepo(name string) bool {
	for _, r := range c.Repos {
		if r == name {
			return true
		}
	}
	return false
}

// FilePath is the location of the configuration file.
func FilePath() string {
	return filepath.Join(Dir(), "config.yaml")
}
