package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the version of the tool, set at build time.
var Version string

type (
	// Config is the top-level tool configuration.
	Config struct {
		ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
	}

	// ApplicationConfiguration holds tunables that do not affect the
	// encoding itself.
	ApplicationConfiguration struct {
		LogLevel        string `yaml:"LogLevel"`
		LogPath         string `yaml:"LogPath"`
		SchemaCacheSize int    `yaml:"SchemaCacheSize"`
	}
)

// Load reads a YAML configuration file. An empty path yields the default
// configuration.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config '%s': %w", path, err)
	}
	return cfg, nil
}
