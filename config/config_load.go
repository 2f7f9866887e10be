package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Load reads and validates a TOML config file. Fields absent from the file
// keep their defaults. Any failure here is a startup failure; there is no
// partially loaded configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	cfg := NewDefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	cfg.Source = path

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: validation of %s failed: %w", path, err)
	}

	return cfg, nil
}
