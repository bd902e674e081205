package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Addr joins the configured address and port into a listen address.
func (c *Config) Addr() string {
	host := c.Server.Address
	port := c.Server.Port
	if port == 0 {
		port = 3001
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// Load reads a YAML config file from path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// ResolveConfigPath picks the config file path: an explicitly set flag wins,
// then KIARACHAT_CONFIG, then the flag default.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if v := os.Getenv("KIARACHAT_CONFIG"); v != "" {
		return v
	}
	return flagPath
}
