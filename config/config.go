package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds initialization parameters for all runtime subsystems.
type Config struct {
	Bucket  BucketConfig  `json:"bucket" yaml:"bucket"`
	Network NetworkConfig `json:"network" yaml:"network"`
	Ingress IngressConfig `json:"ingress" yaml:"ingress"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// DefaultConfig returns a Config with sensible defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Bucket:  DefaultBucketConfig(),
		Network: DefaultNetworkConfig(),
		Ingress: DefaultIngressConfig(),
		Metrics: DefaultMetricsConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Bucket.Merge(&source.Bucket)
	c.Network.Merge(&source.Network)
	c.Ingress.Merge(&source.Ingress)
	c.Metrics.Merge(&source.Metrics)
}

// Load reads a JSON or YAML config file, merges it with defaults, and returns
// the resulting Config. The format is chosen by file extension.
func Load(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	loaded, err := Parse(data, filepath.Ext(filename))
	if err != nil {
		return nil, err
	}

	cfg.Merge(loaded)
	return &cfg, nil
}

// Parse decodes data in the format named by ext (".json", ".yaml", ".yml")
// without applying defaults.
func Parse(data []byte, ext string) (*Config, error) {
	var loaded Config

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %q", ext)
	}

	return &loaded, nil
}
