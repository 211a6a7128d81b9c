// Package config holds runtime configuration for the remediation handler.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration
type Config struct {
	Region string       `yaml:"region,omitempty"`
	DryRun bool         `yaml:"dry_run,omitempty"`
	Policy PolicyConfig `yaml:"policy,omitempty"`
}

// PolicyConfig defines remediation exemptions
type PolicyConfig struct {
	TrustedImages []string `yaml:"trusted_images,omitempty"`
	ExemptTag     string   `yaml:"exempt_tag,omitempty"`
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds configuration from AMIGUARD_* environment variables.
// This is the path Lambda deployments take, where there is no config
// file to mount.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Region: os.Getenv("AMIGUARD_REGION"),
		DryRun: os.Getenv("AMIGUARD_DRY_RUN") == "true",
		Policy: PolicyConfig{
			ExemptTag: os.Getenv("AMIGUARD_EXEMPT_TAG"),
		},
	}

	if trusted := os.Getenv("AMIGUARD_TRUSTED_IMAGES"); trusted != "" {
		for _, id := range strings.Split(trusted, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.Policy.TrustedImages = append(cfg.Policy.TrustedImages, id)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate ensures config fields are well formed. Everything is
// optional; the SDK resolves the region when it is left empty.
func (c *Config) Validate() error {
	for _, id := range c.Policy.TrustedImages {
		if !strings.HasPrefix(id, "ami-") {
			return fmt.Errorf("trusted image %q is not an AMI id", id)
		}
	}
	return nil
}
