// Package config provides configuration loading and validation for ptxgen.yaml.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"ptxgen/internal/errors"
)

// DefaultFileName is the config file looked up in the working directory when
// no explicit --config path is given.
const DefaultFileName = "ptxgen.yaml"

// Config holds the full ptxgen configuration. All fields are optional in the
// file; unset fields receive defaults mirroring the original CUTLASS build
// setup.
type Config struct {
	InputDir       string   `yaml:"input_dir"`
	OutputDir      string   `yaml:"output_dir"`
	NVCC           string   `yaml:"nvcc"`
	Flags          []string `yaml:"flags"`
	Includes       []string `yaml:"includes"`
	Architectures  []string `yaml:"architectures"`
	DefaultArch    string   `yaml:"default_arch"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// Load reads, parses, validates, and defaults a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Configf("failed to read config file: %v", err)
	}

	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Configf("failed to parse config file: %v", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault loads the config at path, or, when path is empty, the default
// file in the working directory if it exists. With no file at all, the
// built-in defaults are returned.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFileName); err == nil {
		return Load(DefaultFileName)
	}
	return Default(), nil
}
