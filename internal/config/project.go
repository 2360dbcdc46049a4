package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the project configuration file looked up next to the input
const ProjectFileName = ".qskel.yaml"

// ProjectConfig represents a .qskel.yaml file
type ProjectConfig struct {
	// Planning strategy: general, mapping, delegation
	Strategy string `yaml:"strategy,omitempty"`

	// Source namespace override; empty keeps the model's namespace
	Namespace string `yaml:"namespace,omitempty"`

	// Output emitter name
	Emitter string `yaml:"emitter,omitempty"`

	// Substrings marking members that should reject invalid input
	FailureMarkers []string `yaml:"failure_markers,omitempty"`

	// Canonical literal overrides keyed by scalar kind (text, int32, ...)
	Literals map[string]string `yaml:"literals,omitempty"`

	// Upper bound on compared properties in mapping cases
	MaxMappedProperties int `yaml:"max_mapped_properties,omitempty"`

	// Entity names excluded from generation
	Exclude []string `yaml:"exclude,omitempty"`
}

// DefaultProjectConfig returns sensible defaults
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Strategy:            "general",
		Emitter:             "xunit",
		FailureMarkers:      []string{"validat", "fail"},
		MaxMappedProperties: 3,
	}
}

// LoadProjectConfig loads a .qskel.yaml from the given directory. A missing
// file yields the defaults.
func LoadProjectConfig(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ProjectFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = filepath.Join(dir, ".qskel.yml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return DefaultProjectConfig(), nil
		}
	}

	return LoadProjectConfigFile(configPath)
}

// LoadProjectConfigFile loads an explicit project configuration file
func LoadProjectConfigFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultProjectConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid project config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveProjectConfig saves the config to .qskel.yaml
func SaveProjectConfig(dir string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, ProjectFileName), data, 0644)
}

// Merge applies overrides from another config (e.g., CLI flags)
func (c *ProjectConfig) Merge(other *ProjectConfig) {
	if other == nil {
		return
	}

	if other.Strategy != "" {
		c.Strategy = other.Strategy
	}

	if other.Namespace != "" {
		c.Namespace = other.Namespace
	}

	if other.Emitter != "" {
		c.Emitter = other.Emitter
	}

	if len(other.FailureMarkers) > 0 {
		c.FailureMarkers = other.FailureMarkers
	}

	if len(other.Literals) > 0 {
		if c.Literals == nil {
			c.Literals = make(map[string]string, len(other.Literals))
		}
		for kind, lit := range other.Literals {
			c.Literals[kind] = lit
		}
	}

	if other.MaxMappedProperties != 0 {
		c.MaxMappedProperties = other.MaxMappedProperties
	}

	if len(other.Exclude) > 0 {
		c.Exclude = other.Exclude
	}
}
