// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"crossref-scan/internal/paths"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format          string   `yaml:"format"`
		SeverityLevels  string   `yaml:"severity_levels"`
		Checks          string   `yaml:"checks"`
		Verbose         bool     `yaml:"verbose"`
		Debug           bool     `yaml:"debug"`
		NoColor         bool     `yaml:"no_color"`
		ExcludePatterns []string `yaml:"exclude_patterns"`
	} `yaml:"defaults"`

	// Cross-reference subsystem settings
	CrossReferences struct {
		Enabled bool `yaml:"enabled"`
		// MaxFilesToIndex caps corpus size per indexing pass; 0 = unlimited.
		MaxFilesToIndex int `yaml:"max_files_to_index"`
		// RuleTimeoutSeconds bounds a single validation rule's run.
		RuleTimeoutSeconds int `yaml:"rule_timeout_seconds"`
		Workers            int `yaml:"workers"`
	} `yaml:"cross_references"`

	// Rule category toggles; a disabled category omits the rule family
	// entirely at construction.
	Rules struct {
		Reference bool `yaml:"reference"`
		Citation  bool `yaml:"citation"`
		Figure    bool `yaml:"figure"`
		Table     bool `yaml:"table"`
		Structure bool `yaml:"structure"`
	} `yaml:"rules"`

	// Bibliography settings for the citation rules
	Bibliography struct {
		// Path overrides where .bib files are searched; empty means the
		// corpus root.
		Path string `yaml:"path"`
	} `yaml:"bibliography"`

	// Profiles for different scanning scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile represents a scanning profile with specific settings
type Profile struct {
	Format         string   `yaml:"format"`
	SeverityLevels string   `yaml:"severity_levels"`
	Checks         string   `yaml:"checks"`
	Verbose        bool     `yaml:"verbose"`
	NoColor        bool     `yaml:"no_color"`
	Description    string   `yaml:"description"`
	ExcludeRules   []string `yaml:"exclude_rules"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	// Default configuration
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	// Set default values
	config.Defaults.Format = "text"
	config.Defaults.SeverityLevels = "all"
	config.Defaults.Checks = "all"
	config.CrossReferences.Enabled = true
	config.CrossReferences.MaxFilesToIndex = 0
	config.CrossReferences.RuleTimeoutSeconds = 30
	config.Rules.Reference = true
	config.Rules.Citation = true
	config.Rules.Figure = true
	config.Rules.Table = true
	config.Rules.Structure = true

	// Add default CI profile: errors only, no color
	config.Profiles["ci"] = Profile{
		Format:         "sarif",
		SeverityLevels: "critical,error",
		Checks:         "all",
		NoColor:        true,
		Description:    "Optimized for CI pipelines: machine output, errors only",
	}

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// YAML unmarshaling zeroes absent booleans; restore the defaults for
	// toggles the file did not mention.
	if !containsField(data, "cross_references", "enabled") {
		config.CrossReferences.Enabled = true
	}
	for _, category := range []string{"reference", "citation", "figure", "table", "structure"} {
		if !containsField(data, "rules", category) {
			switch category {
			case "reference":
				config.Rules.Reference = true
			case "citation":
				config.Rules.Citation = true
			case "figure":
				config.Rules.Figure = true
			case "table":
				config.Rules.Table = true
			case "structure":
				config.Rules.Structure = true
			}
		}
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads the given config file, falling back to defaults
// on any error.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg, _ = LoadConfig("")
	}
	return cfg
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Check current directory first - prioritize project-specific config
	for _, name := range []string{".crossref-scan.yaml", ".crossref-scan.yml", "crossref-scan.yaml", "crossref-scan.yml"} {
		if fileExists(name) {
			return name
		}
	}

	standardConfig := paths.GetConfigFile()
	if fileExists(standardConfig) {
		return standardConfig
	}
	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// ListProfiles returns the names of all configured profiles
func (c *Config) ListProfiles() []string {
	var names []string
	for name := range c.Profiles {
		names = append(names, name)
	}
	return names
}

// GetProfile returns a profile by name, or nil if it doesn't exist
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ValidateConfig checks configuration values for consistency
func ValidateConfig(config *Config) error {
	switch config.Defaults.Format {
	case "", "text", "json", "csv", "sarif":
	default:
		return fmt.Errorf("unknown output format %q", config.Defaults.Format)
	}
	if config.CrossReferences.MaxFilesToIndex < 0 {
		return fmt.Errorf("max_files_to_index must be >= 0")
	}
	if config.CrossReferences.RuleTimeoutSeconds < 0 {
		return fmt.Errorf("rule_timeout_seconds must be >= 0")
	}
	for _, level := range strings.Split(config.Defaults.SeverityLevels, ",") {
		switch strings.ToLower(strings.TrimSpace(level)) {
		case "", "all", "critical", "error", "warning", "info":
		default:
			return fmt.Errorf("unknown severity level %q", strings.TrimSpace(level))
		}
	}
	return nil
}

// containsField checks whether the raw YAML document sets a nested field,
// so absent booleans keep their defaults.
func containsField(data []byte, path ...string) bool {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false
	}
	current := doc
	for i, key := range path {
		value, ok := current[key]
		if !ok {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		next, ok := value.(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}
