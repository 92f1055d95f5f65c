// Package config loads and validates the distbuilder YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/distbuilder/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Output  OutputConfig  `yaml:"output"`
	History HistoryConfig `yaml:"history"`
	Update  UpdateConfig  `yaml:"update"`
}

// SourceConfig describes where product data lives and what to skip.
type SourceConfig struct {
	DataDir     string   `yaml:"data_dir"`     // root data/ folder, published as the "general" product
	ProductsDir string   `yaml:"products_dir"` // products/<name>/ folders
	Exclude     []string `yaml:"exclude,omitempty"` // glob patterns matched against base names
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// HistoryConfig configures the build-history store. An empty path disables it.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// UpdateConfig configures the smart-contracts updater.
type UpdateConfig struct {
	DataFile    string `yaml:"data_file,omitempty"`
	CoreRawBase string `yaml:"core_raw_base,omitempty"`
}

// DefaultExcludes are skipped during source enumeration when the config does
// not specify its own exclude list. Documentation and dotfiles are not data.
var DefaultExcludes = []string{"*.md", ".*"}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just note it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// LoadOrDefault loads the config file if present, otherwise returns defaults.
// The build pipeline works against a plain data/ + products/ checkout without
// any configuration file.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg, nil
	}
	return Load(configPath)
}

func (c *Config) applyDefaults() {
	if c.Source.DataDir == "" {
		c.Source.DataDir = "data"
	}
	if c.Source.ProductsDir == "" {
		c.Source.ProductsDir = "products"
	}
	if len(c.Source.Exclude) == 0 {
		c.Source.Exclude = append([]string(nil), DefaultExcludes...)
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "dist"
	}
	if c.Update.DataFile == "" {
		c.Update.DataFile = filepath.Join(c.Source.DataDir, "smart_contracts.json")
	}
	if c.Update.CoreRawBase == "" {
		c.Update.CoreRawBase = "https://raw.githubusercontent.com/qubic/core/main"
	}
}

// Excluded reports whether a file base name matches any configured exclude pattern.
// Invalid patterns are ignored rather than failing the walk.
func (c *Config) Excluded(baseName string) bool {
	for _, pattern := range c.Source.Exclude {
		if ok, err := filepath.Match(pattern, baseName); err == nil && ok {
			return true
		}
	}
	return false
}

// Init writes a default configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Source: SourceConfig{
			DataDir:     "data",
			ProductsDir: "products",
			Exclude:     DefaultExcludes,
		},
		Output: OutputConfig{
			Directory: "dist",
		},
		History: HistoryConfig{
			Path: filepath.Join(".distbuilder", "history.db"),
		},
		Update: UpdateConfig{
			DataFile:    "data/smart_contracts.json",
			CoreRawBase: "https://raw.githubusercontent.com/qubic/core/main",
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
