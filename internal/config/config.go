package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/dupscan/internal/constants"
)

// Config represents the main configuration structure
type Config struct {
	// Duplicates holds the detection policy
	Duplicates DuplicatesConfig `mapstructure:"duplicates" yaml:"duplicates" toml:"duplicates"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" toml:"output"`
}

// DuplicatesConfig holds configuration for duplicate block detection
type DuplicatesConfig struct {
	// WindowSize is the number of normalized lines hashed per window
	WindowSize int `mapstructure:"window_size" yaml:"window_size" toml:"window_size"`

	// MaxFiles caps the number of files scanned
	MaxFiles int `mapstructure:"max_files" yaml:"max_files" toml:"max_files"`

	MaxGroups            int `mapstructure:"max_groups" yaml:"max_groups" toml:"max_groups"`
	MaxFilesPerGroup     int `mapstructure:"max_files_per_group" yaml:"max_files_per_group" toml:"max_files_per_group"`
	MaxLocationsPerGroup int `mapstructure:"max_locations_per_group" yaml:"max_locations_per_group" toml:"max_locations_per_group"`

	// Extension selects the files to scan, matched as a name suffix
	Extension string `mapstructure:"extension" yaml:"extension" toml:"extension"`

	// CommentMarker prefixes lines ignored by normalization
	CommentMarker string `mapstructure:"comment_marker" yaml:"comment_marker" toml:"comment_marker"`

	// ExcludePatterns are doublestar globs matched against relative paths
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" toml:"exclude_patterns"`

	// MaxWorkers bounds concurrent file reads; 0 uses the number of CPUs
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers" toml:"max_workers"`

	// FileTimeoutMs bounds each file read; 0 disables the timeout
	FileTimeoutMs int `mapstructure:"file_timeout_ms" yaml:"file_timeout_ms" toml:"file_timeout_ms"`

	// ReadRate limits file reads per second; 0 is unlimited
	ReadRate float64 `mapstructure:"read_rate" yaml:"read_rate" toml:"read_rate"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv, markdown
	Format string `mapstructure:"format" yaml:"format" toml:"format"`

	// Directory receives report files; empty writes to stdout
	Directory string `mapstructure:"directory" yaml:"directory" toml:"directory"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Duplicates: DuplicatesConfig{
			WindowSize:           constants.DefaultWindowSize,
			MaxFiles:             constants.DefaultMaxFiles,
			MaxGroups:            constants.DefaultMaxGroups,
			MaxFilesPerGroup:     constants.DefaultMaxFilesPerGroup,
			MaxLocationsPerGroup: constants.DefaultMaxLocationsPerGroup,
			Extension:            constants.DefaultSourceExtension,
			CommentMarker:        constants.DefaultCommentMarker,
			ExcludePatterns:      []string{},
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// LoadConfig reads an explicit configuration file. TOML, YAML and JSON are
// accepted by extension; a pyproject.toml is read from its [tool.dupscan]
// table. An empty path returns the defaults.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	if filepath.Base(configPath) == PyprojectFileName {
		cfg, err := LoadPyprojectFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return cfg, nil
	}

	config := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigForTarget loads configPath when given; otherwise it discovers a
// .dupscan.toml or pyproject.toml by walking up from targetPath.
func LoadConfigForTarget(configPath, targetPath string) (*Config, error) {
	if configPath != "" {
		return LoadConfig(configPath)
	}

	config, err := NewTomlConfigLoader().LoadConfig(targetPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	d := c.Duplicates

	if d.WindowSize < 1 {
		return fmt.Errorf("duplicates.window_size must be >= 1, got %d", d.WindowSize)
	}
	if d.MaxFiles < 1 {
		return fmt.Errorf("duplicates.max_files must be >= 1, got %d", d.MaxFiles)
	}
	if d.MaxGroups < 1 {
		return fmt.Errorf("duplicates.max_groups must be >= 1, got %d", d.MaxGroups)
	}
	if d.MaxFilesPerGroup < 1 {
		return fmt.Errorf("duplicates.max_files_per_group must be >= 1, got %d", d.MaxFilesPerGroup)
	}
	if d.MaxLocationsPerGroup < 1 {
		return fmt.Errorf("duplicates.max_locations_per_group must be >= 1, got %d", d.MaxLocationsPerGroup)
	}
	if strings.TrimSpace(d.Extension) == "" {
		return fmt.Errorf("duplicates.extension cannot be empty")
	}
	if strings.TrimSpace(d.CommentMarker) == "" {
		return fmt.Errorf("duplicates.comment_marker cannot be empty")
	}
	if d.MaxWorkers < 0 {
		return fmt.Errorf("duplicates.max_workers must be >= 0, got %d", d.MaxWorkers)
	}
	if d.FileTimeoutMs < 0 {
		return fmt.Errorf("duplicates.file_timeout_ms must be >= 0, got %d", d.FileTimeoutMs)
	}
	if d.ReadRate < 0 {
		return fmt.Errorf("duplicates.read_rate must be >= 0, got %g", d.ReadRate)
	}

	validFormats := map[string]bool{
		"text": true, "json": true, "yaml": true, "csv": true, "markdown": true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output format '%s', must be one of: text, json, yaml, csv, markdown", c.Output.Format)
	}

	return nil
}
