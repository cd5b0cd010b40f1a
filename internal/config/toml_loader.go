package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DupscanFileName is the dedicated configuration file
const DupscanFileName = ".dupscan.toml"

// DupscanTomlConfig represents the structure of .dupscan.toml
type DupscanTomlConfig struct {
	Duplicates DuplicatesTable `toml:"duplicates"`
	Output     OutputTable     `toml:"output"`
}

// DuplicatesTable is the [duplicates] table. Pointers distinguish unset
// keys from explicit zero values.
type DuplicatesTable struct {
	WindowSize           *int     `toml:"window_size"`
	MaxFiles             *int     `toml:"max_files"`
	MaxGroups            *int     `toml:"max_groups"`
	MaxFilesPerGroup     *int     `toml:"max_files_per_group"`
	MaxLocationsPerGroup *int     `toml:"max_locations_per_group"`
	Extension            *string  `toml:"extension"`
	CommentMarker        *string  `toml:"comment_marker"`
	ExcludePatterns      []string `toml:"exclude_patterns"`
	MaxWorkers           *int     `toml:"max_workers"`
	FileTimeoutMs        *int     `toml:"file_timeout_ms"`
	ReadRate             *float64 `toml:"read_rate"`
}

// OutputTable is the [output] table
type OutputTable struct {
	Format    *string `toml:"format"`
	Directory *string `toml:"directory"`
}

// TomlConfigLoader handles TOML-only configuration discovery
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads configuration with ruff-like priority, walking up from startDir:
// 1. .dupscan.toml (dedicated config file)
// 2. pyproject.toml (with [tool.dupscan] section)
// 3. defaults
//
// A config file that exists but cannot be parsed is an error.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	startDir = configSearchDir(startDir)

	if configPath, err := findUpward(startDir, DupscanFileName); err == nil {
		return LoadDupscanToml(configPath)
	}

	if configPath, err := findUpward(startDir, PyprojectFileName); err == nil {
		cfg, found, err := loadPyprojectIfConfigured(configPath)
		if err != nil {
			return nil, err
		}
		if found {
			return cfg, nil
		}
	}

	return DefaultConfig(), nil
}

// FindConfigFile returns the file LoadConfig would read for startDir, or ""
func (l *TomlConfigLoader) FindConfigFile(startDir string) string {
	startDir = configSearchDir(startDir)

	if configPath, err := findUpward(startDir, DupscanFileName); err == nil {
		return configPath
	}
	if configPath, err := findUpward(startDir, PyprojectFileName); err == nil {
		if _, found, err := loadPyprojectIfConfigured(configPath); err == nil && found {
			return configPath
		}
	}
	return ""
}

// LoadDupscanToml reads a .dupscan.toml file and merges it into the defaults
func LoadDupscanToml(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var file DupscanTomlConfig
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	config := DefaultConfig()
	mergeTables(config, &file.Duplicates, &file.Output)
	return config, nil
}

// mergeTables applies every key that was set in the file
func mergeTables(config *Config, dup *DuplicatesTable, out *OutputTable) {
	d := &config.Duplicates
	setInt(&d.WindowSize, dup.WindowSize)
	setInt(&d.MaxFiles, dup.MaxFiles)
	setInt(&d.MaxGroups, dup.MaxGroups)
	setInt(&d.MaxFilesPerGroup, dup.MaxFilesPerGroup)
	setInt(&d.MaxLocationsPerGroup, dup.MaxLocationsPerGroup)
	setString(&d.Extension, dup.Extension)
	setString(&d.CommentMarker, dup.CommentMarker)
	if dup.ExcludePatterns != nil {
		d.ExcludePatterns = dup.ExcludePatterns
	}
	setInt(&d.MaxWorkers, dup.MaxWorkers)
	setInt(&d.FileTimeoutMs, dup.FileTimeoutMs)
	if dup.ReadRate != nil {
		d.ReadRate = *dup.ReadRate
	}

	if out != nil {
		setString(&config.Output.Format, out.Format)
		setString(&config.Output.Directory, out.Directory)
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// configSearchDir returns the directory discovery starts from
func configSearchDir(target string) string {
	if target == "" {
		target = "."
	}
	if abs, err := filepath.Abs(target); err == nil {
		target = abs
	}
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		target = filepath.Dir(target)
	}
	return target
}

// findUpward walks up the directory tree looking for name
func findUpward(startDir, name string) (string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}
