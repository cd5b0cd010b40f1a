package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// PyprojectFileName is the standard Python project file
const PyprojectFileName = "pyproject.toml"

// PyprojectToml represents the parts of pyproject.toml read by dupscan
type PyprojectToml struct {
	Tool ToolConfig `toml:"tool"`
}

// ToolConfig represents the [tool] section
type ToolConfig struct {
	Dupscan *DupscanSection `toml:"dupscan"`
}

// DupscanSection represents the [tool.dupscan] section
type DupscanSection struct {
	Duplicates DuplicatesTable `toml:"duplicates"`
	Output     OutputTable     `toml:"output"`
}

// LoadPyprojectFile reads the [tool.dupscan] section of a pyproject.toml.
// A file without the section yields the defaults.
func LoadPyprojectFile(configPath string) (*Config, error) {
	cfg, _, err := loadPyprojectIfConfigured(configPath)
	return cfg, err
}

// loadPyprojectIfConfigured reports whether the file has a [tool.dupscan] section
func loadPyprojectIfConfigured(configPath string) (*Config, bool, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, false, err
	}

	var pyproject PyprojectToml
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return nil, false, err
	}

	config := DefaultConfig()
	if pyproject.Tool.Dupscan == nil {
		return config, false, nil
	}

	section := pyproject.Tool.Dupscan
	mergeTables(config, &section.Duplicates, &section.Output)
	return config, true, nil
}
