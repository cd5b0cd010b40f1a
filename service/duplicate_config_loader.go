package service

import (
	"strings"
	"time"

	"github.com/ludo-technologies/dupscan/domain"
	"github.com/ludo-technologies/dupscan/internal/config"
)

// DuplicateConfigurationLoaderImpl implements domain.DuplicateConfigurationLoader
type DuplicateConfigurationLoaderImpl struct{}

// NewDuplicateConfigurationLoader creates a new duplicate configuration loader
func NewDuplicateConfigurationLoader() *DuplicateConfigurationLoaderImpl {
	return &DuplicateConfigurationLoaderImpl{}
}

// LoadConfig loads path when given, otherwise discovers a config file
// starting at targetPath
func (cl *DuplicateConfigurationLoaderImpl) LoadConfig(path, targetPath string) (*domain.DuplicateRequest, error) {
	cfg, err := config.LoadConfigForTarget(path, targetPath)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}

	req, err := cl.configToRequest(cfg)
	if err != nil {
		return nil, err
	}
	req.ConfigPath = path
	if path == "" {
		req.ConfigPath = config.NewTomlConfigLoader().FindConfigFile(targetPath)
	}
	return req, nil
}

// LoadDefaultConfig returns the built-in defaults
func (cl *DuplicateConfigurationLoaderImpl) LoadDefaultConfig() *domain.DuplicateRequest {
	req, _ := cl.configToRequest(config.DefaultConfig())
	return req
}

// MergeConfig applies the non-zero fields of override on top of base.
// Path and output destination always come from override.
func (cl *DuplicateConfigurationLoaderImpl) MergeConfig(base *domain.DuplicateRequest, override *domain.DuplicateRequest) *domain.DuplicateRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	mergeInvocation(&merged, override)

	if override.Extension != "" {
		merged.Extension = override.Extension
	}
	if override.CommentMarker != "" {
		merged.CommentMarker = override.CommentMarker
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}
	if override.WindowSize > 0 {
		merged.WindowSize = override.WindowSize
	}
	if override.MaxFiles > 0 {
		merged.MaxFiles = override.MaxFiles
	}
	if override.MaxGroups > 0 {
		merged.MaxGroups = override.MaxGroups
	}
	if override.MaxFilesPerGroup > 0 {
		merged.MaxFilesPerGroup = override.MaxFilesPerGroup
	}
	if override.MaxLocationsPerGroup > 0 {
		merged.MaxLocationsPerGroup = override.MaxLocationsPerGroup
	}
	if override.MaxWorkers > 0 {
		merged.MaxWorkers = override.MaxWorkers
	}
	if override.FileTimeout > 0 {
		merged.FileTimeout = override.FileTimeout
	}
	if override.ReadRate > 0 {
		merged.ReadRate = override.ReadRate
	}
	if override.OutputFormat != "" && override.OutputFormat != domain.OutputFormatText {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputDirectory != "" {
		merged.OutputDirectory = override.OutputDirectory
	}
	return &merged
}

// mergeInvocation copies the fields that only the caller can supply
func mergeInvocation(merged, override *domain.DuplicateRequest) {
	if override.Path != "" {
		merged.Path = override.Path
	}
	merged.OutputWriter = override.OutputWriter
	merged.OutputPath = override.OutputPath
	merged.ShowStatistics = override.ShowStatistics
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}
}

// configToRequest converts the file configuration to a request
func (cl *DuplicateConfigurationLoaderImpl) configToRequest(cfg *config.Config) (*domain.DuplicateRequest, error) {
	d := cfg.Duplicates

	format, err := NewOutputFormatResolver().Parse(cfg.Output.Format)
	if err != nil {
		return nil, domain.NewConfigError("invalid output format in configuration", err)
	}

	exclude := make([]string, 0, len(d.ExcludePatterns))
	for _, pattern := range d.ExcludePatterns {
		if p := strings.TrimSpace(pattern); p != "" {
			exclude = append(exclude, p)
		}
	}

	return &domain.DuplicateRequest{
		Path:                 ".",
		Extension:            d.Extension,
		ExcludePatterns:      exclude,
		WindowSize:           d.WindowSize,
		CommentMarker:        d.CommentMarker,
		MaxFiles:             d.MaxFiles,
		MaxGroups:            d.MaxGroups,
		MaxFilesPerGroup:     d.MaxFilesPerGroup,
		MaxLocationsPerGroup: d.MaxLocationsPerGroup,
		MaxWorkers:           d.MaxWorkers,
		FileTimeout:          time.Duration(d.FileTimeoutMs) * time.Millisecond,
		ReadRate:             d.ReadRate,
		OutputFormat:         format,
		OutputDirectory:      cfg.Output.Directory,
	}, nil
}
