package service

import (
	"github.com/ludo-technologies/dupscan/domain"
	"github.com/ludo-technologies/dupscan/internal/config"
)

// Flag names shared by the CLI and the merge below
const (
	FlagWindowSize           = "window-size"
	FlagMaxFiles             = "max-files"
	FlagMaxGroups            = "max-groups"
	FlagMaxFilesPerGroup     = "max-files-per-group"
	FlagMaxLocationsPerGroup = "max-locations-per-group"
	FlagExtension            = "extension"
	FlagCommentMarker        = "comment-marker"
	FlagExclude              = "exclude"
	FlagWorkers              = "workers"
	FlagFileTimeout          = "file-timeout"
	FlagReadRate             = "read-rate"
	FlagOutputDir            = "output-dir"
	FlagJSON                 = "json"
	FlagYAML                 = "yaml"
	FlagCSV                  = "csv"
	FlagMarkdown             = "markdown"
)

// DuplicateConfigurationLoaderWithFlags wraps configuration loading with explicit flag tracking
type DuplicateConfigurationLoaderWithFlags struct {
	loader      *DuplicateConfigurationLoaderImpl
	flagTracker *config.FlagTracker
}

// NewDuplicateConfigurationLoaderWithFlags creates a loader that lets only
// explicitly set flags override the configuration file
func NewDuplicateConfigurationLoaderWithFlags(explicitFlags map[string]bool) *DuplicateConfigurationLoaderWithFlags {
	return &DuplicateConfigurationLoaderWithFlags{
		loader:      NewDuplicateConfigurationLoader(),
		flagTracker: config.NewFlagTrackerWithFlags(explicitFlags),
	}
}

// LoadConfig loads configuration from path or discovers one from targetPath
func (cl *DuplicateConfigurationLoaderWithFlags) LoadConfig(path, targetPath string) (*domain.DuplicateRequest, error) {
	return cl.loader.LoadConfig(path, targetPath)
}

// LoadDefaultConfig returns the built-in defaults
func (cl *DuplicateConfigurationLoaderWithFlags) LoadDefaultConfig() *domain.DuplicateRequest {
	return cl.loader.LoadDefaultConfig()
}

// MergeConfig merges CLI flags with configuration file, respecting explicit flags
func (cl *DuplicateConfigurationLoaderWithFlags) MergeConfig(base *domain.DuplicateRequest, override *domain.DuplicateRequest) *domain.DuplicateRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	ft := cl.flagTracker
	merged := *base
	mergeInvocation(&merged, override)

	merged.Extension = ft.MergeString(merged.Extension, override.Extension, FlagExtension)
	merged.CommentMarker = ft.MergeString(merged.CommentMarker, override.CommentMarker, FlagCommentMarker)
	merged.ExcludePatterns = ft.MergeStringSlice(merged.ExcludePatterns, override.ExcludePatterns, FlagExclude)

	merged.WindowSize = ft.MergeInt(merged.WindowSize, override.WindowSize, FlagWindowSize)
	merged.MaxFiles = ft.MergeInt(merged.MaxFiles, override.MaxFiles, FlagMaxFiles)
	merged.MaxGroups = ft.MergeInt(merged.MaxGroups, override.MaxGroups, FlagMaxGroups)
	merged.MaxFilesPerGroup = ft.MergeInt(merged.MaxFilesPerGroup, override.MaxFilesPerGroup, FlagMaxFilesPerGroup)
	merged.MaxLocationsPerGroup = ft.MergeInt(merged.MaxLocationsPerGroup, override.MaxLocationsPerGroup, FlagMaxLocationsPerGroup)

	merged.MaxWorkers = ft.MergeInt(merged.MaxWorkers, override.MaxWorkers, FlagWorkers)
	merged.FileTimeout = ft.MergeDuration(merged.FileTimeout, override.FileTimeout, FlagFileTimeout)
	merged.ReadRate = ft.MergeFloat64(merged.ReadRate, override.ReadRate, FlagReadRate)

	// Format flags are booleans; any of them selects override's format
	if ft.WasSet(FlagJSON) || ft.WasSet(FlagYAML) || ft.WasSet(FlagCSV) || ft.WasSet(FlagMarkdown) {
		merged.OutputFormat = override.OutputFormat
	}
	merged.OutputDirectory = ft.MergeString(merged.OutputDirectory, override.OutputDirectory, FlagOutputDir)

	return &merged
}
