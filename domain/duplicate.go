package domain

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/ludo-technologies/dupscan/internal/constants"
)

// DuplicateStatus is the outcome of a duplicate scan
type DuplicateStatus string

const (
	DuplicateStatusClean       DuplicateStatus = "clean"
	DuplicateStatusIssuesFound DuplicateStatus = "issues_found"
	DuplicateStatusError       DuplicateStatus = "error"
)

// DuplicateGroup is one reported duplicate block
type DuplicateGroup struct {
	Hash      string   `json:"hash" yaml:"hash"`
	Count     int      `json:"count" yaml:"count"`
	Files     []string `json:"files" yaml:"files"`
	Locations []string `json:"locations" yaml:"locations"`
}

// DuplicateReport is the structured result of a scan.
//
// A report in error status carries only tool, status and error; the other
// variants carry tool, status, total_duplicates and duplicates.
type DuplicateReport struct {
	Tool            string           `json:"tool" yaml:"tool"`
	Status          DuplicateStatus  `json:"status" yaml:"status"`
	TotalDuplicates int              `json:"total_duplicates,omitempty" yaml:"total_duplicates,omitempty"`
	Duplicates      []DuplicateGroup `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	Error           string           `json:"error,omitempty" yaml:"error,omitempty"`
}

type duplicateReportBody struct {
	Tool            string           `json:"tool" yaml:"tool"`
	Status          DuplicateStatus  `json:"status" yaml:"status"`
	TotalDuplicates int              `json:"total_duplicates" yaml:"total_duplicates"`
	Duplicates      []DuplicateGroup `json:"duplicates" yaml:"duplicates"`
}

type duplicateReportError struct {
	Tool   string          `json:"tool" yaml:"tool"`
	Status DuplicateStatus `json:"status" yaml:"status"`
	Error  string          `json:"error" yaml:"error"`
}

// NewDuplicateReport builds a clean or issues_found report
func NewDuplicateReport(total int, groups []DuplicateGroup) *DuplicateReport {
	status := DuplicateStatusClean
	if total > 0 {
		status = DuplicateStatusIssuesFound
	}
	if groups == nil {
		groups = []DuplicateGroup{}
	}
	return &DuplicateReport{
		Tool:            constants.DuplicateToolName,
		Status:          status,
		TotalDuplicates: total,
		Duplicates:      groups,
	}
}

// NewErrorReport builds an error report with the given message
func NewErrorReport(message string) *DuplicateReport {
	return &DuplicateReport{
		Tool:   constants.DuplicateToolName,
		Status: DuplicateStatusError,
		Error:  message,
	}
}

// IsError reports whether the scan failed
func (r *DuplicateReport) IsError() bool {
	return r.Status == DuplicateStatusError
}

// HasIssues reports whether any duplicate block was found
func (r *DuplicateReport) HasIssues() bool {
	return r.Status == DuplicateStatusIssuesFound
}

func (r *DuplicateReport) wireValue() interface{} {
	if r.IsError() {
		return duplicateReportError{Tool: r.Tool, Status: r.Status, Error: r.Error}
	}
	groups := r.Duplicates
	if groups == nil {
		groups = []DuplicateGroup{}
	}
	return duplicateReportBody{
		Tool:            r.Tool,
		Status:          r.Status,
		TotalDuplicates: r.TotalDuplicates,
		Duplicates:      groups,
	}
}

// MarshalJSON emits the status-dependent report shape
func (r DuplicateReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wireValue())
}

// MarshalYAML emits the same shape as MarshalJSON
func (r DuplicateReport) MarshalYAML() (interface{}, error) {
	return r.wireValue(), nil
}

// SkipReason explains why a discovered file contributed no windows
type SkipReason string

const (
	SkipReasonReadError       SkipReason = "read_error"
	SkipReasonInvalidEncoding SkipReason = "invalid_encoding"
	SkipReasonTimeout         SkipReason = "timeout"
	SkipReasonTooFewLines     SkipReason = "too_few_lines"
)

// ScanStatistics describes how a scan went. It never appears in the report
// itself; it is for logs, progress and the text formatter.
type ScanStatistics struct {
	RunID           string             `json:"run_id" yaml:"run_id"`
	FilesDiscovered int                `json:"files_discovered" yaml:"files_discovered"`
	Truncated       bool               `json:"truncated" yaml:"truncated"`
	FilesScanned    int                `json:"files_scanned" yaml:"files_scanned"`
	FilesSkipped    int                `json:"files_skipped" yaml:"files_skipped"`
	SkipReasons     map[SkipReason]int `json:"skip_reasons" yaml:"skip_reasons"`
	LinesNormalized int                `json:"lines_normalized" yaml:"lines_normalized"`
	WindowsHashed   int                `json:"windows_hashed" yaml:"windows_hashed"`
	UniqueHashes    int                `json:"unique_hashes" yaml:"unique_hashes"`
	DuplicateGroups int                `json:"duplicate_groups" yaml:"duplicate_groups"`
}

// NewScanStatistics creates empty statistics for the given run
func NewScanStatistics(runID string) *ScanStatistics {
	return &ScanStatistics{
		RunID:       runID,
		SkipReasons: make(map[SkipReason]int),
	}
}

// RecordSkip counts a skipped file under its reason
func (s *ScanStatistics) RecordSkip(reason SkipReason) {
	s.FilesSkipped++
	s.SkipReasons[reason]++
}

// DuplicateRequest represents a request for duplicate detection
type DuplicateRequest struct {
	// Input
	Path            string   `json:"path"`
	Extension       string   `json:"extension"`
	ExcludePatterns []string `json:"exclude_patterns"`

	// Detection policy
	WindowSize           int    `json:"window_size"`
	CommentMarker        string `json:"comment_marker"`
	MaxFiles             int    `json:"max_files"`
	MaxGroups            int    `json:"max_groups"`
	MaxFilesPerGroup     int    `json:"max_files_per_group"`
	MaxLocationsPerGroup int    `json:"max_locations_per_group"`

	// Execution
	MaxWorkers  int           `json:"max_workers"`
	FileTimeout time.Duration `json:"file_timeout"`
	ReadRate    float64       `json:"read_rate"`

	// Output configuration
	OutputFormat    OutputFormat `json:"output_format"`
	OutputWriter    io.Writer    `json:"-"`
	OutputPath      string       `json:"output_path"`
	OutputDirectory string       `json:"output_directory"`
	ShowStatistics  bool         `json:"show_statistics"`

	// Configuration file
	ConfigPath string `json:"config_path"`
}

// DuplicateResponse represents the response from duplicate detection
type DuplicateResponse struct {
	Report     *DuplicateReport  `json:"report" yaml:"report"`
	Statistics *ScanStatistics   `json:"statistics" yaml:"statistics"`
	Request    *DuplicateRequest `json:"-" yaml:"-"`
	Duration   int64             `json:"duration_ms" yaml:"duration_ms"`
}

// DuplicateService defines the interface for duplicate detection services
type DuplicateService interface {
	// Detect scans req.Path and returns a report. Problems with the scan root
	// become an error report; the returned error is reserved for invalid
	// requests.
	Detect(ctx context.Context, req *DuplicateRequest) (*DuplicateResponse, error)
}

// DuplicateOutputFormatter defines the interface for formatting duplicate reports
type DuplicateOutputFormatter interface {
	// Format renders the response as a string
	Format(response *DuplicateResponse, format OutputFormat) (string, error)

	// Write writes the rendered response to writer
	Write(response *DuplicateResponse, format OutputFormat, writer io.Writer) error
}

// DuplicateConfigurationLoader defines the interface for loading duplicate detection configuration
type DuplicateConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path, or discovers one
	// starting at targetPath when path is empty
	LoadConfig(path, targetPath string) (*DuplicateRequest, error)

	// LoadDefaultConfig returns the default configuration
	LoadDefaultConfig() *DuplicateRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *DuplicateRequest, override *DuplicateRequest) *DuplicateRequest
}

// Validate validates a duplicate request
func (req *DuplicateRequest) Validate() error {
	if req.Path == "" {
		return NewValidationError("path cannot be empty")
	}
	if req.Extension == "" {
		return NewValidationError("extension cannot be empty")
	}
	if req.CommentMarker == "" {
		return NewValidationError("comment_marker cannot be empty")
	}
	if req.WindowSize < 1 {
		return NewValidationError("window_size must be >= 1")
	}
	if req.MaxFiles < 1 {
		return NewValidationError("max_files must be >= 1")
	}
	if req.MaxGroups < 1 {
		return NewValidationError("max_groups must be >= 1")
	}
	if req.MaxFilesPerGroup < 1 {
		return NewValidationError("max_files_per_group must be >= 1")
	}
	if req.MaxLocationsPerGroup < 1 {
		return NewValidationError("max_locations_per_group must be >= 1")
	}
	if req.MaxWorkers < 0 {
		return NewValidationError("max_workers must be >= 0")
	}
	if req.FileTimeout < 0 {
		return NewValidationError("file_timeout must be >= 0")
	}
	if req.ReadRate < 0 {
		return NewValidationError("read_rate must be >= 0")
	}
	if req.OutputFormat != "" && !req.OutputFormat.IsValid() {
		return NewUnsupportedFormatError(string(req.OutputFormat))
	}
	return nil
}

// DefaultDuplicateRequest returns a default duplicate request
func DefaultDuplicateRequest() *DuplicateRequest {
	return &DuplicateRequest{
		Path:                 ".",
		Extension:            constants.DefaultSourceExtension,
		ExcludePatterns:      []string{},
		WindowSize:           constants.DefaultWindowSize,
		CommentMarker:        constants.DefaultCommentMarker,
		MaxFiles:             constants.DefaultMaxFiles,
		MaxGroups:            constants.DefaultMaxGroups,
		MaxFilesPerGroup:     constants.DefaultMaxFilesPerGroup,
		MaxLocationsPerGroup: constants.DefaultMaxLocationsPerGroup,
		OutputFormat:         OutputFormatText,
	}
}
