package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuplicateReport_JSONShape(t *testing.T) {
	t.Run("clean report keeps empty duplicates array", func(t *testing.T) {
		data, err := json.Marshal(NewDuplicateReport(0, nil))
		require.NoError(t, err)
		assert.JSONEq(t, `{"tool":"duplicate_code","status":"clean","total_duplicates":0,"duplicates":[]}`, string(data))
	})

	t.Run("issues report", func(t *testing.T) {
		report := NewDuplicateReport(3, []DuplicateGroup{
			{Hash: "abc", Count: 2, Files: []string{"a.py", "b.py"}, Locations: []string{"a.py:1", "b.py:7"}},
		})
		data, err := json.Marshal(report)
		require.NoError(t, err)
		assert.JSONEq(t, `{"tool":"duplicate_code","status":"issues_found","total_duplicates":3,
			"duplicates":[{"hash":"abc","count":2,"files":["a.py","b.py"],"locations":["a.py:1","b.py:7"]}]}`, string(data))
	})

	t.Run("error report omits totals", func(t *testing.T) {
		data, err := json.Marshal(NewErrorReport("directory not found: /nope"))
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "error", decoded["status"])
		assert.Equal(t, "directory not found: /nope", decoded["error"])
		assert.NotContains(t, decoded, "total_duplicates")
		assert.NotContains(t, decoded, "duplicates")
	})

	t.Run("pointer and value marshal the same", func(t *testing.T) {
		report := NewDuplicateReport(0, nil)
		fromPtr, err := json.Marshal(report)
		require.NoError(t, err)
		fromValue, err := json.Marshal(*report)
		require.NoError(t, err)
		assert.Equal(t, fromPtr, fromValue)
	})
}

func TestDuplicateReport_YAMLShape(t *testing.T) {
	data, err := yaml.Marshal(NewErrorReport("boom"))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, map[string]interface{}{
		"tool":   "duplicate_code",
		"status": "error",
		"error":  "boom",
	}, decoded)

	data, err = yaml.Marshal(NewDuplicateReport(0, nil))
	require.NoError(t, err)
	decoded = nil
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, 0, decoded["total_duplicates"])
	assert.Equal(t, []interface{}{}, decoded["duplicates"])
}

func TestDuplicateReport_Status(t *testing.T) {
	assert.True(t, NewDuplicateReport(1, nil).HasIssues())
	assert.False(t, NewDuplicateReport(0, nil).HasIssues())
	assert.True(t, NewErrorReport("x").IsError())
	assert.False(t, NewErrorReport("x").HasIssues())
}

func TestScanStatistics_RecordSkip(t *testing.T) {
	stats := NewScanStatistics("run")
	stats.RecordSkip(SkipReasonReadError)
	stats.RecordSkip(SkipReasonReadError)
	stats.RecordSkip(SkipReasonTimeout)

	assert.Equal(t, 3, stats.FilesSkipped)
	assert.Equal(t, 2, stats.SkipReasons[SkipReasonReadError])
	assert.Equal(t, 1, stats.SkipReasons[SkipReasonTimeout])
}

func TestDuplicateRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *DuplicateRequest)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(r *DuplicateRequest) {}},
		{name: "empty path", mutate: func(r *DuplicateRequest) { r.Path = "" }, wantErr: "path cannot be empty"},
		{name: "empty extension", mutate: func(r *DuplicateRequest) { r.Extension = "" }, wantErr: "extension"},
		{name: "empty comment marker", mutate: func(r *DuplicateRequest) { r.CommentMarker = "" }, wantErr: "comment_marker"},
		{name: "zero window", mutate: func(r *DuplicateRequest) { r.WindowSize = 0 }, wantErr: "window_size"},
		{name: "zero max files", mutate: func(r *DuplicateRequest) { r.MaxFiles = 0 }, wantErr: "max_files"},
		{name: "zero groups", mutate: func(r *DuplicateRequest) { r.MaxGroups = 0 }, wantErr: "max_groups"},
		{name: "zero files per group", mutate: func(r *DuplicateRequest) { r.MaxFilesPerGroup = 0 }, wantErr: "max_files_per_group"},
		{name: "zero locations", mutate: func(r *DuplicateRequest) { r.MaxLocationsPerGroup = 0 }, wantErr: "max_locations_per_group"},
		{name: "negative workers", mutate: func(r *DuplicateRequest) { r.MaxWorkers = -1 }, wantErr: "max_workers"},
		{name: "negative timeout", mutate: func(r *DuplicateRequest) { r.FileTimeout = -1 }, wantErr: "file_timeout"},
		{name: "negative rate", mutate: func(r *DuplicateRequest) { r.ReadRate = -0.5 }, wantErr: "read_rate"},
		{name: "unknown format", mutate: func(r *DuplicateRequest) { r.OutputFormat = "html" }, wantErr: "unsupported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DefaultDuplicateRequest()
			tt.mutate(req)
			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOutputFormat(t *testing.T) {
	for _, f := range SupportedOutputFormats() {
		assert.True(t, f.IsValid(), "format %s should be valid", f)
	}
	assert.False(t, OutputFormat("html").IsValid())
	assert.Equal(t, "md", OutputFormatMarkdown.Extension())
	assert.Equal(t, "json", OutputFormatJSON.Extension())
	assert.Equal(t, "txt", OutputFormatText.Extension())
}

func TestDomainError(t *testing.T) {
	cause := assert.AnError
	err := NewReadError("a.py", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeReadError, ErrorCode(err))
	assert.Contains(t, err.Error(), "[READ_ERROR] failed to read: a.py")
	assert.Equal(t, "", ErrorCode(cause))
}
