package mcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/dupscan/domain"
	"github.com/ludo-technologies/dupscan/mcp"
	"github.com/ludo-technologies/dupscan/service"
)

func callDetect(t *testing.T, h *mcp.HandlerSet, arguments interface{}) *mcplib.CallToolResult {
	t.Helper()
	request := mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{
			Name:      mcp.DetectDuplicatesTool,
			Arguments: arguments,
		},
	}
	result, err := h.HandleDetectDuplicates(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcplib.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func block(lines int) string {
	var b strings.Builder
	for i := 0; i < lines; i++ {
		fmt.Fprintf(&b, "    total_%d = values[%d] * %d\n", i, i, i)
	}
	return b.String()
}

func TestHandleDetectDuplicates_ForwardsReport(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"pkg/a.py": "def f(values):\n" + block(6),
		"pkg/b.py": "def g(values):\n    # same body\n" + block(6),
	})

	h := mcp.NewHandlerSet(mcp.NewDependencies("", nil))
	result := callDetect(t, h, map[string]interface{}{"path": dir})
	require.False(t, result.IsError)

	// The tool output is the detector's report, byte for byte
	svc := service.NewDuplicateService(nil, nil)
	req := domain.DefaultDuplicateRequest()
	req.Path = dir
	resp, err := svc.Detect(context.Background(), req)
	require.NoError(t, err)
	want, err := json.Marshal(resp.Report)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), resultText(t, result))
	assert.True(t, strings.HasPrefix(resultText(t, result), "{\n  \"tool\": \"duplicate_code\""))

	var report struct {
		Status     string `json:"status"`
		Duplicates []struct {
			Locations []string `json:"locations"`
		} `json:"duplicates"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	assert.Equal(t, "issues_found", report.Status)
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, []string{"pkg/a.py:2", "pkg/b.py:3"}, report.Duplicates[0].Locations)
}

func TestHandleDetectDuplicates_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")

	h := mcp.NewHandlerSet(nil)
	result := callDetect(t, h, map[string]interface{}{"path": missing})
	require.False(t, result.IsError)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	assert.Equal(t, map[string]interface{}{
		"tool":   "duplicate_code",
		"status": "error",
		"error":  "directory not found: " + missing,
	}, report)
}

func TestHandleDetectDuplicates_UsesConfiguration(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.py": block(3),
		"b.py": block(3),
	})
	configPath := filepath.Join(t.TempDir(), "dupscan.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[duplicates]\nwindow_size = 3\n"), 0o644))

	// Default window is too large for a three-line block
	result := callDetect(t, mcp.NewHandlerSet(nil), map[string]interface{}{"path": dir})
	assert.Contains(t, resultText(t, result), `"status": "clean"`)

	result = callDetect(t, mcp.NewHandlerSet(mcp.NewDependencies(configPath, nil)), map[string]interface{}{"path": dir})
	assert.Contains(t, resultText(t, result), `"status": "issues_found"`)
}

func TestHandleDetectDuplicates_InvalidArguments(t *testing.T) {
	h := mcp.NewHandlerSet(nil)

	tests := []struct {
		name      string
		arguments interface{}
		wantText  string
	}{
		{"not a map", "oops", "invalid arguments format"},
		{"missing path", map[string]interface{}{}, "path parameter is required"},
		{"wrong type", map[string]interface{}{"path": 42}, "path parameter is required"},
		{"blank path", map[string]interface{}{"path": "  "}, "path parameter is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callDetect(t, h, tt.arguments)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.wantText)
		})
	}
}

func TestHandleDetectDuplicates_BrokenConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[duplicates\n"), 0o644))

	h := mcp.NewHandlerSet(mcp.NewDependencies(configPath, nil))
	result := callDetect(t, h, map[string]interface{}{"path": t.TempDir()})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "duplicate detection failed")
}
