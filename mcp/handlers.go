package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ludo-technologies/dupscan/domain"
	"github.com/ludo-technologies/dupscan/service"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies("", nil)
	}
	return &HandlerSet{deps: deps}
}

// HandleDetectDuplicates handles the detect_duplicates tool. The report is
// returned exactly as the detector produced it, including the error variant
// for a missing or unreadable directory.
func (h *HandlerSet) HandleDetectDuplicates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok || strings.TrimSpace(path) == "" {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}

	useCase, err := h.deps.BuildDuplicateUseCase()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create detector: %v", err)), nil
	}

	// Only the path comes from the call; policy comes from configuration
	req := domain.DuplicateRequest{
		Path:       path,
		ConfigPath: h.deps.ConfigPath(),
	}

	response, err := useCase.AnalyzeAndReturn(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("duplicate detection failed: %v", err)), nil
	}

	jsonData, err := service.EncodeJSON(response.Report)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(jsonData), nil
}
