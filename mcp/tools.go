package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DetectDuplicatesTool is the name of the duplicate detection tool
const DetectDuplicatesTool = "detect_duplicates"

// RegisterTools registers the dupscan MCP tools with the server
func RegisterTools(s *server.MCPServer, handlers *HandlerSet) {
	s.AddTool(mcp.NewTool(DetectDuplicatesTool,
		mcp.WithDescription("Find blocks of six or more lines duplicated across a Python source tree. "+
			"Lines are compared after trimming whitespace; blank and comment lines are ignored. "+
			"Returns the duplicate_code report as JSON."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Directory to scan")),
	), handlers.HandleDetectDuplicates)
}
