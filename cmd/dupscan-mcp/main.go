package main

import (
	"fmt"
	"io"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/dupscan/internal/version"
	"github.com/ludo-technologies/dupscan/mcp"
)

const serverName = "dupscan"

func main() {
	configPath := pflag.StringP("config", "c", "", "Configuration file applied to every scan")
	verbose := pflag.BoolP("verbose", "v", false, "Log every scan to stderr")
	pflag.Parse()

	// Set up logging to stderr (MCP uses stdout for JSON-RPC)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags)

	scanLogger := log.New(io.Discard, "", 0)
	if *verbose {
		scanLogger = log.New(os.Stderr, "dupscan: ", log.LstdFlags)
	}

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	handlers := mcp.NewHandlerSet(mcp.NewDependencies(*configPath, scanLogger))
	mcp.RegisterTools(server, handlers)

	log.Printf("Starting %s MCP server %s\n", serverName, version.Short())
	log.Printf("Registered tools: %s\n", mcp.DetectDuplicatesTool)
	log.Println("Server ready - waiting for MCP client connection...")

	// Blocks until the client disconnects
	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
