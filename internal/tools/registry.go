package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	StatusToolName = "ledger_status"
	StatsToolName  = "ledger_stats"
)

// RegisterAll registers all tools with the MCP server.
// This is called after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	// Step tool - untyped payload, validated by the step package
	server.AddTool(ThinkStepTool(deps.Categories), NewThinkStepHandler(deps))

	// Status tool - read-only ledger view
	mcp.AddTool(server, &mcp.Tool{
		Name:        StatusToolName,
		Description: "Show the current ledger status without recording a step",
	}, NewStatusHandler(deps))

	// Stats tool - runtime statistics
	mcp.AddTool(server, &mcp.Tool{
		Name:        StatsToolName,
		Description: "Show accepted and rejected step counts and operation timings",
	}, NewStatsHandler(deps))
}
