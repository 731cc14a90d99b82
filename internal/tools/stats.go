package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/thinkstep-go/internal/metrics"
)

// StatsInput takes no arguments.
type StatsInput struct{}

// NewStatsHandler creates the ledger_stats tool handler.
func NewStatsHandler(deps *Dependencies) mcp.ToolHandlerFor[StatsInput, metrics.Snapshot] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (
		*mcp.CallToolResult, metrics.Snapshot, error,
	) {
		return nil, deps.Metrics.Snapshot(), nil
	}
}
