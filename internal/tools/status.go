package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/thinkstep-go/internal/ledger"
)

// StatusInput takes no arguments.
type StatusInput struct{}

// BranchSummary reports the size of one branch bucket.
type BranchSummary struct {
	ID    string `json:"id"`
	Steps int    `json:"steps"`
}

// StatusResult is the read-only view of the ledger.
type StatusResult struct {
	Ledger        string          `json:"ledger"`
	CategorySet   string          `json:"categorySet"`
	HistoryLength int             `json:"historyLength"`
	Branches      []BranchSummary `json:"branches"`
	Last          ledger.Snapshot `json:"last"`
}

// Status builds the read-only ledger view. It never mutates the ledger.
func (d *Dependencies) Status() StatusResult {
	result := StatusResult{
		Ledger:      d.Ledger.ID(),
		CategorySet: d.Categories.Name(),
		Last:        d.Ledger.Snapshot(),
		Branches:    []BranchSummary{},
	}
	result.HistoryLength = result.Last.HistoryLength
	for _, id := range result.Last.Branches {
		steps, _ := d.Ledger.Branch(id)
		result.Branches = append(result.Branches, BranchSummary{ID: id, Steps: len(steps)})
	}
	return result
}

// NewStatusHandler creates the ledger_status tool handler.
func NewStatusHandler(deps *Dependencies) mcp.ToolHandlerFor[StatusInput, StatusResult] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (
		*mcp.CallToolResult, StatusResult, error,
	) {
		return nil, deps.Status(), nil
	}
}
