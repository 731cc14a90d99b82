package tools

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusFailed marks failure payloads.
const StatusFailed = "failed"

// Failure is the structured payload of a rejected call.
type Failure struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// ErrorResult creates a tool error result carrying {"error", "status": "failed"}.
// Returns IsError=true so the caller can see the error and self-correct.
func ErrorResult(msg string) *mcp.CallToolResult {
	failure := Failure{Error: msg, Status: StatusFailed}
	jsonBytes, _ := json.MarshalIndent(failure, "", "  ")
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
		StructuredContent: failure,
		IsError:           true,
	}
}

// JSONResult creates a success result with v as indented JSON text and as
// structured content.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
		StructuredContent: v,
	}, nil
}
