package tools_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/thinkstep-go/internal/ledger"
	"github.com/raphaelgruber/thinkstep-go/internal/metrics"
	"github.com/raphaelgruber/thinkstep-go/internal/render"
	"github.com/raphaelgruber/thinkstep-go/internal/step"
	"github.com/raphaelgruber/thinkstep-go/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger creates a logger for test visibility.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newDeps(set *step.CategorySet, opts ...ledger.Option) *tools.Dependencies {
	return &tools.Dependencies{
		Ledger:     ledger.New(opts...),
		Categories: set,
		Metrics:    metrics.NewCollector(),
		Logger:     testLogger(),
		Renderer:   render.New(io.Discard, false),
	}
}

// connect registers all tools on a fresh server and returns a connected client session.
func connect(t *testing.T, deps *tools.Dependencies) (context.Context, *mcp.ClientSession) {
	t.Helper()

	server := mcp.NewServer(&mcp.Implementation{Name: "test-thinkstep", Version: "0.0.1-test"}, nil)
	tools.RegisterAll(server, deps)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err, "client should connect successfully")

	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		select {
		case err := <-serverErr:
			if err != nil {
				t.Logf("server stopped with: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("server did not stop within timeout")
		}
	})

	return ctx, session
}

func callStep(t *testing.T, ctx context.Context, session *mcp.ClientSession, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      tools.ThinkStepToolName,
		Arguments: args,
	})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	return result
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content should be TextContent")
	return text.Text
}

func decodeSnapshot(t *testing.T, result *mcp.CallToolResult) ledger.Snapshot {
	t.Helper()
	require.False(t, result.IsError, textOf(t, result))
	var snap ledger.Snapshot
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &snap))
	return snap
}

func decodeFailure(t *testing.T, result *mcp.CallToolResult) tools.Failure {
	t.Helper()
	require.True(t, result.IsError)
	var failure tools.Failure
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &failure))
	return failure
}

func stepArgs(text string, index, total int, category string) map[string]any {
	return map[string]any{
		"text":           text,
		"index":          index,
		"estimatedTotal": total,
		"continuation":   true,
		"category":       category,
	}
}

func TestToolsRegistered(t *testing.T) {
	ctx, session := connect(t, newDeps(step.FrameworkSet()))

	result, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, result.Tools, 3)

	byName := make(map[string]*mcp.Tool)
	for _, tool := range result.Tools {
		byName[tool.Name] = tool
	}
	require.Contains(t, byName, tools.ThinkStepToolName)
	assert.Contains(t, byName, tools.StatusToolName)
	assert.Contains(t, byName, tools.StatsToolName)

	assert.Contains(t, byName[tools.ThinkStepToolName].Description, "deontological")
	assert.NotNil(t, byName[tools.ThinkStepToolName].InputSchema)
}

func TestThinkStep_Scenarios(t *testing.T) {
	deps := newDeps(step.PhaseSet())
	ctx, session := connect(t, deps)

	t.Run("first step", func(t *testing.T) {
		snap := decodeSnapshot(t, callStep(t, ctx, session, stepArgs("A", 1, 1, "detection")))
		assert.Equal(t, 1, snap.HistoryLength)
		assert.Equal(t, 1, snap.EstimatedTotal)
		assert.Equal(t, "detection", snap.Category)
		assert.Equal(t, []string{}, snap.Branches)
	})

	t.Run("estimate corrected", func(t *testing.T) {
		snap := decodeSnapshot(t, callStep(t, ctx, session, stepArgs("B", 5, 2, "analysis")))
		assert.Equal(t, 5, snap.EstimatedTotal)
		assert.Equal(t, 5, snap.Index)
		assert.Equal(t, 2, snap.HistoryLength)
	})

	t.Run("branch filed", func(t *testing.T) {
		args := stepArgs("C", 3, 5, "analysis")
		args["branchFromIndex"] = 2
		args["branchId"] = "alt"

		snap := decodeSnapshot(t, callStep(t, ctx, session, args))
		assert.Equal(t, []string{"alt"}, snap.Branches)

		steps, ok := deps.Ledger.Branch("alt")
		require.True(t, ok)
		assert.Len(t, steps, 1)
	})

	t.Run("invalid index rejected", func(t *testing.T) {
		before := deps.Ledger.Len()

		args := stepArgs("D", 1, 1, "analysis")
		args["index"] = "oops"
		failure := decodeFailure(t, callStep(t, ctx, session, args))

		assert.Equal(t, "failed", failure.Status)
		assert.Contains(t, failure.Error, "index")
		assert.Equal(t, before, deps.Ledger.Len())
	})
}

func TestThinkStep_RejectionSet(t *testing.T) {
	deps := newDeps(step.PhaseSet())
	ctx, session := connect(t, deps)

	// One accepted step so the unchanged history length is non-zero.
	decodeSnapshot(t, callStep(t, ctx, session, stepArgs("ok", 1, 2, "detection")))

	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{"missing text", func(m map[string]any) { delete(m, "text") }, "text"},
		{"non-number index", func(m map[string]any) { m["index"] = "two" }, "index"},
		{"non-number estimatedTotal", func(m map[string]any) { m["estimatedTotal"] = []any{} }, "estimatedTotal"},
		{"non-boolean continuation", func(m map[string]any) { m["continuation"] = "no" }, "continuation"},
		{"category outside set", func(m map[string]any) { m["category"] = "care" }, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := stepArgs("x", 2, 2, "analysis")
			tt.mutate(args)

			failure := decodeFailure(t, callStep(t, ctx, session, args))
			assert.Contains(t, failure.Error, tt.field)
			assert.Equal(t, 1, deps.Ledger.Len())
		})
	}

	stats := deps.Metrics.Snapshot()
	assert.EqualValues(t, 1, stats.Accepted)
	assert.EqualValues(t, 5, stats.Rejected)
}

func TestThinkStep_Judgment(t *testing.T) {
	set := step.FrameworkSet()
	deps := newDeps(set, ledger.WithJudgment(ledger.NewMarkerPolicy(set, "", "")))
	ctx, session := connect(t, deps)

	snap := decodeSnapshot(t, callStep(t, ctx, session, stepArgs("We endorse it", 1, 3, "care")))
	assert.Empty(t, snap.Judgment)

	snap = decodeSnapshot(t, callStep(t, ctx, session, stepArgs("I endorse as well", 2, 3, "justice")))
	assert.Equal(t, ledger.JudgmentAffirmative, snap.Judgment)

	snap = decodeSnapshot(t, callStep(t, ctx, session, stepArgs("We reject this", 3, 3, "rights")))
	assert.Equal(t, ledger.JudgmentDissent, snap.Judgment)
}

func TestLedgerStatus_IdempotentRead(t *testing.T) {
	deps := newDeps(step.PhaseSet(), ledger.WithID("session-1"))
	ctx, session := connect(t, deps)

	args := stepArgs("alt", 2, 2, "analysis")
	args["branchFromIndex"] = 1
	args["branchId"] = "alt"
	decodeSnapshot(t, callStep(t, ctx, session, args))

	read := func() string {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      tools.StatusToolName,
			Arguments: map[string]any{},
		})
		require.NoError(t, err)
		require.False(t, result.IsError)
		return textOf(t, result)
	}

	first := read()
	second := read()
	assert.Equal(t, first, second)

	var status tools.StatusResult
	require.NoError(t, json.Unmarshal([]byte(first), &status))
	assert.Equal(t, "session-1", status.Ledger)
	assert.Equal(t, "phase", status.CategorySet)
	assert.Equal(t, 1, status.HistoryLength)
	assert.Equal(t, []tools.BranchSummary{{ID: "alt", Steps: 1}}, status.Branches)
	assert.Equal(t, 1, deps.Ledger.Len(), "status must not append")
}

func TestLedgerStats(t *testing.T) {
	deps := newDeps(step.FreeSet())
	ctx, session := connect(t, deps)

	decodeSnapshot(t, callStep(t, ctx, session, stepArgs("a", 1, 1, "observe")))

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      tools.StatsToolName,
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	var stats metrics.Snapshot
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &stats))
	assert.EqualValues(t, 1, stats.Accepted)
	assert.Equal(t, []metrics.CategoryCount{{Category: "observe", Count: 1}}, stats.Categories)
	require.NotNil(t, stats.Append)
	assert.EqualValues(t, 1, stats.Append.Count)
}
