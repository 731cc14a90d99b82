package tools

import (
	"context"
	"errors"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/thinkstep-go/internal/ledger"
	"github.com/raphaelgruber/thinkstep-go/internal/metrics"
	"github.com/raphaelgruber/thinkstep-go/internal/step"
)

// ThinkStepToolName is the name the step operation is exposed under.
const ThinkStepToolName = "think_step"

// ThinkStepTool describes the step operation for the given category set.
// The schema documents the payload; validation is done by step.Validate.
func ThinkStepTool(set *step.CategorySet) *mcp.Tool {
	return &mcp.Tool{
		Name:        ThinkStepToolName,
		Description: Guidance(set),
		InputSchema: stepSchema(set),
	}
}

func stepSchema(set *step.CategorySet) *jsonschema.Schema {
	category := &jsonschema.Schema{Description: "Reasoning mode of this step"}
	switch set.Kind() {
	case step.KindPhase:
		category.Types = []string{"string", "integer"}
		category.Description = "Phase name or phase index 0-2"
	case step.KindFree:
		category.Type = "string"
	default:
		category.Type = "string"
		for _, name := range set.Names() {
			category.Enum = append(category.Enum, name)
		}
	}

	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"text":            {Type: "string", Description: "Content of this step"},
			"index":           {Type: "integer", Description: "Position of this step in the sequence, starting at 1"},
			"estimatedTotal":  {Type: "integer", Description: "Current estimate of the total number of steps"},
			"continuation":    {Type: "boolean", Description: "Whether more steps will follow"},
			"category":        category,
			"isRevision":      {Type: "boolean", Description: "Whether this step revises an earlier one"},
			"revisesIndex":    {Type: "integer", Description: "Index of the step being revised"},
			"branchFromIndex": {Type: "integer", Description: "Index this branch diverges from"},
			"branchId":        {Type: "string", Description: "Identifier of the branch line"},
			"needsMore":       {Type: "boolean", Description: "Whether the estimate is too low"},
			"followupHint":    {Type: "string", Description: "Suggested framing for the next step"},
		},
		Required: []string{"text", "index", "estimatedTotal", "continuation", "category"},
	}
}

// NewThinkStepHandler creates the step tool handler. Arguments stay untyped
// until step.Validate has accepted them; rejections come back as error
// results and leave the ledger untouched.
func NewThinkStepHandler(deps *Dependencies) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap, err := deps.RecordJSON(req.Params.Arguments)
		if err != nil {
			return ErrorResult(err.Error()), nil
		}
		return JSONResult(snap)
	}
}

// Record validates an untyped payload and appends it to the ledger.
func (d *Dependencies) Record(raw any) (ledger.Snapshot, error) {
	return d.record(func() (step.Step, error) {
		return step.Validate(raw, d.Categories)
	})
}

// RecordJSON validates a raw JSON payload and appends it to the ledger.
func (d *Dependencies) RecordJSON(data []byte) (ledger.Snapshot, error) {
	return d.record(func() (step.Step, error) {
		return step.Decode(data, d.Categories)
	})
}

func (d *Dependencies) record(validate func() (step.Step, error)) (ledger.Snapshot, error) {
	start := time.Now()
	s, err := validate()
	d.Metrics.RecordTiming(metrics.OpValidate, time.Since(start))
	if err != nil {
		var verr *step.ValidationError
		if errors.As(err, &verr) {
			d.Metrics.RecordRejected(verr.Field)
		}
		d.Logger.Debug("step rejected", "error", err)
		return ledger.Snapshot{}, err
	}

	start = time.Now()
	snap := d.Ledger.Append(s)
	d.Metrics.RecordTiming(metrics.OpAppend, time.Since(start))
	d.Metrics.RecordAccepted(s.Category)

	d.Logger.Debug("step accepted",
		"ledger", d.Ledger.ID(),
		"index", snap.Index,
		"estimated_total", snap.EstimatedTotal,
		"category", snap.Category,
		"history_length", snap.HistoryLength,
	)

	if d.Renderer != nil {
		// Render what was stored, including the estimate correction.
		s.EstimatedTotal = snap.EstimatedTotal
		start = time.Now()
		if err := d.Renderer.Write(s); err != nil {
			d.Logger.Warn("failed to render step", "error", err)
		}
		d.Metrics.RecordTiming(metrics.OpRender, time.Since(start))
	}

	return snap, nil
}
