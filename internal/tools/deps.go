// Package tools provides MCP tool handlers and registration.
package tools

import (
	"log/slog"

	"github.com/raphaelgruber/thinkstep-go/internal/ledger"
	"github.com/raphaelgruber/thinkstep-go/internal/metrics"
	"github.com/raphaelgruber/thinkstep-go/internal/render"
	"github.com/raphaelgruber/thinkstep-go/internal/step"
)

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	Ledger     *ledger.Ledger
	Categories *step.CategorySet
	Metrics    *metrics.Collector
	Logger     *slog.Logger

	// Renderer writes accepted steps to the console side channel.
	// Nil disables rendering.
	Renderer *render.Renderer
}
