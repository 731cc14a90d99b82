package tools

import (
	"fmt"
	"strings"

	"github.com/raphaelgruber/thinkstep-go/internal/step"
)

const baseGuidance = `Record one step of a multi-step deliberation.

Submit steps in order with a 1-based index and your current estimate of the total.
The estimate is raised automatically when the index exceeds it. Set continuation
to false on the final step. Earlier steps are never changed: to correct one, send
a new step with isRevision and revisesIndex. To explore an alternative, send steps
with branchFromIndex and branchId; they are kept in the main history and in the
named branch.`

// Guidance returns the tool description for the configured category set.
func Guidance(set *step.CategorySet) string {
	var b strings.Builder
	b.WriteString(baseGuidance)
	b.WriteString("\n\n")

	switch {
	case set.Open():
		b.WriteString("category: any non-empty label for the reasoning mode of the step.")
	case set.Kind() == step.KindPhase:
		fmt.Fprintf(&b, "category: one of %s (or the phase index 0-2).", strings.Join(set.Names(), ", "))
	default:
		fmt.Fprintf(&b, "category: one of %s.", strings.Join(set.Names(), ", "))
	}
	return b.String()
}
