package ledger

import (
	"testing"

	"github.com/raphaelgruber/thinkstep-go/internal/step"
	"github.com/stretchr/testify/assert"
)

// These cases pin the lexical heuristic, not any semantic behaviour.
func TestMarkerPolicy_Judge(t *testing.T) {
	policy := NewMarkerPolicy(step.FrameworkSet(), "", "")

	tests := []struct {
		name    string
		history []step.Step
		want    Judgment
		ok      bool
	}{
		{
			name:    "no steps",
			history: nil,
			ok:      false,
		},
		{
			name: "single substantive step",
			history: []step.Step{
				newStep("I ENDORSE this", 1, 2, step.FrameworkCare),
			},
			ok: false,
		},
		{
			name: "meta steps do not qualify",
			history: []step.Step{
				newStep("endorse", 1, 3, step.FrameworkMeta),
				newStep("endorse", 2, 3, step.FrameworkClarification),
				newStep("endorse", 3, 3, step.FrameworkCare),
			},
			ok: false,
		},
		{
			name: "uniformly affirmative",
			history: []step.Step{
				newStep("We endorse it", 1, 2, step.FrameworkCare),
				newStep("Endorsed on balance", 2, 2, step.FrameworkJustice),
				newStep("reject everything", 3, 3, step.FrameworkMeta),
			},
			want: JudgmentAffirmative,
			ok:   true,
		},
		{
			name: "one dissent",
			history: []step.Step{
				newStep("we endorse", 1, 2, step.FrameworkCare),
				newStep("we must REJECT", 2, 2, step.FrameworkRights),
			},
			want: JudgmentDissent,
			ok:   true,
		},
		{
			name: "mixed",
			history: []step.Step{
				newStep("we endorse", 1, 2, step.FrameworkVirtue),
				newStep("unclear", 2, 2, step.FrameworkDeontological),
			},
			want: JudgmentMixed,
			ok:   true,
		},
		{
			name: "substring match has no negation handling",
			history: []step.Step{
				newStep("do not endorse", 1, 2, step.FrameworkVirtue),
				newStep("cannot endorse", 2, 2, step.FrameworkCare),
			},
			want: JudgmentAffirmative,
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := policy.Judge(tt.history)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarkerPolicy_CustomMarkers(t *testing.T) {
	policy := NewMarkerPolicy(step.FreeSet(), "YES", "No")
	got, ok := policy.Judge([]step.Step{
		newStep("yes", 1, 2, "a"),
		newStep("no", 2, 2, "b"),
	})
	assert.True(t, ok)
	assert.Equal(t, JudgmentDissent, got)
}

func TestLedger_WithJudgment(t *testing.T) {
	l := New(WithJudgment(NewMarkerPolicy(step.FrameworkSet(), "", "")))

	snap := l.Append(newStep("endorse", 1, 2, step.FrameworkCare))
	assert.Empty(t, snap.Judgment, "undetermined with one qualifying step")

	snap = l.Append(newStep("endorse too", 2, 2, step.FrameworkRights))
	assert.Equal(t, JudgmentAffirmative, snap.Judgment)

	snap = l.Append(newStep("reject", 3, 3, step.FrameworkJustice))
	assert.Equal(t, JudgmentDissent, snap.Judgment, "recomputed over the full history")
}

func TestLedger_WithoutJudgment(t *testing.T) {
	l := New(WithJudgment(nil))
	l.Append(newStep("endorse", 1, 2, step.FrameworkCare))
	snap := l.Append(newStep("endorse", 2, 2, step.FrameworkCare))
	assert.Empty(t, snap.Judgment)
}
