package ledger

import (
	"strings"

	"github.com/raphaelgruber/thinkstep-go/internal/step"
)

// Judgment is the aggregate label computed over the history.
type Judgment string

const (
	JudgmentAffirmative Judgment = "affirmative"
	JudgmentDissent     Judgment = "dissent"
	JudgmentMixed       Judgment = "mixed"
)

// JudgmentPolicy computes an aggregate judgment over the full history.
// It reports false when no judgment can be made.
type JudgmentPolicy interface {
	Judge(history []step.Step) (Judgment, bool)
}

// Default marker tokens.
const (
	DefaultAffirmativeMarker = "endorse"
	DefaultNegativeMarker    = "reject"
)

// MarkerPolicy is a lexical placeholder: it looks for marker tokens as
// case-insensitive substrings of the text of substantive steps. It does not
// handle negation or context and is not semantic reasoning.
type MarkerPolicy struct {
	Categories  *step.CategorySet
	Affirmative string
	Negative    string
}

// NewMarkerPolicy creates a marker policy over set. Empty markers fall back
// to the defaults.
func NewMarkerPolicy(set *step.CategorySet, affirmative, negative string) *MarkerPolicy {
	if affirmative == "" {
		affirmative = DefaultAffirmativeMarker
	}
	if negative == "" {
		negative = DefaultNegativeMarker
	}
	return &MarkerPolicy{
		Categories:  set,
		Affirmative: strings.ToLower(affirmative),
		Negative:    strings.ToLower(negative),
	}
}

// Judge implements JudgmentPolicy.
func (p *MarkerPolicy) Judge(history []step.Step) (Judgment, bool) {
	var texts []string
	for _, s := range history {
		if p.Categories.Substantive(s.Category) {
			texts = append(texts, strings.ToLower(s.Text))
		}
	}
	if len(texts) < 2 {
		return "", false
	}

	allAffirm := true
	anyNegative := false
	for _, t := range texts {
		if !strings.Contains(t, p.Affirmative) {
			allAffirm = false
		}
		if strings.Contains(t, p.Negative) {
			anyNegative = true
		}
	}

	switch {
	case allAffirm:
		return JudgmentAffirmative, true
	case anyNegative:
		return JudgmentDissent, true
	default:
		return JudgmentMixed, true
	}
}
