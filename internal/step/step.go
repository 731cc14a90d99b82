// Package step defines the canonical reasoning step record and the validator
// that turns untyped tool payloads into it.
package step

// Step is one recorded unit of a caller's reasoning sequence.
// Optional fields are pointers so "not supplied" stays distinct from false or zero.
type Step struct {
	Text           string `json:"text" yaml:"text"`
	Index          int    `json:"index" yaml:"index"`
	EstimatedTotal int    `json:"estimatedTotal" yaml:"estimatedTotal"`
	Continuation   bool   `json:"continuation" yaml:"continuation"`
	Category       string `json:"category" yaml:"category"`

	IsRevision      *bool   `json:"isRevision,omitempty" yaml:"isRevision,omitempty"`
	RevisesIndex    *int    `json:"revisesIndex,omitempty" yaml:"revisesIndex,omitempty"`
	BranchFromIndex *int    `json:"branchFromIndex,omitempty" yaml:"branchFromIndex,omitempty"`
	BranchID        *string `json:"branchId,omitempty" yaml:"branchId,omitempty"`
	NeedsMore       *bool   `json:"needsMore,omitempty" yaml:"needsMore,omitempty"`
	FollowupHint    *string `json:"followupHint,omitempty" yaml:"followupHint,omitempty"`
}

// InBranch reports whether the step is filed into a branch bucket.
// Both branchFromIndex and a non-empty branchId are required.
func (s Step) InBranch() bool {
	return s.BranchFromIndex != nil && s.BranchID != nil && *s.BranchID != ""
}

// Revision reports whether the step is flagged as revising an earlier one.
func (s Step) Revision() bool {
	return s.IsRevision != nil && *s.IsRevision
}

// Clone returns a copy of s whose optional fields point at fresh values.
func (s Step) Clone() Step {
	s.IsRevision = clonePtr(s.IsRevision)
	s.RevisesIndex = clonePtr(s.RevisesIndex)
	s.BranchFromIndex = clonePtr(s.BranchFromIndex)
	s.BranchID = clonePtr(s.BranchID)
	s.NeedsMore = clonePtr(s.NeedsMore)
	s.FollowupHint = clonePtr(s.FollowupHint)
	return s
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
