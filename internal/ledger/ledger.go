// Package ledger provides the append-only store of accepted reasoning steps
// together with the branch index built from them.
package ledger

import (
	"sync"

	"github.com/google/uuid"
	"github.com/raphaelgruber/thinkstep-go/internal/step"
)

// Snapshot is the status returned after each append.
type Snapshot struct {
	Index          int      `json:"index"`
	EstimatedTotal int      `json:"estimatedTotal"`
	Continuation   bool     `json:"continuation"`
	Category       string   `json:"category"`
	Branches       []string `json:"branches"`
	HistoryLength  int      `json:"historyLength"`
	Judgment       Judgment `json:"judgment,omitempty"`
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithJudgment enables aggregate judgments. A nil policy disables them.
func WithJudgment(policy JudgmentPolicy) Option {
	return func(l *Ledger) {
		l.policy = policy
	}
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(l *Ledger) {
		l.id = id
	}
}

// Ledger owns the step history and branch buckets.
// History and branches only grow; nothing is ever removed or rewritten.
type Ledger struct {
	mu       sync.Mutex
	id       string
	policy   JudgmentPolicy
	history  []step.Step
	branches map[string][]step.Step
	order    []string // branch ids in first-seen order
	last     Snapshot
}

// New creates an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		id:       uuid.NewString(),
		branches: make(map[string][]step.Step),
		last:     Snapshot{Branches: []string{}},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records a canonical step and returns the resulting snapshot.
// It cannot fail: callers validate with step.Validate first.
func (l *Ledger) Append(s step.Step) Snapshot {
	s = s.Clone()

	l.mu.Lock()
	defer l.mu.Unlock()

	if s.Index > s.EstimatedTotal {
		s.EstimatedTotal = s.Index
	}

	l.history = append(l.history, s)

	if s.InBranch() {
		id := *s.BranchID
		if _, seen := l.branches[id]; !seen {
			l.order = append(l.order, id)
		}
		l.branches[id] = append(l.branches[id], s)
	}

	snap := Snapshot{
		Index:          s.Index,
		EstimatedTotal: s.EstimatedTotal,
		Continuation:   s.Continuation,
		Category:       s.Category,
		Branches:       append([]string{}, l.order...),
		HistoryLength:  len(l.history),
	}
	if l.policy != nil {
		if j, ok := l.policy.Judge(l.history); ok {
			snap.Judgment = j
		}
	}

	l.last = snap
	return cloneSnapshot(snap)
}

// Snapshot returns the snapshot produced by the most recent append, or an
// empty snapshot before the first one. It never mutates the ledger.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneSnapshot(l.last)
}

// ID returns the ledger's session id.
func (l *Ledger) ID() string {
	return l.id
}

// Len returns the number of accepted steps.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.history)
}

// History returns a copy of all accepted steps in acceptance order.
func (l *Ledger) History() []step.Step {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneSteps(l.history)
}

// BranchIDs returns branch ids in the order they were first seen.
func (l *Ledger) BranchIDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.order...)
}

// Branch returns a copy of the steps filed under id.
func (l *Ledger) Branch(id string) ([]step.Step, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	steps, ok := l.branches[id]
	if !ok {
		return nil, false
	}
	return cloneSteps(steps), true
}

func cloneSteps(steps []step.Step) []step.Step {
	out := make([]step.Step, len(steps))
	for i, s := range steps {
		out[i] = s.Clone()
	}
	return out
}

func cloneSnapshot(s Snapshot) Snapshot {
	s.Branches = append([]string{}, s.Branches...)
	return s
}
