package step

import (
	"fmt"
	"math"
	"strings"
)

// Kind identifies how a category set was configured.
type Kind string

const (
	KindPhase     Kind = "phase"
	KindFramework Kind = "framework"
	KindFree      Kind = "free"
	KindCustom    Kind = "custom"
)

// Phase categories, in phase-index order.
const (
	PhaseDetection  = "detection"
	PhaseAnalysis   = "analysis"
	PhaseResolution = "resolution"
)

// Framework categories.
const (
	FrameworkConsequentialist = "consequentialist"
	FrameworkDeontological    = "deontological"
	FrameworkVirtue           = "virtue"
	FrameworkCare             = "care"
	FrameworkJustice          = "justice"
	FrameworkRights           = "rights"
	FrameworkClarification    = "clarification"
	FrameworkMeta             = "meta"
)

// Category is one member of a closed category set.
// Substantive categories count towards aggregate judgments.
type Category struct {
	Name        string `yaml:"name"`
	Substantive bool   `yaml:"substantive"`
}

// CategorySet is the set of category tags a deployment accepts.
// The zero value is not usable; build one with the constructors below.
type CategorySet struct {
	name       string
	kind       Kind
	categories []Category
	index      map[string]int
}

// PhaseSet returns the three-phase set. Phase indexes 0-2 are accepted
// in place of the names.
func PhaseSet() *CategorySet {
	return mustSet("phase", KindPhase, []Category{
		{Name: PhaseDetection, Substantive: true},
		{Name: PhaseAnalysis, Substantive: true},
		{Name: PhaseResolution, Substantive: true},
	})
}

// FrameworkSet returns the eight framework tags. Clarification and meta
// steps are not substantive.
func FrameworkSet() *CategorySet {
	return mustSet("framework", KindFramework, []Category{
		{Name: FrameworkConsequentialist, Substantive: true},
		{Name: FrameworkDeontological, Substantive: true},
		{Name: FrameworkVirtue, Substantive: true},
		{Name: FrameworkCare, Substantive: true},
		{Name: FrameworkJustice, Substantive: true},
		{Name: FrameworkRights, Substantive: true},
		{Name: FrameworkClarification},
		{Name: FrameworkMeta},
	})
}

// FreeSet accepts any non-empty category. Every category is substantive.
func FreeSet() *CategorySet {
	return &CategorySet{name: "free", kind: KindFree, index: map[string]int{}}
}

// NewCategorySet builds a closed custom set. Names must be non-empty and unique.
func NewCategorySet(name string, categories []Category) (*CategorySet, error) {
	if name == "" {
		name = string(KindCustom)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("category set %q has no categories", name)
	}
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("category set %q: category %d has no name", name, i)
		}
		if _, dup := index[c.Name]; dup {
			return nil, fmt.Errorf("category set %q: duplicate category %q", name, c.Name)
		}
		index[c.Name] = i
	}
	return &CategorySet{
		name:       name,
		kind:       KindCustom,
		categories: append([]Category(nil), categories...),
		index:      index,
	}, nil
}

// SetByKind returns a built-in set by its kind name.
func SetByKind(kind string) (*CategorySet, error) {
	switch Kind(kind) {
	case KindPhase:
		return PhaseSet(), nil
	case KindFramework:
		return FrameworkSet(), nil
	case KindFree:
		return FreeSet(), nil
	default:
		return nil, fmt.Errorf("unknown category set %q", kind)
	}
}

func mustSet(name string, kind Kind, categories []Category) *CategorySet {
	set, err := NewCategorySet(name, categories)
	if err != nil {
		panic(err)
	}
	set.kind = kind
	return set
}

// Name returns the set's display name.
func (s *CategorySet) Name() string { return s.name }

// Kind returns how the set was configured.
func (s *CategorySet) Kind() Kind { return s.kind }

// Open reports whether the set accepts any non-empty category.
func (s *CategorySet) Open() bool { return s.kind == KindFree }

// Categories returns a copy of the members in declaration order.
func (s *CategorySet) Categories() []Category {
	return append([]Category(nil), s.categories...)
}

// Names returns the member names in declaration order.
func (s *CategorySet) Names() []string {
	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.Name
	}
	return names
}

// Substantive reports whether a category counts towards aggregate judgments.
func (s *CategorySet) Substantive(category string) bool {
	if s.Open() {
		return category != ""
	}
	i, ok := s.index[category]
	return ok && s.categories[i].Substantive
}

// Normalize maps a raw category value to its canonical name.
// It reports false when the value is not a member of the set.
func (s *CategorySet) Normalize(v any) (string, bool) {
	if name, ok := v.(string); ok {
		if s.Open() {
			return name, name != ""
		}
		_, member := s.index[name]
		return name, member
	}
	if s.kind != KindPhase {
		return "", false
	}
	n, ok := toFloat(v)
	if !ok || n != math.Trunc(n) || n < 0 || int(n) >= len(s.categories) {
		return "", false
	}
	return s.categories[int(n)].Name, true
}

// describe renders the accepted set for error messages.
func (s *CategorySet) describe() string {
	if s.Open() {
		return "a non-empty string"
	}
	return "one of " + strings.Join(s.Names(), ", ")
}
