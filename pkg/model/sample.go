package model

// SampleKind tags the SampleValue variant.
type SampleKind string

const (
	// SampleLiteral is a canonical literal, rendered verbatim.
	SampleLiteral SampleKind = "literal"
	// SampleNow is the current-moment expression for instant-in-time types.
	SampleNow SampleKind = "now"
	// SampleSequence is a sequence holding Elements.
	SampleSequence SampleKind = "sequence"
	// SampleConstruction is a fresh instance with Assignments applied.
	SampleConstruction SampleKind = "construction"
	// SampleDefault is the zero value of Type.
	SampleDefault SampleKind = "default"
	// SampleSubstitute is an inline stand-in for a capability type nested
	// inside another sample.
	SampleSubstitute SampleKind = "substitute"
)

// SampleValue is a synthesized example value together with the signature it
// was synthesized for.
type SampleValue struct {
	Kind        SampleKind    `json:"kind" yaml:"kind"`
	Type        TypeSignature `json:"type" yaml:"type"`
	Literal     string        `json:"literal,omitempty" yaml:"literal,omitempty"`
	Elements    []SampleValue `json:"elements,omitempty" yaml:"elements,omitempty"`
	Assignments []Assignment  `json:"assignments,omitempty" yaml:"assignments,omitempty"`
}

// Assignment sets one property of a constructed sample.
type Assignment struct {
	Property string      `json:"property" yaml:"property"`
	Value    SampleValue `json:"value" yaml:"value"`
}

// Depth returns the nesting depth of the sample: 0 for leaves, 1 + the
// deepest child otherwise.
func (s SampleValue) Depth() int {
	deepest := -1
	for _, e := range s.Elements {
		if d := e.Depth(); d > deepest {
			deepest = d
		}
	}
	for _, a := range s.Assignments {
		if d := a.Value.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// Equal reports whether two samples are value-equal.
func (s SampleValue) Equal(other SampleValue) bool {
	if s.Kind != other.Kind || s.Literal != other.Literal || s.Type.Key() != other.Type.Key() {
		return false
	}
	if len(s.Elements) != len(other.Elements) || len(s.Assignments) != len(other.Assignments) {
		return false
	}
	for i := range s.Elements {
		if !s.Elements[i].Equal(other.Elements[i]) {
			return false
		}
	}
	for i := range s.Assignments {
		if s.Assignments[i].Property != other.Assignments[i].Property ||
			!s.Assignments[i].Value.Equal(other.Assignments[i].Value) {
			return false
		}
	}
	return true
}
