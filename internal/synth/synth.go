// Package synth produces example values for classified types.
package synth

import (
	"fmt"

	"github.com/QTest-hq/qskel/internal/classify"
	"github.com/QTest-hq/qskel/pkg/model"
)

const (
	// MaxDepth is the deepest level at which values are still expanded. The
	// top-level call expands; anything nested in it is minimal, which bounds
	// recursion through self-referential aggregates.
	MaxDepth = 0

	// MaxAssignedProperties bounds how many properties a synthesized
	// aggregate sets.
	MaxAssignedProperties = 3
)

// DefaultLiterals returns the canonical literal for each scalar kind. The
// values are constants so generated assertions are reproducible.
func DefaultLiterals() map[classify.ScalarKind]string {
	return map[classify.ScalarKind]string{
		classify.Text:    `"test"`,
		classify.Int16:   "(short)1",
		classify.Int32:   "42",
		classify.Int64:   "42L",
		classify.Decimal: "42.5m",
		classify.Double:  "42.5",
		classify.Single:  "42.5f",
		classify.Boolean: "true",
		classify.Instant: "DateTime.Now",
	}
}

// Synthesizer produces deterministic sample values.
type Synthesizer struct {
	classifier classify.Classifier
	literals   map[classify.ScalarKind]string
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithLiterals overrides canonical literals by scalar kind name ("text",
// "int32", ...). Unknown kinds are rejected by New.
func WithLiterals(overrides map[string]string) Option {
	return func(s *Synthesizer) {
		for kind, lit := range overrides {
			s.literals[classify.ScalarKind(kind)] = lit
		}
	}
}

// New creates a synthesizer over classifier.
func New(classifier classify.Classifier, opts ...Option) (*Synthesizer, error) {
	s := &Synthesizer{
		classifier: classifier,
		literals:   DefaultLiterals(),
	}
	for _, opt := range opts {
		opt(s)
	}

	known := make(map[classify.ScalarKind]bool)
	for _, k := range classify.ScalarKinds() {
		known[k] = true
	}
	for k := range s.literals {
		if !known[k] {
			return nil, fmt.Errorf("unknown scalar kind in literal overrides: %s", k)
		}
	}
	return s, nil
}

// Classifier returns the classifier the synthesizer consults.
func (s *Synthesizer) Classifier() classify.Classifier {
	return s.classifier
}

// Synthesize returns a sample for sig. The top-level call uses depth 0;
// nested values are synthesized at depth+1.
func (s *Synthesizer) Synthesize(sig model.TypeSignature, depth int) model.SampleValue {
	cat := s.classifier.Classify(sig)
	if depth > MaxDepth {
		return s.minimal(sig, cat)
	}

	switch cat.Kind {
	case classify.Scalar, classify.NullableScalar:
		return s.scalar(sig, cat.Scalar)

	case classify.OrderedCollection:
		return model.SampleValue{
			Kind:     model.SampleSequence,
			Type:     sig,
			Elements: []model.SampleValue{s.Synthesize(cat.Element, depth+1)},
		}

	case classify.UserAggregate:
		v := model.SampleValue{Kind: model.SampleConstruction, Type: sig}
		for _, p := range cat.Properties {
			if len(v.Assignments) == MaxAssignedProperties {
				break
			}
			if !p.Mutable || p.Static {
				continue
			}
			v.Assignments = append(v.Assignments, model.Assignment{
				Property: p.Name,
				Value:    s.Synthesize(p.Type, depth+1),
			})
		}
		return v

	case classify.Capability:
		return model.SampleValue{Kind: model.SampleSubstitute, Type: sig}

	default:
		return model.SampleValue{Kind: model.SampleDefault, Type: sig}
	}
}

func (s *Synthesizer) scalar(sig model.TypeSignature, kind classify.ScalarKind) model.SampleValue {
	v := model.SampleValue{Kind: model.SampleLiteral, Type: sig, Literal: s.literals[kind]}
	if kind == classify.Instant {
		v.Kind = model.SampleNow
	}
	return v
}

// minimal is the recursion guard: the least expanded value for a category.
func (s *Synthesizer) minimal(sig model.TypeSignature, cat classify.Category) model.SampleValue {
	switch cat.Kind {
	case classify.Scalar, classify.NullableScalar:
		return s.scalar(sig, cat.Scalar)
	case classify.OrderedCollection:
		return model.SampleValue{Kind: model.SampleSequence, Type: sig}
	case classify.UserAggregate:
		return model.SampleValue{Kind: model.SampleConstruction, Type: sig}
	case classify.Capability:
		return model.SampleValue{Kind: model.SampleSubstitute, Type: sig}
	default:
		return model.SampleValue{Kind: model.SampleDefault, Type: sig}
	}
}
