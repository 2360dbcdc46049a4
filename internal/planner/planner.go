// Package planner assembles ordered test-case intents for declared entities.
//
// An Assembler owns the shared core (classifier, synthesizer, substitution
// planner). Strategies decide which cases to plan and consult the core
// through a per-entity Context, so classification and synthesis logic is
// never duplicated across strategies.
package planner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/QTest-hq/qskel/internal/classify"
	"github.com/QTest-hq/qskel/internal/substitute"
	"github.com/QTest-hq/qskel/internal/synth"
	"github.com/QTest-hq/qskel/pkg/model"
)

// ErrUnknownStrategy is returned for strategy names with no implementation.
var ErrUnknownStrategy = errors.New("unknown strategy")

const (
	// DefaultMaxMappedProperties bounds the property comparisons in one
	// mapping case.
	DefaultMaxMappedProperties = 3
)

// DefaultFailureMarkers are the name fragments that trigger a placeholder
// rejects-invalid-input case.
func DefaultFailureMarkers() []string {
	return []string{"validat", "fail"}
}

// Strategy plans the cases for one entity.
type Strategy interface {
	Name() model.Strategy
	Plan(ctx *Context) []model.TestCase
}

// Assembler plans fixtures for entities of one declaration model.
type Assembler struct {
	synth   *synth.Synthesizer
	subst   *substitute.Planner
	catalog classify.Catalog

	markers   []string
	maxMapped int

	strategies map[model.Strategy]Strategy
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithFailureMarkers replaces the failure marker tokens. Matching is
// case-insensitive; an empty list disables placeholder failure cases.
func WithFailureMarkers(markers []string) Option {
	return func(a *Assembler) {
		a.markers = a.markers[:0]
		for _, m := range markers {
			if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
				a.markers = append(a.markers, m)
			}
		}
	}
}

// WithMaxMappedProperties bounds mapping comparisons. Values below 1 are
// ignored.
func WithMaxMappedProperties(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.maxMapped = n
		}
	}
}

// New creates an assembler. catalog resolves entity names for mapping
// comparisons and is usually the declaration model being planned.
func New(s *synth.Synthesizer, catalog classify.Catalog, opts ...Option) *Assembler {
	a := &Assembler{
		synth:     s,
		subst:     substitute.New(s),
		catalog:   catalog,
		markers:   DefaultFailureMarkers(),
		maxMapped: DefaultMaxMappedProperties,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.strategies = make(map[model.Strategy]Strategy)
	for _, st := range []Strategy{General{}, Mapping{}, Delegation{}} {
		a.strategies[st.Name()] = st
	}
	return a
}

// Strategy returns the strategy registered under name.
func (a *Assembler) Strategy(name model.Strategy) (Strategy, error) {
	st, ok := a.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return st, nil
}

// Assemble plans the fixture for entity under strategy. Case names are made
// unique within the fixture; cases follow declared-member order.
func (a *Assembler) Assemble(st Strategy, entity *model.Entity) model.Fixture {
	ctx := newContext(a, entity)
	cases := st.Plan(ctx)
	uniqueNames(cases)

	return model.Fixture{
		Entity:    entity.Name,
		Namespace: entity.Namespace,
		Cases:     cases,
	}
}

func uniqueNames(cases []model.TestCase) {
	seen := make(map[string]int)
	taken := make(map[string]bool)
	for _, c := range cases {
		taken[c.Name] = true
	}
	for i := range cases {
		name := cases[i].Name
		seen[name]++
		if seen[name] == 1 {
			continue
		}
		n := seen[name]
		candidate := name + strconv.Itoa(n)
		for taken[candidate] {
			n++
			candidate = name + strconv.Itoa(n)
		}
		seen[name] = n
		taken[candidate] = true
		cases[i].Name = candidate
	}
}
