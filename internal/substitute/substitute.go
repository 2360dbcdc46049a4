// Package substitute decides, per parameter, between a synthesized value and
// a test double.
package substitute

import (
	"github.com/QTest-hq/qskel/internal/classify"
	"github.com/QTest-hq/qskel/internal/synth"
	"github.com/QTest-hq/qskel/pkg/model"
)

// Binding is the planned argument for one parameter.
type Binding struct {
	Param model.Parameter
	// Double is set for capability parameters: the argument is a test double
	// that later assertions can verify calls against.
	Double bool
	// Value is the synthesized argument when Double is false.
	Value model.SampleValue
}

// Type returns the parameter's declared type.
func (b Binding) Type() model.TypeSignature {
	return b.Param.Type
}

// Planner binds parameters to arguments.
type Planner struct {
	synth *synth.Synthesizer
}

// New creates a planner over s and s's classifier.
func New(s *synth.Synthesizer) *Planner {
	return &Planner{synth: s}
}

// Bind plans a single parameter.
func (p *Planner) Bind(param model.Parameter) Binding {
	if p.synth.Classifier().Classify(param.Type).Kind == classify.Capability {
		return Binding{Param: param, Double: true}
	}
	return Binding{Param: param, Value: p.synth.Synthesize(param.Type, 0)}
}

// Plan binds params in order.
func (p *Planner) Plan(params []model.Parameter) []Binding {
	out := make([]Binding, 0, len(params))
	for _, param := range params {
		out = append(out, p.Bind(param))
	}
	return out
}
