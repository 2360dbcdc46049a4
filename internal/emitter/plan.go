package emitter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/QTest-hq/qskel/pkg/model"
)

// PlanEmitter renders the planned intents as YAML for downstream tooling
type PlanEmitter struct{}

func (e *PlanEmitter) Name() string          { return "plan" }
func (e *PlanEmitter) Language() string      { return "yaml" }
func (e *PlanEmitter) Framework() string     { return "qskel-plan" }
func (e *PlanEmitter) FileExtension() string { return ".plan.yaml" }

// Emit marshals the suite, dropping fixtures without cases
func (e *PlanEmitter) Emit(suite *model.Suite) (string, error) {
	if suite == nil || suite.Empty() {
		return "", nil
	}

	out := *suite
	out.Fixtures = nil
	for _, f := range suite.Fixtures {
		if len(f.Cases) > 0 {
			out.Fixtures = append(out.Fixtures, f)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return "", fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode plan: %w", err)
	}
	return buf.String(), nil
}
