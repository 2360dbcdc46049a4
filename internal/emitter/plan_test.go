package emitter

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/QTest-hq/qskel/pkg/model"
)

func TestPlanEmitter_Emit(t *testing.T) {
	suite := boxSuite()
	suite.Fixtures = append(suite.Fixtures, model.Fixture{Entity: "Hollow"})

	out, err := (&PlanEmitter{}).Emit(suite)
	if err != nil {
		t.Fatalf("Emit() error: %v", err)
	}

	expected := []string{
		"namespace: Shop",
		"strategy: general",
		"entity: Box",
		"name: Label_ShouldRoundTripAssignedValue",
		"variant: property-round-trip",
		`"test"`,
	}
	for _, exp := range expected {
		if !strings.Contains(out, exp) {
			t.Errorf("expected %q in plan:\n%s", exp, out)
		}
	}
	if strings.Contains(out, "Hollow") {
		t.Error("fixtures without cases should be dropped")
	}

	var decoded model.Suite
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("plan is not valid YAML: %v", err)
	}
	if len(decoded.Fixtures) != 1 || len(decoded.Fixtures[0].Cases) != 2 {
		t.Errorf("decoded plan has %d fixtures", len(decoded.Fixtures))
	}
	if got := decoded.Fixtures[0].Cases[0].Assert[1].Type.String(); got != "Box" {
		t.Errorf("decoded type = %q, want Box", got)
	}
}

func TestPlanEmitter_EmptySuite(t *testing.T) {
	out, err := (&PlanEmitter{}).Emit(&model.Suite{Strategy: model.StrategyMapping})
	if err != nil {
		t.Fatalf("Emit() error: %v", err)
	}
	if out != "" {
		t.Errorf("Emit() = %q, want empty output", out)
	}
}
