package substitute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/QTest-hq/qskel/internal/classify"
	"github.com/QTest-hq/qskel/internal/synth"
	"github.com/QTest-hq/qskel/pkg/model"
)

func newPlanner(t *testing.T) *Planner {
	t.Helper()
	catalog := &model.DeclarationModel{Entities: []model.Entity{
		{Name: "Order", Members: []model.Member{model.Property("Id", "int", true)}},
	}}
	s, err := synth.New(classify.NewMemo(classify.NewLexical(catalog)))
	require.NoError(t, err)
	return New(s)
}

func TestPlanner_Plan(t *testing.T) {
	p := newPlanner(t)

	bindings := p.Plan([]model.Parameter{
		model.Param("inner", "IClient"),
		model.Param("id", "int"),
		model.Param("order", "Order"),
		model.Param("tags", "List<string>"),
		model.Param("state", "object"),
	})

	require.Len(t, bindings, 5)

	assert.True(t, bindings[0].Double)
	assert.Equal(t, "inner", bindings[0].Param.Name)
	assert.Equal(t, "IClient", bindings[0].Type().String())

	assert.False(t, bindings[1].Double)
	assert.Equal(t, model.SampleLiteral, bindings[1].Value.Kind)
	assert.Equal(t, "42", bindings[1].Value.Literal)

	assert.Equal(t, model.SampleConstruction, bindings[2].Value.Kind)
	require.Len(t, bindings[2].Value.Assignments, 1)
	assert.Equal(t, "Id", bindings[2].Value.Assignments[0].Property)

	assert.Equal(t, model.SampleSequence, bindings[3].Value.Kind)
	assert.Equal(t, model.SampleDefault, bindings[4].Value.Kind)
}

func TestPlanner_PlanEmpty(t *testing.T) {
	p := newPlanner(t)
	assert.Empty(t, p.Plan(nil))
}

// TestPlanner_Consistency_Property proves identical signatures receive
// identical treatment within one run.
func TestPlanner_Consistency_Property(t *testing.T) {
	p := newPlanner(t)

	rapid.Check(t, func(rt *rapid.T) {
		typ := rapid.SampledFrom([]string{
			"int", "string?", "IClient", "Order", "List<Order>", "DateTime", "object", "Widget",
		}).Draw(rt, "type")

		a := p.Bind(model.Param("a", typ))
		b := p.Bind(model.Param("b", typ))
		if a.Double != b.Double || !a.Value.Equal(b.Value) {
			rt.Fatalf("Bind(%s) differs: %+v vs %+v", typ, a, b)
		}
	})
}
