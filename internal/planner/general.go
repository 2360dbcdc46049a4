package planner

import (
	"github.com/QTest-hq/qskel/internal/classify"
	"github.com/QTest-hq/qskel/pkg/model"
)

const placeholderNote = "placeholder: arranged with default samples, not invalid input; replace an argument with a genuinely invalid value"

// General plans broad coverage: construction, property access and
// round-trips, and one execution case per method.
type General struct{}

// Name implements Strategy.
func (General) Name() model.Strategy { return model.StrategyGeneral }

// Plan implements Strategy.
func (g General) Plan(ctx *Context) []model.TestCase {
	var cases []model.TestCase
	for _, m := range ctx.Entity.Members {
		switch m.Kind {
		case model.MemberConstructor:
			if !ctx.Entity.Instantiable() {
				continue
			}
			if len(m.Parameters) == 0 {
				cases = append(cases, ctx.defaultConstruction())
			} else {
				cases = append(cases, ctx.constructionCase(m))
			}

		case model.MemberProperty:
			if !ctx.Exercisable(m) {
				continue
			}
			cases = append(cases, g.propertyDefault(ctx, m))
			if m.Mutable {
				cases = append(cases, g.propertyRoundTrip(ctx, m))
			}

		case model.MemberMethod:
			if !ctx.Exercisable(m) {
				continue
			}
			cases = append(cases, g.method(ctx, m))
			if ctx.MatchesFailureMarker(m.Name) {
				cases = append(cases, g.rejectsInvalid(ctx, m))
			}
		}
	}
	return cases
}

func (General) propertyDefault(ctx *Context, m model.Member) model.TestCase {
	b := newCase(pascal(m.Name)+"_ShouldBeAccessible", model.VariantPropertyDefault, m.Name)
	recv, _ := ctx.receiver(b, m)

	exception := b.fresh("exception")
	b.act(model.Capture(exception, model.MemberOf(recv, m.Name)))

	b.assert(model.Null(model.Var(exception)))
	if ctx.Classify(m.Type).Kind == classify.OrderedCollection {
		b.assert(model.NotNull(model.MemberOf(recv, m.Name)))
	}
	return b.build()
}

func (General) propertyRoundTrip(ctx *Context, m model.Member) model.TestCase {
	b := newCase(pascal(m.Name)+"_ShouldRoundTripAssignedValue", model.VariantPropertyRoundTrip, m.Name)
	recv, _ := ctx.receiver(b, m)

	expected := b.fresh("expected")
	b.arrange(model.Let(expected, model.SampleExpr(ctx.Sample(m.Type))))

	actual := b.fresh("actual")
	b.act(model.Assign(model.MemberOf(recv, m.Name), model.Var(expected)))
	b.act(model.Let(actual, model.MemberOf(recv, m.Name)))

	b.assert(ctx.compare(m.Type, model.Var(expected), model.Var(actual)))
	return b.build()
}

func (General) method(ctx *Context, m model.Member) model.TestCase {
	b := newCase(pascal(m.Name)+"_ShouldWorkWithDefaults", model.VariantMethod, m.Name)
	recv, instance := ctx.receiver(b, m)
	args, _ := b.bind(ctx.Bind(m.Parameters))
	call := model.Call(recv, m.Name, args...)
	shape := shapeOf(m)

	switch {
	case shape.voidLike && instance:
		b.act(model.Invoke(call, shape.async))
		b.assert(model.NotNull(recv))

	case shape.voidLike:
		exception := b.fresh("exception")
		capture := model.Capture(exception, call)
		capture.Await = shape.async
		b.act(capture)
		b.assert(model.Null(model.Var(exception)))

	default:
		result := b.fresh("result")
		if shape.async {
			b.act(model.AwaitLet(result, call))
		} else {
			b.act(model.Let(result, call))
		}
		if shape.wrapped {
			b.assert(model.IsType(shape.result, model.Var(result)))
		} else {
			b.assert(model.NotNull(model.Var(result)))
		}
	}
	return b.build()
}

func (General) rejectsInvalid(ctx *Context, m model.Member) model.TestCase {
	b := newCase(pascal(m.Name)+"_ShouldRejectInvalidInput", model.VariantRejectsInvalid, m.Name)
	b.tc.Placeholder = true
	b.note(placeholderNote)

	recv, _ := ctx.receiver(b, m)
	args, _ := b.bind(ctx.Bind(m.Parameters))

	b.assert(model.Throws(model.Call(recv, m.Name, args...), shapeOf(m).async))
	return b.build()
}
