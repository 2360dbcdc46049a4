package planner

import (
	"github.com/QTest-hq/qskel/internal/classify"
	"github.com/QTest-hq/qskel/pkg/model"
)

// Delegation plans verification cases for entities forwarding calls to one
// wrapped capability supplied through their constructor.
type Delegation struct{}

// Name implements Strategy.
func (Delegation) Name() model.Strategy { return model.StrategyDelegation }

// wrapped is the constructor used by delegation cases and the position of
// the capability parameter they verify against.
type wrapped struct {
	ctor  model.Member
	index int
}

// Plan implements Strategy.
func (d Delegation) Plan(ctx *Context) []model.TestCase {
	w, ok := d.findWrapped(ctx)

	var cases []model.TestCase
	for _, m := range ctx.Entity.Members {
		if m.Kind == model.MemberConstructor {
			if ctx.Entity.Instantiable() && len(m.Parameters) == 0 {
				cases = append(cases, ctx.defaultConstruction())
			}
			continue
		}
		if !ok || m.Static {
			continue
		}

		switch m.Kind {
		case model.MemberProperty:
			cases = append(cases, d.get(ctx, w, m))
			if m.Mutable {
				cases = append(cases, d.set(ctx, w, m))
			}
		case model.MemberMethod:
			cases = append(cases, d.call(ctx, w, m))
		}
	}
	return cases
}

// findWrapped picks the first capability parameter of the constructor with
// the most parameters among those that have one.
func (Delegation) findWrapped(ctx *Context) (wrapped, bool) {
	if !ctx.Entity.Instantiable() || ctx.Entity.Static {
		return wrapped{}, false
	}

	var (
		best  wrapped
		found bool
	)
	for _, ctor := range ctx.Entity.Constructors() {
		if found && len(ctor.Parameters) <= len(best.ctor.Parameters) {
			continue
		}
		for i, p := range ctor.Parameters {
			if ctx.Classify(p.Type).Kind == classify.Capability {
				best = wrapped{ctor: ctor, index: i}
				found = true
				break
			}
		}
	}
	return best, found
}

// arrange binds the wrapping constructor's arguments and returns the double
// standing in for the wrapped capability and the bindings to build with.
func (Delegation) arrange(ctx *Context, b *caseBuilder, w wrapped) (string, []model.Expr) {
	args, doubles := b.bind(ctx.Bind(w.ctor.Parameters))
	return doubles[w.index], args
}

func (d Delegation) construct(ctx *Context, b *caseBuilder, args []model.Expr) string {
	target := b.fresh("target")
	b.arrange(model.Let(target, model.New(ctx.Type, args...)))
	return target
}

func (d Delegation) get(ctx *Context, w wrapped, m model.Member) model.TestCase {
	b := newCase(pascal(m.Name)+"_ShouldDelegateGet", model.VariantDelegatedGet, m.Name)
	double, args := d.arrange(ctx, b, w)

	expected := b.fresh("expected")
	b.arrange(model.Let(expected, model.SampleExpr(ctx.Sample(m.Type))))
	returns := model.Var(expected)
	b.arrange(model.Stub(double, model.MemberOf(model.Receiver(), m.Name), &returns, false))
	target := d.construct(ctx, b, args)

	actual := b.fresh("actual")
	b.act(model.Let(actual, model.MemberOf(model.Var(target), m.Name)))

	b.assert(model.Equal(model.Var(expected), model.Var(actual)))
	b.assert(model.Verify(double, model.MemberOf(model.Receiver(), m.Name), nil, 1))
	return b.build()
}

func (d Delegation) set(ctx *Context, w wrapped, m model.Member) model.TestCase {
	b := newCase(pascal(m.Name)+"_ShouldDelegateSet", model.VariantDelegatedSet, m.Name)
	double, args := d.arrange(ctx, b, w)
	target := d.construct(ctx, b, args)

	value := b.fresh("value")
	b.arrange(model.Let(value, model.SampleExpr(ctx.Sample(m.Type))))

	b.act(model.Assign(model.MemberOf(model.Var(target), m.Name), model.Var(value)))

	written := model.Var(value)
	b.assert(model.Verify(double, model.MemberOf(model.Receiver(), m.Name), &written, 1))
	return b.build()
}

func (d Delegation) call(ctx *Context, w wrapped, m model.Member) model.TestCase {
	b := newCase(pascal(m.Name)+"_ShouldDelegateCall", model.VariantDelegatedCall, m.Name)
	double, ctorArgs := d.arrange(ctx, b, w)
	args, _ := b.bind(ctx.Bind(m.Parameters))
	shape := shapeOf(m)

	forwarded := model.Call(model.Receiver(), m.Name, matchers(m.Parameters)...)

	var expected string
	if !shape.voidLike {
		expected = b.fresh("expected")
		b.arrange(model.Let(expected, model.SampleExpr(ctx.Sample(shape.result))))
		returns := model.Var(expected)
		b.arrange(model.Stub(double, forwarded, &returns, shape.async))
	}
	target := d.construct(ctx, b, ctorArgs)

	call := model.Call(model.Var(target), m.Name, args...)
	if shape.voidLike {
		b.act(model.Invoke(call, shape.async))
	} else {
		result := b.fresh("result")
		if shape.async {
			b.act(model.AwaitLet(result, call))
		} else {
			b.act(model.Let(result, call))
		}
		b.assert(model.Equal(model.Var(expected), model.Var(result)))
	}

	b.assert(model.Verify(double, forwarded, nil, 1))
	return b.build()
}

// matchers returns one any-value matcher per parameter, preserving the
// argument shape of the forwarded call.
func matchers(params []model.Parameter) []model.Expr {
	var out []model.Expr
	for _, p := range params {
		out = append(out, model.Any(p.Type))
	}
	return out
}
