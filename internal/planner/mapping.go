package planner

import (
	"github.com/QTest-hq/qskel/internal/classify"
	"github.com/QTest-hq/qskel/pkg/model"
)

const sequenceNote = "items are not compared pairwise: the declared shapes do not guarantee positional correspondence"

// Mapping plans equivalence cases for members translating a source shape
// into a target shape through a single parameter.
type Mapping struct{}

// Name implements Strategy.
func (Mapping) Name() model.Strategy { return model.StrategyMapping }

// Plan implements Strategy.
func (mp Mapping) Plan(ctx *Context) []model.TestCase {
	var cases []model.TestCase
	for _, m := range ctx.Entity.Members {
		switch m.Kind {
		case model.MemberConstructor:
			if ctx.Entity.Instantiable() && len(m.Parameters) == 0 {
				cases = append(cases, ctx.defaultConstruction())
			}

		case model.MemberMethod:
			if len(m.Parameters) != 1 || shapeOf(m).voidLike || !ctx.Exercisable(m) {
				continue
			}
			param := m.Parameters[0]
			cat := ctx.Classify(param.Type)
			switch {
			case cat.Kind == classify.UserAggregate:
				cases = append(cases, mp.single(ctx, m, param))
			case cat.Kind == classify.OrderedCollection && ctx.Classify(cat.Element).Kind == classify.UserAggregate:
				cases = append(cases, mp.sequence(ctx, m, param, cat.Element))
			}
		}
	}
	return cases
}

func (mp Mapping) single(ctx *Context, m model.Member, param model.Parameter) model.TestCase {
	b := newCase(pascal(m.Name)+"_ShouldMapCommonProperties", model.VariantMapping, m.Name)
	recv, _ := ctx.receiver(b, m)

	source := b.fresh("source")
	b.arrange(model.Let(source, model.SampleExpr(ctx.Sample(param.Type))))

	result := mp.invoke(b, m, recv, model.Var(source))

	common := mp.commonProperties(ctx, param.Type, shapeOf(m).result)
	if len(common) == 0 {
		b.assert(model.NotNull(model.Var(result)))
	}
	for _, name := range common {
		b.assert(model.Equal(model.MemberOf(model.Var(source), name), model.MemberOf(model.Var(result), name)))
	}
	return b.build()
}

func (mp Mapping) sequence(ctx *Context, m model.Member, param model.Parameter, element model.TypeSignature) model.TestCase {
	b := newCase(pascal(m.Name)+"_ShouldMapEveryItem", model.VariantMappingSequence, m.Name)
	b.note(sequenceNote)
	recv, _ := ctx.receiver(b, m)

	item := ctx.Sample(element)
	items := model.SampleValue{
		Kind:     model.SampleSequence,
		Type:     param.Type,
		Elements: []model.SampleValue{item, item},
	}
	source := b.fresh("source")
	b.arrange(model.Let(source, model.SampleExpr(items)))

	result := mp.invoke(b, m, recv, model.Var(source))
	b.assert(model.Count(model.Var(result), 2))
	return b.build()
}

func (Mapping) invoke(b *caseBuilder, m model.Member, recv, arg model.Expr) string {
	result := b.fresh("result")
	call := model.Call(recv, m.Name, arg)
	if shapeOf(m).async {
		b.act(model.AwaitLet(result, call))
	} else {
		b.act(model.Let(result, call))
	}
	return result
}

// commonProperties returns up to the configured number of property names
// declared by both types, in the source type's declaration order.
func (Mapping) commonProperties(ctx *Context, source, target model.TypeSignature) []string {
	src, ok := ctx.Lookup(source.Name)
	if !ok {
		return nil
	}
	dst, ok := ctx.Lookup(target.Name)
	if !ok {
		return nil
	}

	targetProps := make(map[string]bool)
	for _, p := range dst.Properties() {
		targetProps[p.Name] = true
	}

	var names []string
	for _, p := range src.Properties() {
		if len(names) == ctx.a.maxMapped {
			break
		}
		if targetProps[p.Name] {
			names = append(names, p.Name)
		}
	}
	return names
}
