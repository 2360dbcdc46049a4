package planner

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/QTest-hq/qskel/internal/classify"
	"github.com/QTest-hq/qskel/internal/substitute"
	"github.com/QTest-hq/qskel/pkg/model"
)

// Context is the per-entity view of the shared core handed to strategies.
type Context struct {
	a *Assembler

	Entity *model.Entity
	// Type is the entity's own signature.
	Type model.TypeSignature

	recipe *Recipe
}

// Recipe is how member-level cases obtain an instance of the entity.
type Recipe struct {
	// Constructor is nil when the entity is built with no arguments.
	Constructor *model.Member
	Bindings    []substitute.Binding
}

func newContext(a *Assembler, e *model.Entity) *Context {
	ctx := &Context{a: a, Entity: e, Type: model.TypeSignature{Name: e.Name}}
	if e.Instantiable() {
		ctx.recipe = ctx.recipeFor(primaryConstructor(e))
	}
	return ctx
}

// primaryConstructor returns nil when the entity has a zero-parameter
// constructor or declares none; otherwise the constructor with the most
// parameters, the first one on ties.
func primaryConstructor(e *model.Entity) *model.Member {
	if e.HasDefaultConstructor() {
		return nil
	}
	var primary *model.Member
	for i := range e.Members {
		m := &e.Members[i]
		if m.Kind != model.MemberConstructor {
			continue
		}
		if primary == nil || len(m.Parameters) > len(primary.Parameters) {
			primary = m
		}
	}
	return primary
}

func (ctx *Context) recipeFor(ctor *model.Member) *Recipe {
	r := &Recipe{Constructor: ctor}
	if ctor != nil {
		r.Bindings = ctx.a.subst.Plan(ctor.Parameters)
	}
	return r
}

// Recipe returns the construction recipe, or nil for entities that cannot be
// instantiated.
func (ctx *Context) Recipe() *Recipe {
	return ctx.recipe
}

// Classify classifies sig.
func (ctx *Context) Classify(sig model.TypeSignature) classify.Category {
	return ctx.a.synth.Classifier().Classify(sig)
}

// Sample synthesizes a top-level sample for sig.
func (ctx *Context) Sample(sig model.TypeSignature) model.SampleValue {
	return ctx.a.synth.Synthesize(sig, 0)
}

// Bind plans arguments for params.
func (ctx *Context) Bind(params []model.Parameter) []substitute.Binding {
	return ctx.a.subst.Plan(params)
}

// Lookup resolves an entity declared in the same model.
func (ctx *Context) Lookup(name string) (*model.Entity, bool) {
	if ctx.a.catalog == nil {
		return nil, false
	}
	return ctx.a.catalog.Lookup(name)
}

// MatchesFailureMarker reports whether name contains a failure marker token.
func (ctx *Context) MatchesFailureMarker(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range ctx.a.markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Exercisable reports whether a member can be reached: static members always,
// instance members only on instantiable entities.
func (ctx *Context) Exercisable(m model.Member) bool {
	return m.Static || ctx.Entity.Static || ctx.recipe != nil
}

// defaultConstruction plans the shared construct-and-check case for a
// zero-parameter constructor.
func (ctx *Context) defaultConstruction() model.TestCase {
	b := newCase("Constructor_ShouldCreateInstance", model.VariantDefaultConstruction, "")
	target := b.fresh("target")
	b.act(model.Let(target, model.New(ctx.Type)))
	b.assert(model.NotNull(model.Var(target)))
	b.assert(model.IsType(ctx.Type, model.Var(target)))
	return b.build()
}

// constructionCase plans a case that builds the entity through ctor.
func (ctx *Context) constructionCase(ctor model.Member) model.TestCase {
	var names []string
	for _, p := range ctor.Parameters {
		names = append(names, pascal(p.Name))
	}
	b := newCase("Constructor_With"+strings.Join(names, "And")+"_ShouldCreateInstance", model.VariantConstruction, "")

	args, _ := b.bind(ctx.Bind(ctor.Parameters))
	target := b.fresh("target")
	b.act(model.Let(target, model.New(ctx.Type, args...)))
	b.assert(model.NotNull(model.Var(target)))
	b.assert(model.IsType(ctx.Type, model.Var(target)))
	return b.build()
}

// receiver arranges whatever is needed to invoke m and returns the invocation
// target: the type itself for static members, a constructed instance
// otherwise. The boolean is false for static receivers.
func (ctx *Context) receiver(b *caseBuilder, m model.Member) (model.Expr, bool) {
	if m.Static || ctx.Entity.Static || ctx.recipe == nil {
		return model.TypeRef(ctx.Type), false
	}
	return model.Var(b.construct(ctx.Type, ctx.recipe)), true
}

// returnShape describes how a method's result is consumed.
type returnShape struct {
	voidLike bool
	async    bool
	// wrapped is set for Task<T>/ValueTask<T>; result is T.
	wrapped bool
	result  model.TypeSignature
}

func shapeOf(m model.Member) returnShape {
	ret := m.ReturnType
	switch {
	case ret.IsZero() || ret.Name == "void":
		return returnShape{voidLike: true}
	case isTaskName(ret.Name) && len(ret.Args) == 0 && !ret.Array:
		return returnShape{voidLike: true, async: true}
	case isTaskName(ret.Name) && len(ret.Args) == 1 && !ret.Array:
		return returnShape{async: true, wrapped: true, result: ret.Args[0]}
	default:
		return returnShape{async: m.Async, result: ret}
	}
}

func isTaskName(name string) bool {
	return name == "Task" || name == "ValueTask"
}

// compare picks equality for scalar-like values and structural equivalence
// for aggregates and collections.
func (ctx *Context) compare(sig model.TypeSignature, expected, actual model.Expr) model.Assertion {
	switch ctx.Classify(sig).Kind {
	case classify.UserAggregate, classify.OrderedCollection:
		return model.Equivalent(expected, actual)
	default:
		return model.Equal(expected, actual)
	}
}

// caseBuilder accumulates one case and allocates its variable names.
type caseBuilder struct {
	tc   model.TestCase
	vars map[string]bool
}

func newCase(name string, variant model.Variant, member string) *caseBuilder {
	return &caseBuilder{
		tc:   model.TestCase{Name: name, Variant: variant, Member: member},
		vars: make(map[string]bool),
	}
}

// fresh returns base, or base with the first free numeric suffix from 2.
func (b *caseBuilder) fresh(base string) string {
	name := base
	for n := 2; b.vars[name]; n++ {
		name = base + strconv.Itoa(n)
	}
	b.vars[name] = true
	return name
}

func (b *caseBuilder) arrange(s model.Step) {
	b.tc.Arrange = append(b.tc.Arrange, s)
	b.tc.Async = b.tc.Async || s.Await
}

func (b *caseBuilder) act(s model.Step) {
	b.tc.Act = append(b.tc.Act, s)
	b.tc.Async = b.tc.Async || s.Await
}

func (b *caseBuilder) assert(a model.Assertion) {
	b.tc.Assert = append(b.tc.Assert, a)
	b.tc.Async = b.tc.Async || a.Async
}

func (b *caseBuilder) note(text string) {
	b.tc.Notes = append(b.tc.Notes, text)
}

func (b *caseBuilder) build() model.TestCase {
	return b.tc
}

// bind arranges one variable per binding and returns the argument
// expressions together with the double variable of each binding, by
// position; non-capability positions hold "".
func (b *caseBuilder) bind(bindings []substitute.Binding) ([]model.Expr, []string) {
	var args []model.Expr
	doubles := make([]string, len(bindings))
	for i, bd := range bindings {
		if bd.Double {
			v := b.fresh("mock" + pascal(bd.Param.Name))
			b.arrange(model.NewDouble(v, bd.Type()))
			doubles[i] = v
			args = append(args, model.DoubleObject(v))
			continue
		}
		v := b.fresh(camel(bd.Param.Name))
		b.arrange(model.Let(v, model.SampleExpr(bd.Value)))
		args = append(args, model.Var(v))
	}
	return args, doubles
}

// construct arranges an instance of t through r and returns its variable.
func (b *caseBuilder) construct(t model.TypeSignature, r *Recipe) string {
	args, _ := b.bind(r.Bindings)
	target := b.fresh("target")
	b.arrange(model.Let(target, model.New(t, args...)))
	return target
}

func pascal(name string) string {
	name = strings.TrimPrefix(name, "@")
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

func camel(name string) string {
	if strings.HasPrefix(name, "@") {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return "value"
	}
	return string(unicode.ToLower(r)) + name[size:]
}
