package emitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/QTest-hq/qskel/pkg/model"
)

// XUnitEmitter generates C# xUnit test classes, with Moq for test doubles
type XUnitEmitter struct{}

func (e *XUnitEmitter) Name() string          { return "xunit" }
func (e *XUnitEmitter) Language() string      { return "csharp" }
func (e *XUnitEmitter) Framework() string     { return "xunit" }
func (e *XUnitEmitter) FileExtension() string { return "Tests.cs" }

// usings are fixed per strategy and cover every construct that strategy's
// cases render
var usings = map[model.Strategy][]string{
	model.StrategyGeneral:    {"System", "System.Collections.Generic", "System.Threading.Tasks", "Moq", "Xunit"},
	model.StrategyMapping:    {"System", "System.Collections.Generic", "System.Linq", "System.Threading.Tasks", "Moq", "Xunit"},
	model.StrategyDelegation: {"System", "System.Collections.Generic", "System.Threading.Tasks", "Moq", "Xunit"},
}

const (
	classIndent  = "    "
	methodIndent = "        "
	bodyIndent   = "            "
)

// Emit generates one C# file holding a test class per fixture with cases
func (e *XUnitEmitter) Emit(suite *model.Suite) (string, error) {
	if suite == nil || suite.Empty() {
		return "", nil
	}
	header, ok := usings[suite.Strategy]
	if !ok {
		return "", fmt.Errorf("no using block for strategy: %s", suite.Strategy)
	}
	r := &csharp{}

	var sb strings.Builder

	for _, u := range header {
		sb.WriteString(fmt.Sprintf("using %s;\n", u))
	}
	seen := make(map[string]bool)
	for _, ns := range append([]string{suite.Namespace}, fixtureNamespaces(suite)...) {
		if ns == "" || seen[ns] {
			continue
		}
		seen[ns] = true
		sb.WriteString(fmt.Sprintf("using %s;\n", ns))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("namespace %s\n{\n", testNamespace(suite.Namespace)))

	first := true
	for _, f := range suite.Fixtures {
		if len(f.Cases) == 0 {
			continue
		}
		if !first {
			sb.WriteString("\n")
		}
		first = false
		sb.WriteString(r.fixture(f))
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

func testNamespace(source string) string {
	if source == "" {
		return "Tests"
	}
	return source + ".Tests"
}

func fixtureNamespaces(suite *model.Suite) []string {
	var out []string
	for _, f := range suite.Fixtures {
		if len(f.Cases) > 0 {
			out = append(out, f.Namespace)
		}
	}
	return out
}

// csharp renders intents as C# source
type csharp struct{}

func (r *csharp) fixture(f model.Fixture) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%spublic class %sTests\n%s{\n", classIndent, f.Entity, classIndent))
	for i, tc := range f.Cases {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(r.testCase(tc))
	}
	sb.WriteString(classIndent + "}\n")

	return sb.String()
}

func (r *csharp) testCase(tc model.TestCase) string {
	var sb strings.Builder

	sb.WriteString(methodIndent + "[Fact]\n")
	if tc.Async {
		sb.WriteString(fmt.Sprintf("%spublic async Task %s()\n", methodIndent, tc.Name))
	} else {
		sb.WriteString(fmt.Sprintf("%spublic void %s()\n", methodIndent, tc.Name))
	}
	sb.WriteString(methodIndent + "{\n")

	for _, note := range tc.Notes {
		sb.WriteString(fmt.Sprintf("%s// NOTE: %s\n", bodyIndent, note))
	}

	sb.WriteString(bodyIndent + "// Arrange\n")
	for _, s := range tc.Arrange {
		sb.WriteString(bodyIndent + r.step(s) + "\n")
	}
	sb.WriteString("\n")

	if len(tc.Act) == 0 {
		sb.WriteString(bodyIndent + "// Act & Assert\n")
	} else {
		sb.WriteString(bodyIndent + "// Act\n")
		for _, s := range tc.Act {
			sb.WriteString(bodyIndent + r.step(s) + "\n")
		}
		sb.WriteString("\n")
		sb.WriteString(bodyIndent + "// Assert\n")
	}
	for _, a := range tc.Assert {
		sb.WriteString(bodyIndent + r.assertion(a) + "\n")
	}

	sb.WriteString(methodIndent + "}\n")
	return sb.String()
}

func (r *csharp) step(s model.Step) string {
	switch s.Kind {
	case model.StepLet:
		return fmt.Sprintf("var %s = %s%s;", s.Var, awaitPrefix(s.Await), r.expr(s.Value))

	case model.StepDouble:
		return fmt.Sprintf("var %s = new Mock<%s>();", s.Var, s.Type)

	case model.StepStub:
		setup := "Setup"
		if s.Value.Kind == model.ExprMember {
			setup = "SetupGet"
		}
		line := fmt.Sprintf("%s.%s(x => %s)", s.Var, setup, r.expr(s.Value))
		if s.Returns != nil {
			returns := "Returns"
			if s.Await {
				returns = "ReturnsAsync"
			}
			line += fmt.Sprintf(".%s(%s)", returns, r.expr(*s.Returns))
		}
		return line + ";"

	case model.StepAssign:
		return fmt.Sprintf("%s = %s;", r.expr(*s.Target), r.expr(s.Value))

	case model.StepInvoke:
		return fmt.Sprintf("%s%s;", awaitPrefix(s.Await), r.expr(s.Value))

	case model.StepCapture:
		if s.Await {
			return fmt.Sprintf("var %s = await Record.ExceptionAsync(() => %s);", s.Var, r.expr(s.Value))
		}
		return fmt.Sprintf("var %s = Record.Exception(() => %s);", s.Var, r.expr(s.Value))

	default:
		return fmt.Sprintf("// unsupported step: %s", s.Kind)
	}
}

func (r *csharp) assertion(a model.Assertion) string {
	switch a.Kind {
	case model.AssertNotNull:
		return fmt.Sprintf("Assert.NotNull(%s);", r.expr(a.Actual))
	case model.AssertNull:
		return fmt.Sprintf("Assert.Null(%s);", r.expr(a.Actual))
	case model.AssertIsType:
		return fmt.Sprintf("Assert.IsType<%s>(%s);", a.Type, r.expr(a.Actual))
	case model.AssertEqual:
		return fmt.Sprintf("Assert.Equal(%s, %s);", r.expected(a), r.expr(a.Actual))
	case model.AssertEquivalent:
		return fmt.Sprintf("Assert.Equivalent(%s, %s);", r.expected(a), r.expr(a.Actual))
	case model.AssertCount:
		return fmt.Sprintf("Assert.Equal(%d, %s.Count());", a.Count, r.expr(a.Actual))
	case model.AssertThrows:
		if a.Async {
			return fmt.Sprintf("await Assert.ThrowsAnyAsync<Exception>(() => %s);", r.expr(a.Actual))
		}
		return fmt.Sprintf("Assert.ThrowsAny<Exception>(() => %s);", r.expr(a.Actual))
	case model.AssertVerify:
		return r.verify(a)
	default:
		return fmt.Sprintf("// unsupported assertion: %s", a.Kind)
	}
}

func (r *csharp) expected(a model.Assertion) string {
	if a.Expected == nil {
		return "null"
	}
	return r.expr(*a.Expected)
}

func (r *csharp) verify(a model.Assertion) string {
	member := r.expr(a.Actual)
	times := timesExpr(a.Times)
	switch {
	case a.Value != nil:
		return fmt.Sprintf("%s.VerifySet(x => %s = %s, %s);", a.Double, member, r.expr(*a.Value), times)
	case a.Actual.Kind == model.ExprMember:
		return fmt.Sprintf("%s.VerifyGet(x => %s, %s);", a.Double, member, times)
	default:
		return fmt.Sprintf("%s.Verify(x => %s, %s);", a.Double, member, times)
	}
}

func timesExpr(n int) string {
	switch n {
	case 0:
		return "Times.Never()"
	case 1:
		return "Times.Once()"
	default:
		return "Times.Exactly(" + strconv.Itoa(n) + ")"
	}
}

func awaitPrefix(await bool) string {
	if await {
		return "await "
	}
	return ""
}

func (r *csharp) expr(e model.Expr) string {
	switch e.Kind {
	case model.ExprVar:
		return e.Name
	case model.ExprSample:
		if e.Sample == nil {
			return "default"
		}
		return r.sample(*e.Sample)
	case model.ExprType:
		return e.Type.String()
	case model.ExprNew:
		return fmt.Sprintf("new %s(%s)", e.Type.Base(), r.args(e.Args))
	case model.ExprDouble:
		return e.Name + ".Object"
	case model.ExprReceiver:
		return "x"
	case model.ExprMember:
		return fmt.Sprintf("%s.%s", r.target(e.Target), e.Member)
	case model.ExprCall:
		return fmt.Sprintf("%s.%s(%s)", r.target(e.Target), e.Member, r.args(e.Args))
	case model.ExprAny:
		return fmt.Sprintf("It.IsAny<%s>()", e.Type)
	default:
		return "default"
	}
}

func (r *csharp) target(e *model.Expr) string {
	if e == nil {
		return "this"
	}
	return r.expr(*e)
}

func (r *csharp) args(args []model.Expr) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, r.expr(a))
	}
	return strings.Join(parts, ", ")
}

func (r *csharp) sample(v model.SampleValue) string {
	t := v.Type.Base()

	switch v.Kind {
	case model.SampleLiteral:
		return v.Literal

	case model.SampleNow:
		if v.Literal == "" {
			return "DateTime.Now"
		}
		return v.Literal

	case model.SampleSequence:
		elements := make([]string, 0, len(v.Elements))
		for _, el := range v.Elements {
			elements = append(elements, r.sample(el))
		}
		collection := t.String()
		if !t.Array && t.Name != "List" {
			// interface wrappers are satisfied by a list of the element type
			var elem model.TypeSignature
			if len(t.Args) > 0 {
				elem = t.Args[0]
			}
			collection = fmt.Sprintf("List<%s>", elem)
		}
		if len(elements) == 0 {
			if t.Array {
				return fmt.Sprintf("new %s { }", collection)
			}
			return fmt.Sprintf("new %s()", collection)
		}
		return fmt.Sprintf("new %s { %s }", collection, strings.Join(elements, ", "))

	case model.SampleConstruction:
		if len(v.Assignments) == 0 {
			return fmt.Sprintf("new %s()", t)
		}
		parts := make([]string, 0, len(v.Assignments))
		for _, a := range v.Assignments {
			parts = append(parts, fmt.Sprintf("%s = %s", a.Property, r.sample(a.Value)))
		}
		return fmt.Sprintf("new %s { %s }", t, strings.Join(parts, ", "))

	case model.SampleSubstitute:
		return fmt.Sprintf("Mock.Of<%s>()", t)

	default:
		return fmt.Sprintf("default(%s)", v.Type)
	}
}
