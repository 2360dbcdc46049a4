package model

// Strategy names a test-plan assembly policy.
type Strategy string

const (
	StrategyGeneral    Strategy = "general"
	StrategyMapping    Strategy = "mapping"
	StrategyDelegation Strategy = "delegation"
)

// Strategies lists the supported strategies.
func Strategies() []Strategy {
	return []Strategy{StrategyGeneral, StrategyMapping, StrategyDelegation}
}

// Variant tags what a test case exercises.
type Variant string

const (
	VariantDefaultConstruction Variant = "default-construction"
	VariantConstruction        Variant = "construction"
	VariantPropertyDefault     Variant = "property-default"
	VariantPropertyRoundTrip   Variant = "property-round-trip"
	VariantMethod              Variant = "method"
	VariantRejectsInvalid      Variant = "rejects-invalid-input"
	VariantMapping             Variant = "mapping"
	VariantMappingSequence     Variant = "mapping-sequence"
	VariantDelegatedGet        Variant = "delegated-get"
	VariantDelegatedSet        Variant = "delegated-set"
	VariantDelegatedCall       Variant = "delegated-call"
)

// TestCase is one planned test: named, with arrange, act and assert parts.
type TestCase struct {
	Name    string  `json:"name" yaml:"name"`
	Variant Variant `json:"variant" yaml:"variant"`
	Member  string  `json:"member,omitempty" yaml:"member,omitempty"`
	// Async is set when any step awaits.
	Async bool `json:"async,omitempty" yaml:"async,omitempty"`
	// Placeholder marks structural cases whose assertion is not verified.
	Placeholder bool     `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Notes       []string `json:"notes,omitempty" yaml:"notes,omitempty"`

	Arrange []Step      `json:"arrange,omitempty" yaml:"arrange,omitempty"`
	Act     []Step      `json:"act" yaml:"act"`
	Assert  []Assertion `json:"assert" yaml:"assert"`
}

// Fixture groups the cases planned for one entity.
type Fixture struct {
	Entity    string     `json:"entity" yaml:"entity"`
	Namespace string     `json:"namespace" yaml:"namespace"`
	Cases     []TestCase `json:"cases" yaml:"cases"`
}

// Suite is the result of one generation run.
type Suite struct {
	ModelID   string    `json:"model_id,omitempty" yaml:"model_id,omitempty"`
	Namespace string    `json:"namespace" yaml:"namespace"`
	Strategy  Strategy  `json:"strategy" yaml:"strategy"`
	Fixtures  []Fixture `json:"fixtures" yaml:"fixtures"`
}

// Stats returns suite statistics.
func (s *Suite) Stats() map[string]int {
	stats := map[string]int{
		"fixtures":     len(s.Fixtures),
		"cases":        0,
		"placeholders": 0,
	}
	for _, f := range s.Fixtures {
		stats["cases"] += len(f.Cases)
		for _, c := range f.Cases {
			if c.Placeholder {
				stats["placeholders"]++
			}
		}
	}
	return stats
}

// Empty reports whether the suite has no cases at all.
func (s *Suite) Empty() bool {
	for _, f := range s.Fixtures {
		if len(f.Cases) > 0 {
			return false
		}
	}
	return true
}

// ExprKind tags the Expr variant.
type ExprKind string

const (
	ExprVar      ExprKind = "var"      // Name
	ExprSample   ExprKind = "sample"   // Sample
	ExprType     ExprKind = "type"     // Type, as a static invocation target
	ExprNew      ExprKind = "new"      // Type constructed with Args
	ExprDouble   ExprKind = "double"   // the stand-in object of double Name
	ExprReceiver ExprKind = "receiver" // the double's receiver inside a stub or verification
	ExprMember   ExprKind = "member"   // Target.Member
	ExprCall     ExprKind = "call"     // Target.Member(Args)
	ExprAny      ExprKind = "any"      // argument matcher for any value of Type
)

// Expr is a target-language-neutral expression.
type Expr struct {
	Kind   ExprKind      `json:"kind" yaml:"kind"`
	Name   string        `json:"name,omitempty" yaml:"name,omitempty"`
	Type   TypeSignature `json:"type,omitempty" yaml:"type,omitempty"`
	Sample *SampleValue  `json:"sample,omitempty" yaml:"sample,omitempty"`
	Target *Expr         `json:"target,omitempty" yaml:"target,omitempty"`
	Member string        `json:"member,omitempty" yaml:"member,omitempty"`
	Args   []Expr        `json:"args,omitempty" yaml:"args,omitempty"`
}

// Var references a bound variable.
func Var(name string) Expr { return Expr{Kind: ExprVar, Name: name} }

// SampleExpr wraps a synthesized sample.
func SampleExpr(v SampleValue) Expr { return Expr{Kind: ExprSample, Sample: &v} }

// TypeRef references a type as a static invocation target.
func TypeRef(t TypeSignature) Expr { return Expr{Kind: ExprType, Type: t} }

// New constructs t with args.
func New(t TypeSignature, args ...Expr) Expr { return Expr{Kind: ExprNew, Type: t, Args: args} }

// DoubleObject references the stand-in object of the named double.
func DoubleObject(name string) Expr { return Expr{Kind: ExprDouble, Name: name} }

// Receiver is the double's receiver inside stubs and verifications.
func Receiver() Expr { return Expr{Kind: ExprReceiver} }

// MemberOf reads member on target.
func MemberOf(target Expr, member string) Expr {
	return Expr{Kind: ExprMember, Target: &target, Member: member}
}

// Call invokes member on target with args.
func Call(target Expr, member string, args ...Expr) Expr {
	return Expr{Kind: ExprCall, Target: &target, Member: member, Args: args}
}

// Any matches any argument of type t.
func Any(t TypeSignature) Expr { return Expr{Kind: ExprAny, Type: t} }

// StepKind tags the Step variant.
type StepKind string

const (
	StepLet     StepKind = "let"     // Var = Value, awaited when Await
	StepDouble  StepKind = "double"  // Var is a new test double of Type
	StepStub    StepKind = "stub"    // program double Var: Value (on the receiver) returns Returns
	StepAssign  StepKind = "assign"  // Target = Value
	StepInvoke  StepKind = "invoke"  // evaluate Value for its effect
	StepCapture StepKind = "capture" // Var = exception raised while evaluating Value, if any
)

// Step is one arrange or act statement.
type Step struct {
	Kind    StepKind      `json:"kind" yaml:"kind"`
	Var     string        `json:"var,omitempty" yaml:"var,omitempty"`
	Type    TypeSignature `json:"type,omitempty" yaml:"type,omitempty"`
	Target  *Expr         `json:"target,omitempty" yaml:"target,omitempty"`
	Value   Expr          `json:"value" yaml:"value"`
	Returns *Expr         `json:"returns,omitempty" yaml:"returns,omitempty"`
	Await   bool          `json:"await,omitempty" yaml:"await,omitempty"`
}

// Let binds name to value.
func Let(name string, value Expr) Step { return Step{Kind: StepLet, Var: name, Value: value} }

// AwaitLet binds name to the awaited value.
func AwaitLet(name string, value Expr) Step {
	return Step{Kind: StepLet, Var: name, Value: value, Await: true}
}

// NewDouble creates a test double named name standing in for t.
func NewDouble(name string, t TypeSignature) Step {
	return Step{Kind: StepDouble, Var: name, Type: t}
}

// Stub programs double to answer member (an expression on Receiver) with
// returns. A nil returns programs nothing beyond accepting the call. Await
// means the double completes an asynchronous result.
func Stub(double string, member Expr, returns *Expr, await bool) Step {
	return Step{Kind: StepStub, Var: double, Value: member, Returns: returns, Await: await}
}

// Assign writes value to target.
func Assign(target, value Expr) Step { return Step{Kind: StepAssign, Target: &target, Value: value} }

// Invoke evaluates value for its effect.
func Invoke(value Expr, await bool) Step { return Step{Kind: StepInvoke, Value: value, Await: await} }

// Capture binds name to the exception raised while evaluating value.
func Capture(name string, value Expr) Step { return Step{Kind: StepCapture, Var: name, Value: value} }

// AssertionKind tags the Assertion variant.
type AssertionKind string

const (
	AssertNotNull    AssertionKind = "not_null"
	AssertNull       AssertionKind = "null"
	AssertIsType     AssertionKind = "is_type"
	AssertEqual      AssertionKind = "equal"
	AssertEquivalent AssertionKind = "equivalent"
	AssertCount      AssertionKind = "count"
	AssertThrows     AssertionKind = "throws"
	AssertVerify     AssertionKind = "verify"
)

// Assertion is one check on the outcome of a case.
type Assertion struct {
	Kind     AssertionKind `json:"kind" yaml:"kind"`
	Actual   Expr          `json:"actual" yaml:"actual"`
	Expected *Expr         `json:"expected,omitempty" yaml:"expected,omitempty"`
	Type     TypeSignature `json:"type,omitempty" yaml:"type,omitempty"`
	Count    int           `json:"count,omitempty" yaml:"count,omitempty"`
	Async    bool          `json:"async,omitempty" yaml:"async,omitempty"`

	// Verification of a double: Double is the double's name, Actual the
	// member expression on Receiver, Value the written value for setters.
	Double string `json:"double,omitempty" yaml:"double,omitempty"`
	Value  *Expr  `json:"value,omitempty" yaml:"value,omitempty"`
	Times  int    `json:"times,omitempty" yaml:"times,omitempty"`
}

// NotNull asserts actual is present.
func NotNull(actual Expr) Assertion { return Assertion{Kind: AssertNotNull, Actual: actual} }

// Null asserts actual is absent.
func Null(actual Expr) Assertion { return Assertion{Kind: AssertNull, Actual: actual} }

// IsType asserts the dynamic type of actual is exactly t.
func IsType(t TypeSignature, actual Expr) Assertion {
	return Assertion{Kind: AssertIsType, Type: t, Actual: actual}
}

// Equal asserts actual equals expected.
func Equal(expected, actual Expr) Assertion {
	return Assertion{Kind: AssertEqual, Expected: &expected, Actual: actual}
}

// Equivalent asserts actual is structurally equivalent to expected.
func Equivalent(expected, actual Expr) Assertion {
	return Assertion{Kind: AssertEquivalent, Expected: &expected, Actual: actual}
}

// Count asserts actual holds exactly n items.
func Count(actual Expr, n int) Assertion { return Assertion{Kind: AssertCount, Actual: actual, Count: n} }

// Throws asserts evaluating actual raises an error of the generic kind.
func Throws(actual Expr, async bool) Assertion {
	return Assertion{Kind: AssertThrows, Actual: actual, Async: async}
}

// Verify asserts member (an expression on Receiver) was used on double
// exactly times times. A non-nil value verifies a write of that value.
func Verify(double string, member Expr, value *Expr, times int) Assertion {
	return Assertion{Kind: AssertVerify, Double: double, Actual: member, Value: value, Times: times}
}
