// Package classify maps type signatures to semantic categories.
//
// The default policy is lexical: it looks only at the shape of the signature
// text and never resolves symbols. It is unsound in the presence of type
// aliases, shadowed names or unconventional naming (an interface not named
// I*, a class that happens to be named IPhone), which is an accepted limit.
// Callers depend on the Classifier interface so a semantic policy can replace
// it without touching plan assembly.
package classify

import (
	"strings"
	"sync"
	"unicode"

	"github.com/QTest-hq/qskel/pkg/model"
)

// Kind is the category tag.
type Kind int

const (
	Opaque Kind = iota
	Scalar
	NullableScalar
	OrderedCollection
	Capability
	UserAggregate
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case NullableScalar:
		return "nullable-scalar"
	case OrderedCollection:
		return "ordered-collection"
	case Capability:
		return "capability"
	case UserAggregate:
		return "user-aggregate"
	default:
		return "opaque"
	}
}

// ScalarKind identifies a built-in scalar.
type ScalarKind string

const (
	Text    ScalarKind = "text"
	Int16   ScalarKind = "int16"
	Int32   ScalarKind = "int32"
	Int64   ScalarKind = "int64"
	Decimal ScalarKind = "decimal"
	Double  ScalarKind = "double"
	Single  ScalarKind = "single"
	Boolean ScalarKind = "boolean"
	Instant ScalarKind = "instant"
)

// ScalarKinds lists every scalar kind.
func ScalarKinds() []ScalarKind {
	return []ScalarKind{Text, Int16, Int32, Int64, Decimal, Double, Single, Boolean, Instant}
}

// Category is the result of classification. Scalar is set for the scalar
// kinds, Element for collections, Properties and Known for aggregates.
type Category struct {
	Kind       Kind
	Scalar     ScalarKind
	Element    model.TypeSignature
	Properties []model.Member
	Known      bool
}

// Classifier maps a signature to exactly one category. Implementations must
// be total and referentially stable.
type Classifier interface {
	Classify(sig model.TypeSignature) Category
}

// Catalog resolves entity names to declarations.
type Catalog interface {
	Lookup(name string) (*model.Entity, bool)
}

var scalarKeywords = map[string]ScalarKind{
	"string":   Text,
	"String":   Text,
	"short":    Int16,
	"Int16":    Int16,
	"int":      Int32,
	"Int32":    Int32,
	"long":     Int64,
	"Int64":    Int64,
	"decimal":  Decimal,
	"Decimal":  Decimal,
	"double":   Double,
	"Double":   Double,
	"float":    Single,
	"Single":   Single,
	"bool":     Boolean,
	"Boolean":  Boolean,
	"DateTime": Instant,
}

var sequenceWrappers = map[string]bool{
	"List":                true,
	"IList":               true,
	"IEnumerable":         true,
	"ICollection":         true,
	"IReadOnlyCollection": true,
	"IReadOnlyList":       true,
}

// Lexical classifies by signature shape. The rules form a priority list and
// the first match wins.
type Lexical struct {
	catalog Catalog
}

// NewLexical creates a lexical classifier. Aggregates resolve their property
// lists through catalog, which may be nil.
func NewLexical(catalog Catalog) *Lexical {
	return &Lexical{catalog: catalog}
}

// Classify implements Classifier.
func (l *Lexical) Classify(sig model.TypeSignature) Category {
	if kind, ok := scalarKeywords[sig.Name]; ok && !sig.Array && len(sig.Args) == 0 {
		if sig.Nullable {
			return Category{Kind: NullableScalar, Scalar: kind}
		}
		return Category{Kind: Scalar, Scalar: kind}
	}

	if sig.Array && len(sig.Args) == 1 {
		return Category{Kind: OrderedCollection, Element: sig.Args[0]}
	}
	if sequenceWrappers[sig.Name] && len(sig.Args) == 1 {
		return Category{Kind: OrderedCollection, Element: sig.Args[0]}
	}

	name := []rune(sig.Name)
	if len(name) >= 2 && name[0] == 'I' && unicode.IsUpper(name[1]) {
		return Category{Kind: Capability}
	}

	if len(name) > 0 && unicode.IsUpper(name[0]) && !strings.ContainsRune(sig.Name, '.') {
		cat := Category{Kind: UserAggregate}
		if l.catalog != nil {
			if e, ok := l.catalog.Lookup(sig.Name); ok {
				cat.Properties = e.Properties()
				cat.Known = true
			}
		}
		return cat
	}

	return Category{Kind: Opaque}
}

// Memo caches the categories computed by an inner classifier for the
// duration of one run. It is safe for concurrent use.
type Memo struct {
	inner Classifier

	mu    sync.RWMutex
	cache map[string]Category
}

// NewMemo wraps inner with a per-run cache.
func NewMemo(inner Classifier) *Memo {
	return &Memo{inner: inner, cache: make(map[string]Category)}
}

// Classify implements Classifier.
func (m *Memo) Classify(sig model.TypeSignature) Category {
	key := sig.Key()

	m.mu.RLock()
	cat, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		return cat
	}

	cat = m.inner.Classify(sig)

	m.mu.Lock()
	if existing, ok := m.cache[key]; ok {
		cat = existing
	} else {
		m.cache[key] = cat
	}
	m.mu.Unlock()
	return cat
}

// Len returns the number of cached signatures.
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}
