// Package model defines the declaration model consumed by the generator and
// the test-case intents it produces. The declaration model is a structural
// description of declared types (constructors, properties, methods) supplied by
// a provider such as the C# parser or a YAML/JSON file; nothing here resolves
// symbols or binds types.
package model

import "strings"

// DeclarationModel is an ordered list of declared entities sharing a source
// namespace.
type DeclarationModel struct {
	// ID is a content fingerprint, see Fingerprint.
	ID        string   `json:"id,omitempty" yaml:"id,omitempty"`
	Namespace string   `json:"namespace" yaml:"namespace"`
	Entities  []Entity `json:"entities" yaml:"entities"`
}

// Entity is a declared type whose members are candidates for test cases.
type Entity struct {
	Name      string   `json:"name" yaml:"name"`
	Namespace string   `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	File      string   `json:"file,omitempty" yaml:"file,omitempty"`
	Static    bool     `json:"static,omitempty" yaml:"static,omitempty"`     // free-function holder
	Abstract  bool     `json:"abstract,omitempty" yaml:"abstract,omitempty"` // cannot be constructed directly
	Members   []Member `json:"members" yaml:"members"`
}

// MemberKind tags the Member variant.
type MemberKind string

const (
	MemberConstructor MemberKind = "constructor"
	MemberProperty    MemberKind = "property"
	MemberMethod      MemberKind = "method"
)

// Member is a tagged variant: constructor, property or method. Fields that do
// not apply to a kind are left zero.
type Member struct {
	Kind MemberKind `json:"kind" yaml:"kind"`
	Name string     `json:"name,omitempty" yaml:"name,omitempty"`

	// Constructor and method
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`

	// Property type
	Type TypeSignature `json:"type,omitempty" yaml:"type,omitempty"`
	// Mutable properties have both a read and a write path.
	Mutable bool `json:"mutable,omitempty" yaml:"mutable,omitempty"`

	// Method
	ReturnType TypeSignature `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Async      bool          `json:"async,omitempty" yaml:"async,omitempty"`

	Static bool `json:"static,omitempty" yaml:"static,omitempty"`
}

// Parameter is a constructor or method parameter.
type Parameter struct {
	Name string        `json:"name" yaml:"name"`
	Type TypeSignature `json:"type" yaml:"type"`
}

// Constructor builds a constructor member.
func Constructor(params ...Parameter) Member {
	return Member{Kind: MemberConstructor, Parameters: params}
}

// Property builds a property member.
func Property(name, typ string, mutable bool) Member {
	return Member{Kind: MemberProperty, Name: name, Type: ParseSignature(typ), Mutable: mutable}
}

// Method builds an instance method member.
func Method(name, returnType string, params ...Parameter) Member {
	return Member{Kind: MemberMethod, Name: name, ReturnType: ParseSignature(returnType), Parameters: params}
}

// Param builds a parameter from its name and type text.
func Param(name, typ string) Parameter {
	return Parameter{Name: name, Type: ParseSignature(typ)}
}

// Instantiable reports whether the entity can be constructed by a test.
func (e *Entity) Instantiable() bool {
	return !e.Static && !e.Abstract
}

// Constructors returns the declared constructors in declaration order.
func (e *Entity) Constructors() []Member {
	return e.membersOf(MemberConstructor)
}

// Properties returns the declared properties in declaration order.
func (e *Entity) Properties() []Member {
	return e.membersOf(MemberProperty)
}

// Methods returns the declared methods in declaration order.
func (e *Entity) Methods() []Member {
	return e.membersOf(MemberMethod)
}

// HasDefaultConstructor reports whether a zero-parameter constructor is declared.
func (e *Entity) HasDefaultConstructor() bool {
	for _, c := range e.Constructors() {
		if len(c.Parameters) == 0 {
			return true
		}
	}
	return false
}

func (e *Entity) membersOf(kind MemberKind) []Member {
	var out []Member
	for _, m := range e.Members {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// Lookup returns the entity with the given name. Generic arguments and
// namespace qualifiers are not considered; names match exactly.
func (m *DeclarationModel) Lookup(name string) (*Entity, bool) {
	for i := range m.Entities {
		if m.Entities[i].Name == name {
			return &m.Entities[i], true
		}
	}
	return nil, false
}

// SourceNamespace returns the namespace the generated tests wrap. The model
// namespace wins; otherwise the first entity namespace; otherwise fallback.
func (m *DeclarationModel) SourceNamespace(fallback string) string {
	if ns := strings.TrimSpace(m.Namespace); ns != "" {
		return ns
	}
	for _, e := range m.Entities {
		if e.Namespace != "" {
			return e.Namespace
		}
	}
	return fallback
}

// Stats returns counts of the declared shape.
func (m *DeclarationModel) Stats() map[string]int {
	stats := map[string]int{
		"entities":     len(m.Entities),
		"constructors": 0,
		"properties":   0,
		"methods":      0,
	}
	for _, e := range m.Entities {
		for _, mem := range e.Members {
			switch mem.Kind {
			case MemberConstructor:
				stats["constructors"]++
			case MemberProperty:
				stats["properties"]++
			case MemberMethod:
				stats["methods"]++
			}
		}
	}
	return stats
}
