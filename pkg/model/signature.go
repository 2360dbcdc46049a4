package model

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// TypeSignature is a textual type expression: a name, optional generic
// arguments and a nullability flag. Arrays carry their element as the single
// argument and leave Name empty.
type TypeSignature struct {
	Name     string
	Args     []TypeSignature
	Nullable bool
	Array    bool
}

// ParseSignature parses type text such as "List<Order>", "int?",
// "Nullable<long>", "Dictionary<string, List<int>>" or "Order[]". Parsing is
// total: text that does not fit the grammar ends up verbatim in Name.
func ParseSignature(text string) TypeSignature {
	return parseSignature(strings.Join(strings.Fields(text), ""))
}

func parseSignature(s string) TypeSignature {
	var sig TypeSignature
	if strings.HasSuffix(s, "?") {
		sig.Nullable = true
		s = s[:len(s)-1]
	}
	if strings.HasSuffix(s, "[]") && len(s) > 2 {
		sig.Array = true
		sig.Args = []TypeSignature{parseSignature(s[:len(s)-2])}
		return sig
	}

	lt := strings.IndexByte(s, '<')
	if lt <= 0 || !strings.HasSuffix(s, ">") {
		sig.Name = s
		return sig
	}
	args, ok := splitGenericArgs(s[lt+1 : len(s)-1])
	if !ok {
		sig.Name = s
		return sig
	}
	sig.Name = s[:lt]
	for _, a := range args {
		sig.Args = append(sig.Args, parseSignature(a))
	}

	// Nullable<T> is the long form of T?
	if sig.Name == "Nullable" && len(sig.Args) == 1 {
		inner := sig.Args[0]
		inner.Nullable = true
		return inner
	}
	return sig
}

// splitGenericArgs splits a generic argument list on top-level commas.
func splitGenericArgs(s string) ([]string, bool) {
	var (
		args    []string
		current strings.Builder
		depth   int
	)
	for _, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return nil, false
			}
		case ',':
			if depth == 0 {
				args = append(args, current.String())
				current.Reset()
				continue
			}
		}
		current.WriteRune(r)
	}
	if depth != 0 {
		return nil, false
	}
	args = append(args, current.String())
	for _, a := range args {
		if a == "" {
			return nil, false
		}
	}
	return args, true
}

// String renders the canonical text of the signature.
func (t TypeSignature) String() string {
	var sb strings.Builder
	if t.Array {
		if len(t.Args) > 0 {
			sb.WriteString(t.Args[0].String())
		}
		sb.WriteString("[]")
	} else {
		sb.WriteString(t.Name)
		if len(t.Args) > 0 {
			sb.WriteString("<")
			for i, a := range t.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(a.String())
			}
			sb.WriteString(">")
		}
	}
	if t.Nullable {
		sb.WriteString("?")
	}
	return sb.String()
}

// Key is the canonical identity of the signature, used for memoization.
func (t TypeSignature) Key() string {
	return t.String()
}

// Base returns the signature without its nullability marker.
func (t TypeSignature) Base() TypeSignature {
	t.Nullable = false
	return t
}

// IsZero reports whether the signature is empty.
func (t TypeSignature) IsZero() bool {
	return t.Name == "" && !t.Array && len(t.Args) == 0 && !t.Nullable
}

// MarshalText renders the signature as type text.
func (t TypeSignature) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses type text.
func (t *TypeSignature) UnmarshalText(text []byte) error {
	*t = ParseSignature(string(text))
	return nil
}

// MarshalYAML renders the signature as a plain scalar.
func (t TypeSignature) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML parses a scalar node as type text.
func (t *TypeSignature) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	*t = ParseSignature(text)
	return nil
}
