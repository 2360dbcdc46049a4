package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrInvalidModel is returned when a declaration model is structurally invalid.
var ErrInvalidModel = errors.New("invalid declaration model")

// modelNamespace seeds content fingerprints.
var modelNamespace = uuid.MustParse("6f1c0b7e-3b8a-5d2e-9c41-2a7d4e8f0b13")

// LoadFile reads a declaration model from a YAML or JSON file.
func LoadFile(path string) (*DeclarationModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Decode parses a declaration model. YAML is a superset of JSON, so both
// encodings are accepted.
func Decode(data []byte) (*DeclarationModel, error) {
	var m DeclarationModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.ID = Fingerprint(&m)
	return &m, nil
}

// Validate checks the preconditions the generator relies on.
func (m *DeclarationModel) Validate() error {
	seen := make(map[string]bool, len(m.Entities))
	for i, e := range m.Entities {
		if e.Name == "" {
			return fmt.Errorf("%w: entity %d has no name", ErrInvalidModel, i)
		}
		if seen[e.Name] {
			return fmt.Errorf("%w: entity %s declared twice", ErrInvalidModel, e.Name)
		}
		seen[e.Name] = true
		for j, mem := range e.Members {
			switch mem.Kind {
			case MemberConstructor:
			case MemberProperty:
				if mem.Name == "" || mem.Type.IsZero() {
					return fmt.Errorf("%w: %s member %d: property needs a name and a type", ErrInvalidModel, e.Name, j)
				}
			case MemberMethod:
				if mem.Name == "" {
					return fmt.Errorf("%w: %s member %d: method needs a name", ErrInvalidModel, e.Name, j)
				}
			default:
				return fmt.Errorf("%w: %s member %d: unknown kind %q", ErrInvalidModel, e.Name, j, mem.Kind)
			}
			for _, p := range mem.Parameters {
				if p.Type.IsZero() {
					return fmt.Errorf("%w: %s.%s: parameter %q has no type", ErrInvalidModel, e.Name, mem.Name, p.Name)
				}
			}
		}
	}
	return nil
}

// Fingerprint derives a stable identifier from the model content. Identical
// models always get the same identifier.
func Fingerprint(m *DeclarationModel) string {
	shape := struct {
		Namespace string   `json:"namespace"`
		Entities  []Entity `json:"entities"`
	}{m.Namespace, m.Entities}
	data, err := json.Marshal(shape)
	if err != nil {
		return ""
	}
	return uuid.NewSHA1(modelNamespace, data).String()
}
