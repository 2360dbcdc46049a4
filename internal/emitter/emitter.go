// Package emitter renders planned test suites as text
package emitter

import (
	"errors"
	"fmt"
	"sort"

	"github.com/QTest-hq/qskel/pkg/model"
)

// DefaultEmitter is used when no emitter is named
const DefaultEmitter = "xunit"

// ErrUnknownEmitter is returned for emitter names with no registration
var ErrUnknownEmitter = errors.New("unknown emitter")

// Emitter converts a planned suite to text for a specific framework
type Emitter interface {
	// Name returns the emitter name (e.g., "xunit", "plan")
	Name() string

	// Language returns the target language
	Language() string

	// Framework returns the test framework name
	Framework() string

	// FileExtension returns the suffix of generated files (e.g., "Tests.cs")
	FileExtension() string

	// Emit renders the suite. A suite without cases renders as "".
	Emit(suite *model.Suite) (string, error)
}

// Registry holds all available emitters
type Registry struct {
	emitters map[string]Emitter
}

// NewRegistry creates a new emitter registry with all built-in emitters
func NewRegistry() *Registry {
	r := &Registry{
		emitters: make(map[string]Emitter),
	}

	r.Register(&XUnitEmitter{})
	r.Register(&PlanEmitter{})

	return r
}

// Register adds an emitter to the registry
func (r *Registry) Register(e Emitter) {
	r.emitters[e.Name()] = e
}

// Get returns an emitter by name
func (r *Registry) Get(name string) (Emitter, error) {
	e, ok := r.emitters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEmitter, name)
	}
	return e, nil
}

// GetForLanguage returns the emitter for a language
func (r *Registry) GetForLanguage(lang string) (Emitter, error) {
	for _, name := range r.List() {
		if e := r.emitters[name]; e.Language() == lang {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: no emitter for language %s", ErrUnknownEmitter, lang)
}

// List returns all registered emitter names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.emitters))
	for name := range r.emitters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
