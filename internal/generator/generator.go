// Package generator runs one generation pass: declaration model in, planned
// suite and emitted test source out.
package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/QTest-hq/qskel/internal/classify"
	"github.com/QTest-hq/qskel/internal/config"
	"github.com/QTest-hq/qskel/internal/emitter"
	"github.com/QTest-hq/qskel/internal/parser"
	"github.com/QTest-hq/qskel/internal/planner"
	"github.com/QTest-hq/qskel/internal/synth"
	"github.com/QTest-hq/qskel/pkg/model"
)

// ErrNothingToGenerate is returned when no entity yields a test case. It is
// informational: the run itself succeeded.
var ErrNothingToGenerate = errors.New("nothing to generate")

// Errors surfaced from lower layers, re-exported for callers that only
// depend on the generator.
var (
	ErrUnknownStrategy  = planner.ErrUnknownStrategy
	ErrUnknownEmitter   = emitter.ErrUnknownEmitter
	ErrUnsupportedInput = parser.ErrUnsupportedInput
)

// Options holds options for one generation run
type Options struct {
	Strategy  model.Strategy
	Emitter   string
	Namespace string // overrides the model's source namespace when set
	Workers   int

	FailureMarkers      []string
	Literals            map[string]string
	MaxMappedProperties int

	// Exclude names entities that get no fixture
	Exclude []string
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Strategy:            model.StrategyGeneral,
		Emitter:             emitter.DefaultEmitter,
		Workers:             4,
		FailureMarkers:      planner.DefaultFailureMarkers(),
		MaxMappedProperties: planner.DefaultMaxMappedProperties,
	}
}

// OptionsFromProject builds run options from a project configuration
func OptionsFromProject(p *config.ProjectConfig, workers int) Options {
	opts := DefaultOptions()
	if p == nil {
		return opts
	}
	if p.Strategy != "" {
		opts.Strategy = model.Strategy(p.Strategy)
	}
	if p.Emitter != "" {
		opts.Emitter = p.Emitter
	}
	if p.FailureMarkers != nil {
		opts.FailureMarkers = p.FailureMarkers
	}
	if p.MaxMappedProperties > 0 {
		opts.MaxMappedProperties = p.MaxMappedProperties
	}
	if workers > 0 {
		opts.Workers = workers
	}
	opts.Namespace = p.Namespace
	opts.Literals = p.Literals
	opts.Exclude = p.Exclude
	return opts
}

// Result is the outcome of one run
type Result struct {
	Suite   *model.Suite
	Output  string
	Emitter emitter.Emitter
}

// Generator plans and emits test suites
type Generator struct {
	emitters *emitter.Registry

	mu     sync.Mutex
	parser *parser.Parser
}

// NewGenerator creates a new generator with the built-in emitters
func NewGenerator() *Generator {
	return &Generator{
		emitters: emitter.NewRegistry(),
		parser:   parser.NewParser(),
	}
}

// Emitters returns the emitter registry
func (g *Generator) Emitters() *emitter.Registry {
	return g.emitters
}

// Load reads a declaration model from a C# file, a directory of C# files or
// a YAML/JSON model file
func (g *Generator) Load(ctx context.Context, path string) (*model.DeclarationModel, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	m, err := g.parser.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	stats := m.Stats()
	log.Info().
		Str("input", path).
		Int("entities", stats["entities"]).
		Int("methods", stats["methods"]).
		Int("properties", stats["properties"]).
		Msg("loaded declaration model")

	return m, nil
}

// GenerateFile loads path and runs Generate on the result
func (g *Generator) GenerateFile(ctx context.Context, path string, opts Options) (*Result, error) {
	m, err := g.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, m, opts)
}

// Generate plans every entity of m under opts.Strategy and renders the suite.
// When no case is planned the result carries an empty suite and the error is
// ErrNothingToGenerate.
func (g *Generator) Generate(ctx context.Context, m *model.DeclarationModel, opts Options) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: no declaration model", ErrNothingToGenerate)
	}
	if opts.Strategy == "" {
		opts.Strategy = model.StrategyGeneral
	}
	if opts.Emitter == "" {
		opts.Emitter = emitter.DefaultEmitter
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	em, err := g.emitters.Get(opts.Emitter)
	if err != nil {
		return nil, err
	}

	memo := classify.NewMemo(classify.NewLexical(m))
	s, err := synth.New(memo, synth.WithLiterals(opts.Literals))
	if err != nil {
		return nil, fmt.Errorf("invalid literal overrides: %w", err)
	}

	plannerOpts := []planner.Option{planner.WithMaxMappedProperties(opts.MaxMappedProperties)}
	if opts.FailureMarkers != nil {
		plannerOpts = append(plannerOpts, planner.WithFailureMarkers(opts.FailureMarkers))
	}
	asm := planner.New(s, m, plannerOpts...)

	st, err := asm.Strategy(opts.Strategy)
	if err != nil {
		return nil, err
	}

	entities := selectEntities(m.Entities, opts.Exclude)

	log.Debug().
		Str("strategy", string(opts.Strategy)).
		Int("entities", len(entities)).
		Int("workers", opts.Workers).
		Msg("assembling fixtures")

	// index-addressed slots keep output order equal to input order
	fixtures := make([]model.Fixture, len(entities))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)
	for i, e := range entities {
		i, e := i, e
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			fixtures[i] = asm.Assemble(st, e)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	log.Debug().Int("signatures", memo.Len()).Msg("classified signatures")

	suite := &model.Suite{
		ModelID:   m.ID,
		Namespace: opts.Namespace,
		Strategy:  opts.Strategy,
	}
	if suite.Namespace == "" {
		suite.Namespace = m.SourceNamespace("")
	}
	for _, f := range fixtures {
		if len(f.Cases) > 0 {
			suite.Fixtures = append(suite.Fixtures, f)
		}
	}

	result := &Result{Suite: suite, Emitter: em}
	if suite.Empty() {
		log.Info().Str("strategy", string(opts.Strategy)).Msg("nothing to generate")
		return result, ErrNothingToGenerate
	}

	result.Output, err = em.Emit(suite)
	if err != nil {
		return nil, fmt.Errorf("failed to emit %s: %w", em.Name(), err)
	}

	stats := suite.Stats()
	log.Info().
		Str("strategy", string(opts.Strategy)).
		Str("emitter", em.Name()).
		Int("fixtures", stats["fixtures"]).
		Int("cases", stats["cases"]).
		Int("placeholders", stats["placeholders"]).
		Msg("generated suite")

	return result, nil
}

func selectEntities(all []model.Entity, exclude []string) []*model.Entity {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	selected := make([]*model.Entity, 0, len(all))
	for i := range all {
		if skip[all[i].Name] {
			log.Debug().Str("entity", all[i].Name).Msg("excluded")
			continue
		}
		selected = append(selected, &all[i])
	}
	return selected
}
