package synth

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmmoran/buildergen/internal/model"
	"github.com/cmmoran/buildergen/pkg/builder"
)

var ErrNotTarget = errors.New("declaration is not a class or interface")

// Result is everything one synthesis pass produced for a target.
type Result struct {
	Target    *model.TypeDecl // the declaration as it was read
	Specs     []FieldSpec
	Members   *MemberSet
	Builder   *model.TypeDecl
	Rewritten *model.TypeDecl // Target with Builder appended

	// Constructs is the type build() instantiates.
	Constructs string
}

// Synthesizer derives, emits and assembles a nested builder for a
// declaration. It holds no state between calls.
type Synthesizer struct {
	factory  model.NodeFactory
	cfg      builder.Config
	prefixes []string
	logger   *slog.Logger
}

// New initializes a Synthesizer. A nil factory means model.Factory, a nil
// cfg the defaults and a nil logger slog.Default().
func New(factory model.NodeFactory, cfg *builder.Config, language model.Language, logger *slog.Logger) *Synthesizer {
	if factory == nil {
		factory = model.Factory{}
	}
	if cfg == nil {
		cfg = builder.NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := *cfg
	c.Normalize()
	return &Synthesizer{
		factory:  factory,
		cfg:      c,
		prefixes: c.PrefixesFor(string(language)),
		logger:   logger,
	}
}

// Synthesize runs one pass over decl with the Java accessor conventions.
func Synthesize(decl *model.TypeDecl, factory model.NodeFactory, cfg *builder.Config) (*Result, error) {
	return New(factory, cfg, model.LanguageJava, nil).Synthesize(decl)
}

// IsTarget reports whether decl can receive a builder.
func IsTarget(decl *model.TypeDecl) bool {
	return decl != nil && (decl.Kind == model.KindClass || decl.Kind == model.KindInterface)
}

// Synthesize is the main entrypoint:
//  1. Derive the field specs.
//  2. Emit fields, constructor, factory, getters, setters and build.
//  3. Assemble the Builder type and append it to the target.
//
// The target is never modified; Result.Rewritten is a new declaration.
func (s *Synthesizer) Synthesize(decl *model.TypeDecl) (*Result, error) {
	if !IsTarget(decl) {
		name := ""
		if decl != nil {
			name = decl.Name
		}
		return nil, fmt.Errorf("%q: %w", name, ErrNotTarget)
	}
	l := s.logger.With("type", decl.Name, "kind", decl.Kind.String())

	if _, exists := decl.MemberType(s.cfg.BuilderName); exists {
		l.Warn("declaration already has a nested type with the builder name", "builder", s.cfg.BuilderName)
	}

	// 1) Derive.
	specs := deriveFields(decl, s.prefixes, l)

	// 2) Emit.
	set := &MemberSet{}
	if err := s.emitFields(specs, set); err != nil {
		return nil, fmt.Errorf("%s: %w", decl.Name, err)
	}
	if err := s.emitConstructor(set); err != nil {
		return nil, fmt.Errorf("%s: %w", decl.Name, err)
	}
	if err := s.emitFactory(set); err != nil {
		return nil, fmt.Errorf("%s: %w", decl.Name, err)
	}
	if s.cfg.Getters {
		if err := s.emitGetters(specs, set); err != nil {
			return nil, fmt.Errorf("%s: %w", decl.Name, err)
		}
	}
	if err := s.emitSetters(specs, set); err != nil {
		return nil, fmt.Errorf("%s: %w", decl.Name, err)
	}
	if err := s.emitBuild(decl, set); err != nil {
		return nil, fmt.Errorf("%s: %w", decl.Name, err)
	}

	// 3) Assemble.
	b, err := s.assemble(set)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", decl.Name, err)
	}

	l.Debug("builder synthesized", "fields", len(set.Fields), "getters", len(set.Getters), "setters", len(set.Setters))

	return &Result{
		Target:     decl,
		Specs:      specs,
		Members:    set,
		Builder:    b,
		Rewritten:  decl.AddMember(b),
		Constructs: s.ConstructedName(decl),
	}, nil
}

// SynthesizeUnit processes every top-level class and interface of unit.
// Either all targets succeed or the first error is returned with no results.
func (s *Synthesizer) SynthesizeUnit(unit *model.CompilationUnit) ([]*Result, error) {
	results := make([]*Result, 0, len(unit.Types))
	for _, decl := range unit.Types {
		if !IsTarget(decl) {
			s.logger.Debug("skipping non-target declaration", "file", unit.Path, "type", decl.Name, "kind", decl.Kind.String())
			continue
		}
		res, err := s.Synthesize(decl)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", unit.Path, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Synthesizer) assemble(set *MemberSet) (*model.TypeDecl, error) {
	cls, err := s.factory.Class(s.factory.Modifiers(model.Public, model.Static), s.cfg.BuilderName)
	if err != nil {
		return nil, fmt.Errorf("builder class: %w", err)
	}
	for _, m := range set.Ordered() {
		cls = cls.AddMember(m)
	}
	return cls, nil
}

// Config returns the normalized config the synthesizer runs with.
func (s *Synthesizer) Config() builder.Config {
	return s.cfg
}
