package synth

import (
	"fmt"
	"strings"

	"github.com/cmmoran/buildergen/internal/model"
	"github.com/cmmoran/buildergen/pkg/builder"
)

// MemberSet holds the synthesized builder members by role.
type MemberSet struct {
	Fields      []*model.Field
	Constructor *model.Constructor
	Factory     *model.Method
	Getters     []*model.Method
	Setters     []*model.Method
	Build       *model.Method
}

// Ordered returns the members in declaration order: fields, constructor,
// factory, getters, setters, build.
func (s *MemberSet) Ordered() []model.Member {
	out := make([]model.Member, 0, len(s.Fields)+len(s.Getters)+len(s.Setters)+3)
	for _, f := range s.Fields {
		out = append(out, f)
	}
	if s.Constructor != nil {
		out = append(out, s.Constructor)
	}
	if s.Factory != nil {
		out = append(out, s.Factory)
	}
	for _, g := range s.Getters {
		out = append(out, g)
	}
	for _, st := range s.Setters {
		out = append(out, st)
	}
	if s.Build != nil {
		out = append(out, s.Build)
	}
	return out
}

func (s *Synthesizer) emitFields(specs []FieldSpec, set *MemberSet) error {
	for _, spec := range specs {
		f, err := s.factory.Field(s.factory.Modifiers(model.Protected), spec.Name, spec.Type)
		if err != nil {
			return fmt.Errorf("field %s: %w", spec.Name, err)
		}
		set.Fields = append(set.Fields, f)
	}
	return nil
}

func (s *Synthesizer) emitConstructor(set *MemberSet) error {
	c, err := s.factory.Constructor(s.factory.Modifiers(model.Protected), s.cfg.BuilderName, nil, nil, "")
	if err != nil {
		return fmt.Errorf("constructor: %w", err)
	}
	set.Constructor = c
	return nil
}

func (s *Synthesizer) emitFactory(set *MemberSet) error {
	m, err := s.factory.Method(
		s.factory.Modifiers(model.Public, model.Static),
		s.cfg.FactoryName,
		s.factory.Type(s.cfg.BuilderName),
		nil,
		nil,
		fmt.Sprintf("return new %s();", s.cfg.BuilderName),
	)
	if err != nil {
		return fmt.Errorf("factory: %w", err)
	}
	set.Factory = m
	return nil
}

func (s *Synthesizer) emitGetters(specs []FieldSpec, set *MemberSet) error {
	for _, spec := range specs {
		if spec.Static {
			continue
		}
		m, err := s.factory.Method(
			s.factory.Modifiers(model.Public),
			spec.Name,
			spec.Type,
			nil,
			nil,
			fmt.Sprintf("return this.%s;", spec.Name),
		)
		if err != nil {
			return fmt.Errorf("getter %s: %w", spec.Name, err)
		}
		set.Getters = append(set.Getters, m)
	}
	return nil
}

func (s *Synthesizer) emitSetters(specs []FieldSpec, set *MemberSet) error {
	for _, spec := range specs {
		if spec.Static {
			continue
		}
		param, err := s.factory.Variable(s.factory.Modifiers(model.Final), spec.Name, spec.Type)
		if err != nil {
			return fmt.Errorf("setter %s: %w", spec.Name, err)
		}
		m, err := s.factory.Method(
			s.factory.Modifiers(model.Public),
			spec.Name,
			s.factory.Type(s.cfg.BuilderName),
			[]*model.Variable{param},
			nil,
			fmt.Sprintf("this.%[1]s = %[1]s;\nreturn this;", spec.Name),
		)
		if err != nil {
			return fmt.Errorf("setter %s: %w", spec.Name, err)
		}
		set.Setters = append(set.Setters, m)
	}
	return nil
}

func (s *Synthesizer) emitBuild(target *model.TypeDecl, set *MemberSet) error {
	args := "this"
	if s.cfg.Mode == builder.ModePositional {
		args = argumentList(set.Fields)
	}
	m, err := s.factory.Method(
		s.factory.Modifiers(model.Public),
		builder.DefaultBuildName,
		s.factory.Type(target.Name),
		nil,
		nil,
		fmt.Sprintf("return new %s(%s);", s.ConstructedName(target), args),
	)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	set.Build = m
	return nil
}

// ConstructedName is the type build() instantiates: the target itself, or its
// implementation class when the target is an interface.
func (s *Synthesizer) ConstructedName(target *model.TypeDecl) string {
	if target.Kind == model.KindInterface {
		return target.Name + s.cfg.ImplSuffix
	}
	return target.Name
}

// argumentList joins field names with ", " and no trailing separator.
func argumentList(fields []*model.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}
