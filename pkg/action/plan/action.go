package plan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/cmmoran/buildergen/internal/model"
	"github.com/cmmoran/buildergen/internal/source"
	"github.com/cmmoran/buildergen/internal/synth"
	"github.com/cmmoran/buildergen/pkg/builder"
)

// Slot is one builder slot and its type as written in the source.
type Slot struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

// Target describes the builder that would be synthesized for one declaration.
type Target struct {
	Name   string `yaml:"name" json:"name"`
	Kind   string `yaml:"kind" json:"kind"`
	Builds string `yaml:"builds" json:"builds"`
	Fields []Slot `yaml:"fields" json:"fields"`
}

// Document is the plan for one source file.
type Document struct {
	File     string   `yaml:"file" json:"file"`
	Language string   `yaml:"language" json:"language"`
	Targets  []Target `yaml:"targets,omitempty" json:"targets,omitempty"`
	Error    string   `yaml:"error,omitempty" json:"error,omitempty"`
}

// Plan derives builder slots for files without touching them and writes the
// result to out as a YAML stream, one document per file.
func Plan(ctx context.Context, files []string, cfg *builder.Config, out io.Writer, l *slog.Logger) error {
	if l == nil {
		l = slog.Default()
	}
	if cfg == nil {
		cfg = builder.NewConfig()
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	loader := source.NewLoader(l)
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)

	var errs []error
	for _, file := range files {
		doc, err := planOne(ctx, loader, cfg, file, l.With("file", file))
		if err != nil {
			l.Error("unable to plan builders", "file", file, "error", err)
			doc.Error = err.Error()
			errs = append(errs, err)
		}
		if err = enc.Encode(doc); err != nil {
			return fmt.Errorf("encode plan: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}

	return errors.Join(errs...)
}

func planOne(ctx context.Context, loader *source.Loader, cfg *builder.Config, file string, l *slog.Logger) (Document, error) {
	doc := Document{File: file}
	lang, err := source.LanguageOf(file)
	if err != nil {
		return doc, err
	}
	doc.Language = string(lang)

	unit, err := loader.Load(ctx, file)
	if err != nil {
		return doc, err
	}
	results, err := synth.New(model.Factory{}, cfg, unit.Language, l).SynthesizeUnit(unit)
	if err != nil {
		return doc, err
	}

	for _, res := range results {
		t := Target{
			Name:   res.Target.Name,
			Kind:   res.Target.Kind.String(),
			Builds: res.Constructs,
			Fields: make([]Slot, 0, len(res.Specs)),
		}
		for _, spec := range res.Specs {
			t.Fields = append(t.Fields, Slot{Name: spec.Name, Type: spec.Type.Text})
		}
		doc.Targets = append(doc.Targets, t)
	}
	return doc, nil
}
