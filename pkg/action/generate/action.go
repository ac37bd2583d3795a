package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/buildergen/internal/gosrc"
	"github.com/cmmoran/buildergen/internal/javasrc"
	"github.com/cmmoran/buildergen/internal/model"
	"github.com/cmmoran/buildergen/internal/source"
	"github.com/cmmoran/buildergen/internal/synth"
	"github.com/cmmoran/buildergen/pkg/builder"
	"github.com/cmmoran/buildergen/pkg/host"
	"github.com/cmmoran/buildergen/pkg/manifest"
)

// Options control one generate run.
//
// Files        – documents to process, one invocation each.
// Config       – synthesis settings; nil means builder defaults.
// DryRun       – print a diff of each rewrite to Out instead of committing.
// ManifestPath – when set, committed documents are recorded there.
type Options struct {
	Files        []string
	Config       *builder.Config
	DryRun       bool
	ManifestPath string
	Out          io.Writer
	Logger       *slog.Logger
}

// Outcome is what happened to one document.
type Outcome struct {
	File      string
	Output    string // file written, or that would have been
	Targets   []string
	Diff      string
	Committed bool
	Err       error
}

// Generate synthesizes builders for every document in opts.Files. Documents
// are independent: a failure leaves that document untouched, is logged, and
// is included in the returned error while the rest still run.
func Generate(ctx context.Context, opts *Options) ([]Outcome, error) {
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = builder.NewConfig()
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var m *manifest.Manifest
	if opts.ManifestPath != "" && !opts.DryRun {
		var err error
		if m, err = manifest.Load(opts.ManifestPath); err != nil {
			return nil, err
		}
	}

	loader := source.NewLoader(l)
	outcomes := make([]Outcome, 0, len(opts.Files))
	var errs []error
	for _, file := range opts.Files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		o := generateOne(ctx, loader, cfg, opts.DryRun, file, l.With("file", file))
		if o.Err != nil {
			l.Error("builder generation failed, no edit applied", "file", file, "error", o.Err)
			errs = append(errs, o.Err)
		}
		if o.Diff != "" {
			_, _ = fmt.Fprintf(out, "--- %s\n%s\n", o.Output, o.Diff)
		}
		if o.Committed && m != nil {
			lang, _ := source.LanguageOf(file)
			m.Record(manifest.Entry{
				File:     file,
				Language: string(lang),
				Output:   o.Output,
				Mode:     string(cfg.Mode),
				Targets:  o.Targets,
			})
		}
		outcomes = append(outcomes, o)
	}

	if m != nil {
		if err := m.Save(opts.ManifestPath); err != nil {
			errs = append(errs, err)
		}
	}

	return outcomes, errors.Join(errs...)
}

func generateOne(ctx context.Context, loader *source.Loader, cfg *builder.Config, dryRun bool, file string, l *slog.Logger) Outcome {
	o := Outcome{File: file, Output: file}

	unit, err := loader.Load(ctx, file)
	if err != nil {
		o.Err = err
		return o
	}

	results, err := synth.New(model.Factory{}, cfg, unit.Language, l).SynthesizeUnit(unit)
	if err != nil {
		o.Err = err
		return o
	}
	if len(results) == 0 {
		l.Info("no class or interface declarations, nothing to do")
		return o
	}
	for _, res := range results {
		o.Targets = append(o.Targets, res.Target.Name)
	}

	var original, rewritten []byte
	switch unit.Language {
	case model.LanguageGo:
		o.Output = gosrc.OutputPath(file)
		var buf bytes.Buffer
		f, err := gosrc.Render(unit, results, cfg)
		if err != nil {
			o.Err = err
			return o
		}
		if err = f.Render(&buf); err != nil {
			o.Err = fmt.Errorf("%s: render: %w", file, err)
			return o
		}
		rewritten = buf.Bytes()
		original, err = os.ReadFile(o.Output)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			o.Err = fmt.Errorf("%s: %w", o.Output, err)
			return o
		}
	default:
		original = unit.Source
		if rewritten, err = (javasrc.Printer{}).Apply(unit, results); err != nil {
			o.Err = err
			return o
		}
	}

	if dryRun {
		o.Diff = cmp.Diff(string(original), string(rewritten))
		l.Info("dry run, not committing", "output", o.Output, "targets", o.Targets)
		return o
	}

	if err = host.Commit(o.Output, rewritten); err != nil {
		o.Err = err
		return o
	}
	o.Committed = true
	l.Info("builders committed", "output", o.Output, "targets", o.Targets)
	return o
}
