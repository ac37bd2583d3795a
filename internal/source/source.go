// Package source picks the front end for a document by its extension.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cmmoran/buildergen/internal/gosrc"
	"github.com/cmmoran/buildergen/internal/javasrc"
	"github.com/cmmoran/buildergen/internal/model"
)

var ErrUnsupportedLanguage = errors.New("unsupported source language")

func LanguageOf(path string) (model.Language, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".java":
		return model.LanguageJava, nil
	case ".go":
		return model.LanguageGo, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
}

// Loader holds one front end per language, created on first use.
type Loader struct {
	logger *slog.Logger
	java   *javasrc.Parser
	golang *gosrc.Parser
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

func (l *Loader) Load(ctx context.Context, path string) (*model.CompilationUnit, error) {
	lang, err := LanguageOf(path)
	if err != nil {
		return nil, err
	}
	switch lang {
	case model.LanguageGo:
		if l.golang == nil {
			l.golang = gosrc.NewParser(l.logger)
		}
		return l.golang.ParseFile(ctx, path)
	default:
		if l.java == nil {
			l.java = javasrc.NewParser(l.logger)
		}
		return l.java.ParseFile(ctx, path)
	}
}
