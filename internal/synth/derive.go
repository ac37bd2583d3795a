package synth

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cmmoran/buildergen/internal/model"
)

// FieldSpec is one value slot backing the builder.
type FieldSpec struct {
	Name   string
	Type   *model.TypeRef
	Static bool
	From   string // member the slot was derived from
}

// DeriveFields returns the builder slots for decl, in member order.
//
// Classes contribute their non-static fields. Interfaces contribute their
// non-static, parameterless methods whose name starts with one of prefixes;
// the slot name is the method name with the prefix removed and the first
// remaining character lower-cased.
func DeriveFields(decl *model.TypeDecl, prefixes []string) []FieldSpec {
	return deriveFields(decl, prefixes, slog.Default())
}

func deriveFields(decl *model.TypeDecl, prefixes []string, l *slog.Logger) []FieldSpec {
	specs := make([]FieldSpec, 0)
	if decl == nil {
		return specs
	}

	switch decl.Kind {
	case model.KindClass:
		for _, m := range decl.Members {
			f, ok := m.(*model.Field)
			if !ok {
				continue
			}
			// we only care about instance variables
			if f.Modifiers.Has(model.Static) {
				continue
			}
			specs = append(specs, FieldSpec{Name: f.Name, Type: f.Type, From: f.Name})
		}

	case model.KindInterface:
		for _, m := range decl.Members {
			mt, ok := m.(*model.Method)
			if !ok {
				continue
			}
			prefix, ok := matchPrefix(mt.Name, prefixes)
			if !ok {
				continue
			}
			if len(mt.Params) > 0 || mt.Modifiers.Has(model.Static) {
				continue
			}
			if mt.ReturnType == nil || mt.ReturnType.Text == "void" {
				l.Debug("skipping accessor without a return value", "type", decl.Name, "method", mt.Name)
				continue
			}
			name := accessorFieldName(mt.Name, prefix)
			if name == "" {
				l.Debug("skipping degenerate accessor", "type", decl.Name, "method", mt.Name)
				continue
			}
			specs = append(specs, FieldSpec{Name: name, Type: mt.ReturnType, From: mt.Name})
		}
	}

	return specs
}

// matchPrefix returns the first prefix name starts with.
func matchPrefix(name string, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return p, true
		}
	}
	return "", false
}

// accessorFieldName strips prefix and lower-cases the first remaining rune.
// It returns "" when nothing follows the prefix.
func accessorFieldName(method, prefix string) string {
	return lowerFirst(strings.TrimPrefix(method, prefix))
}

func lowerFirst(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
