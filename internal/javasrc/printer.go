package javasrc

import (
	"strings"

	"github.com/cmmoran/buildergen/internal/model"
)

const DefaultIndent = "    "

// Printer renders synthesized declarations as Java source. It only prints
// what the synthesizer builds; existing source is never reprinted.
//
// Indent is one level of indentation and Newline the line terminator. Empty
// values are taken from the source being edited, falling back to four spaces
// and "\n".
type Printer struct {
	Indent  string
	Newline string
}

func (p Printer) unit() string {
	if p.Indent == "" {
		return DefaultIndent
	}
	return p.Indent
}

// TypeDecl renders decl with every line prefixed by base. The result has no
// trailing newline.
func (p Printer) TypeDecl(decl *model.TypeDecl, base string) string {
	var b strings.Builder
	p.typeDecl(&b, decl, base)
	out := strings.TrimSuffix(b.String(), "\n")
	if nl := p.newline(); nl != "\n" {
		out = strings.ReplaceAll(out, "\n", nl)
	}
	return out
}

func (p Printer) newline() string {
	if p.Newline == "" {
		return "\n"
	}
	return p.Newline
}

func (p Printer) typeDecl(b *strings.Builder, decl *model.TypeDecl, base string) {
	inner := base + p.unit()

	b.WriteString(base)
	writeModifiers(b, decl.Modifiers)
	if decl.Kind == model.KindInterface {
		b.WriteString("interface ")
	} else {
		b.WriteString("class ")
	}
	b.WriteString(decl.Name)
	b.WriteString(" {\n")

	prevField := false
	for i, m := range decl.Members {
		_, isField := m.(*model.Field)
		// fields sit together; everything else gets a blank line before it
		if i == 0 || !isField || !prevField {
			b.WriteString("\n")
		}
		prevField = isField

		switch n := m.(type) {
		case *model.Field:
			b.WriteString(inner)
			writeModifiers(b, n.Modifiers)
			b.WriteString(n.Type.Text)
			b.WriteString(" ")
			b.WriteString(n.Name)
			b.WriteString(";\n")
		case *model.Constructor:
			b.WriteString(inner)
			writeModifiers(b, n.Modifiers)
			b.WriteString(n.Name)
			writeParams(b, n.Params)
			writeThrows(b, n.Throws)
			p.block(b, n.Body, inner)
		case *model.Method:
			b.WriteString(inner)
			writeModifiers(b, n.Modifiers)
			if n.ReturnType != nil {
				b.WriteString(n.ReturnType.Text)
			} else {
				b.WriteString("void")
			}
			b.WriteString(" ")
			b.WriteString(n.Name)
			writeParams(b, n.Params)
			writeThrows(b, n.Throws)
			p.block(b, n.Body, inner)
		case *model.TypeDecl:
			p.typeDecl(b, n, inner)
		case *model.Opaque:
			b.WriteString(inner)
			b.WriteString(n.Text)
			b.WriteString("\n")
		}
	}

	b.WriteString(base)
	b.WriteString("}\n")
}

// block writes " {", one indented line per statement of body, and the
// closing brace.
func (p Printer) block(b *strings.Builder, body, base string) {
	b.WriteString(" {\n")
	for _, stmt := range strings.Split(body, "\n") {
		if stmt = strings.TrimSpace(stmt); stmt == "" {
			continue
		}
		b.WriteString(base)
		b.WriteString(p.unit())
		b.WriteString(stmt)
		b.WriteString("\n")
	}
	b.WriteString(base)
	b.WriteString("}\n")
}

func writeModifiers(b *strings.Builder, mods model.Modifiers) {
	if len(mods) == 0 {
		return
	}
	b.WriteString(mods.String())
	b.WriteString(" ")
}

func writeParams(b *strings.Builder, params []*model.Variable) {
	b.WriteString("(")
	for i, v := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		writeModifiers(b, v.Modifiers)
		b.WriteString(v.Type.Text)
		b.WriteString(" ")
		b.WriteString(v.Name)
	}
	b.WriteString(")")
}

func writeThrows(b *strings.Builder, throws []*model.TypeRef) {
	if len(throws) == 0 {
		return
	}
	names := make([]string, len(throws))
	for i, t := range throws {
		names[i] = t.Text
	}
	b.WriteString(" throws ")
	b.WriteString(strings.Join(names, ", "))
}
