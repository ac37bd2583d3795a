// Package javasrc reads Java compilation units into the syntax model with
// tree-sitter and writes synthesized builders back into the source text.
package javasrc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/cmmoran/buildergen/internal/model"
)

// Parser holds a tree-sitter parser configured for Java. It is not safe for
// concurrent use.
type Parser struct {
	parser *sitter.Parser
	logger *slog.Logger
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	return &Parser{
		parser: p,
		logger: logger,
	}
}

// ParseFile reads and parses the Java file at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*model.CompilationUnit, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return p.Parse(ctx, path, content)
}

// Parse builds a compilation unit from content. Source with syntax errors is
// rejected with model.ErrUnresolved.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*model.CompilationUnit, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrUnresolved, path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w: %s: syntax errors in source", model.ErrUnresolved, path)
	}

	unit := &model.CompilationUnit{
		Path:     path,
		Language: model.LanguageJava,
		Source:   content,
		Types:    make([]*model.TypeDecl, 0),
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "package_declaration":
			unit.Package = packageName(child, content)
		case "class_declaration", "interface_declaration",
			"enum_declaration", "record_declaration", "annotation_type_declaration":
			unit.Types = append(unit.Types, p.typeDecl(child, content, true))
		}
	}

	p.logger.Debug("parsed java source", "file", path, "package", unit.Package, "types", len(unit.Types))
	return unit, nil
}

var declKinds = map[string]model.Kind{
	"class_declaration":           model.KindClass,
	"interface_declaration":       model.KindInterface,
	"enum_declaration":            model.KindOther,
	"record_declaration":          model.KindOther,
	"annotation_type_declaration": model.KindOther,
}

// typeDecl converts a type declaration node. Members are only read for
// top-level classes and interfaces; nested types keep name and kind.
func (p *Parser) typeDecl(node *sitter.Node, content []byte, readMembers bool) *model.TypeDecl {
	decl := &model.TypeDecl{
		Kind:      declKinds[node.Type()],
		Modifiers: modifiers(node, content),
		Members:   make([]model.Member, 0),
		Span:      span(node),
	}
	if name := node.ChildByFieldName("name"); name != nil {
		decl.Name = name.Content(content)
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return decl
	}
	decl.Body = span(body)
	if !readMembers || decl.Kind == model.KindOther {
		return decl
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "field_declaration":
			decl.Members = append(decl.Members, fields(child, content, false)...)
		case "constant_declaration":
			// interface constants are implicitly static
			decl.Members = append(decl.Members, fields(child, content, true)...)
		case "method_declaration":
			decl.Members = append(decl.Members, method(child, content))
		case "constructor_declaration", "compact_constructor_declaration":
			decl.Members = append(decl.Members, constructor(child, content))
		case "class_declaration", "interface_declaration",
			"enum_declaration", "record_declaration", "annotation_type_declaration":
			decl.Members = append(decl.Members, p.typeDecl(child, content, false))
		case "line_comment", "block_comment":
			continue
		default:
			decl.Members = append(decl.Members, &model.Opaque{Text: child.Content(content), Span: span(child)})
		}
	}
	return decl
}

// fields expands one field declaration into a model.Field per declarator:
// "int x, y[];" yields x int and y int[].
func fields(node *sitter.Node, content []byte, implicitStatic bool) []model.Member {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return nil
	}
	typeText := typeNode.Content(content)
	mods := modifiers(node, content)
	if implicitStatic && !mods.Has(model.Static) {
		mods = append(mods, model.Static)
	}

	var out []model.Member
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		t := typeText
		if dims := child.ChildByFieldName("dimensions"); dims != nil {
			t += dims.Content(content)
		}
		out = append(out, &model.Field{
			Modifiers: mods,
			Name:      nameNode.Content(content),
			Type:      &model.TypeRef{Text: t},
			Span:      span(node),
		})
	}
	return out
}

func method(node *sitter.Node, content []byte) *model.Method {
	m := &model.Method{
		Modifiers: modifiers(node, content),
		Span:      span(node),
	}
	if name := node.ChildByFieldName("name"); name != nil {
		m.Name = name.Content(content)
	}
	if t := node.ChildByFieldName("type"); t != nil {
		text := t.Content(content)
		if dims := node.ChildByFieldName("dimensions"); dims != nil {
			text += dims.Content(content)
		}
		m.ReturnType = &model.TypeRef{Text: text}
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		m.Params = parameters(params, content)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		m.Body = body.Content(content)
	}
	return m
}

func constructor(node *sitter.Node, content []byte) *model.Constructor {
	c := &model.Constructor{
		Modifiers: modifiers(node, content),
		Span:      span(node),
	}
	if name := node.ChildByFieldName("name"); name != nil {
		c.Name = name.Content(content)
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		c.Params = parameters(params, content)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		c.Body = body.Content(content)
	}
	return c
}

// parameters reads formal and varargs parameters. Receiver parameters
// ("Foo this") are not real parameters and are left out.
func parameters(params *sitter.Node, content []byte) []*model.Variable {
	out := make([]*model.Variable, 0, params.NamedChildCount())
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		switch child.Type() {
		case "formal_parameter":
			v := &model.Variable{Modifiers: modifiers(child, content)}
			if name := child.ChildByFieldName("name"); name != nil {
				v.Name = name.Content(content)
			}
			if t := child.ChildByFieldName("type"); t != nil {
				v.Type = &model.TypeRef{Text: t.Content(content)}
			}
			out = append(out, v)
		case "spread_parameter":
			text := child.Content(content)
			v := &model.Variable{Modifiers: modifiers(child, content)}
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if d := child.NamedChild(j); d.Type() == "variable_declarator" {
					if name := d.ChildByFieldName("name"); name != nil {
						v.Name = name.Content(content)
						text = strings.TrimSpace(string(content[child.StartByte():d.StartByte()]))
					}
				}
			}
			v.Type = &model.TypeRef{Text: text}
			out = append(out, v)
		}
	}
	return out
}

// modifiers collects the keyword modifiers of a declaration, skipping
// annotations.
func modifiers(node *sitter.Node, content []byte) model.Modifiers {
	var mods model.Modifiers
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			mod := child.Child(j)
			switch mod.Type() {
			case "marker_annotation", "annotation", "line_comment", "block_comment":
				continue
			}
			if text := strings.TrimSpace(mod.Content(content)); text != "" {
				mods = append(mods, model.Modifier(text))
			}
		}
	}
	return mods
}

func packageName(node *sitter.Node, content []byte) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "scoped_identifier", "identifier":
			return child.Content(content)
		}
	}
	return ""
}

func span(node *sitter.Node) model.Span {
	return model.Span{Start: int(node.StartByte()), End: int(node.EndByte())}
}
