package gosrc

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/buildergen/internal/model"
	"github.com/cmmoran/buildergen/internal/synth"
	"github.com/cmmoran/buildergen/pkg/builder"
)

var ErrNameClash = errors.New("generated method names clash")

const (
	receiver        = "b"
	generatedHeader = "Code generated by buildergen. DO NOT EDIT."
)

// OutputPath is the companion file the builders of path are written to.
func OutputPath(path string) string {
	return strings.TrimSuffix(path, ".go") + "_builder.go"
}

// Render emits one companion file holding a builder per result. Go has no
// nested types, so the Builder of Foo becomes FooBuilder:
//
//	type FooBuilder struct{ x int }
//	func NewFooBuilder() *FooBuilder
//	func (b *FooBuilder) X() int
//	func (b *FooBuilder) WithX(x int) *FooBuilder
//	func (b *FooBuilder) Build() *Foo
//
// Imported packages keep the names the source refers to them by.
func Render(unit *model.CompilationUnit, results []*synth.Result, cfg *builder.Config) (*jen.File, error) {
	f := jen.NewFilePathName(unit.PkgPath, unit.Package)
	f.HeaderComment(generatedHeader)

	aliases := make([]string, 0, len(unit.Imports))
	for alias := range unit.Imports {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		f.ImportAlias(unit.Imports[alias], alias)
	}

	for _, res := range results {
		if err := checkNames(res, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", unit.Path, err)
		}
		renderBuilder(f, unit.Imports, res, cfg)
	}
	return f, nil
}

// checkNames rejects a builder whose methods or fields would be declared
// twice: Build next to a getter for a field called Build, or X and x.
func checkNames(res *synth.Result, cfg *builder.Config) error {
	name := res.Target.Name + cfg.BuilderName
	methods := map[string]string{"Build": "build"}
	fields := make(map[string]string, len(res.Members.Fields))

	claim := func(seen map[string]string, id, from string) error {
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s.%s from %s and %s", ErrNameClash, name, id, prev, from)
		}
		seen[id] = from
		return nil
	}
	for _, fld := range res.Members.Fields {
		if err := claim(fields, fieldIdent(fld.Name), fld.Name); err != nil {
			return err
		}
	}
	for _, g := range res.Members.Getters {
		if err := claim(methods, exportedIdent(g.Name), g.Name); err != nil {
			return err
		}
	}
	for _, st := range res.Members.Setters {
		if err := claim(methods, "With"+exportedIdent(st.Name), st.Name); err != nil {
			return err
		}
	}
	return nil
}

func renderBuilder(f *jen.File, imports map[string]string, res *synth.Result, cfg *builder.Config) {
	target := res.Target
	name := target.Name + cfg.BuilderName
	recv := func() *jen.Statement { return jen.Id(receiver).Op("*").Id(name) }

	fields := make([]jen.Code, 0, len(res.Members.Fields))
	for _, fld := range res.Members.Fields {
		fields = append(fields, jen.Id(fieldIdent(fld.Name)).Add(typeCode(fld.Type, imports)))
	}
	f.Commentf("%s accumulates the values of a %s.", name, target.Name)
	f.Type().Id(name).Struct(fields...)

	f.Func().Id("New" + name).Params().Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values()),
	)

	for _, g := range res.Members.Getters {
		f.Func().Params(recv()).Id(exportedIdent(g.Name)).Params().Add(typeCode(g.ReturnType, imports)).Block(
			jen.Return(jen.Id(receiver).Dot(fieldIdent(g.Name))),
		)
	}

	for _, s := range res.Members.Setters {
		param := paramIdent(s.Name)
		f.Func().Params(recv()).Id("With"+exportedIdent(s.Name)).Params(
			jen.Id(param).Add(typeCode(s.Params[0].Type, imports)),
		).Op("*").Id(name).Block(
			jen.Id(receiver).Dot(fieldIdent(s.Name)).Op("=").Id(param),
			jen.Return(jen.Id(receiver)),
		)
	}

	var ret *jen.Statement
	if target.Kind == model.KindInterface {
		ret = jen.Id(target.Name)
	} else {
		ret = jen.Op("*").Id(target.Name)
	}
	args := []jen.Code{jen.Id(receiver)}
	if cfg.Mode == builder.ModePositional {
		args = make([]jen.Code, 0, len(res.Members.Fields))
		for _, fld := range res.Members.Fields {
			args = append(args, jen.Id(receiver).Dot(fieldIdent(fld.Name)))
		}
	}
	f.Func().Params(recv()).Id("Build").Params().Add(ret).Block(
		jen.Return(jen.Id("New" + res.Constructs).Call(args...)),
	)
}

// typeCode converts a declared type into jen code so that package qualifiers
// are re-imported in the generated file. Shapes without a jen equivalent are
// written verbatim.
func typeCode(t *model.TypeRef, imports map[string]string) *jen.Statement {
	if t == nil {
		return jen.Null()
	}
	if t.Expr == nil {
		return jen.Id(t.Text)
	}
	return exprCode(t.Expr, imports)
}

func exprCode(expr ast.Expr, imports map[string]string) *jen.Statement {
	switch e := expr.(type) {
	case *ast.Ident:
		return jen.Id(e.Name)

	case *ast.SelectorExpr:
		if pkg, ok := e.X.(*ast.Ident); ok {
			if path, ok := imports[pkg.Name]; ok {
				return jen.Qual(path, e.Sel.Name)
			}
		}

	case *ast.ParenExpr:
		return exprCode(e.X, imports)

	case *ast.StarExpr:
		return jen.Op("*").Add(exprCode(e.X, imports))

	case *ast.ArrayType:
		switch l := e.Len.(type) {
		case nil:
			return jen.Index().Add(exprCode(e.Elt, imports))
		case *ast.Ellipsis:
			return jen.Index(jen.Op("...")).Add(exprCode(e.Elt, imports))
		default:
			return jen.Index(jen.Id(types.ExprString(l))).Add(exprCode(e.Elt, imports))
		}

	case *ast.Ellipsis:
		return jen.Op("...").Add(exprCode(e.Elt, imports))

	case *ast.MapType:
		return jen.Map(exprCode(e.Key, imports)).Add(exprCode(e.Value, imports))

	case *ast.ChanType:
		switch e.Dir {
		case ast.SEND:
			return jen.Chan().Op("<-").Add(exprCode(e.Value, imports))
		case ast.RECV:
			return jen.Op("<-").Chan().Add(exprCode(e.Value, imports))
		default:
			return jen.Chan().Add(exprCode(e.Value, imports))
		}

	case *ast.FuncType:
		fn := jen.Func().Params(fieldListCode(e.Params, imports)...)
		if e.Results == nil || len(e.Results.List) == 0 {
			return fn
		}
		if e.Results.NumFields() == 1 && len(e.Results.List[0].Names) == 0 {
			return fn.Add(exprCode(e.Results.List[0].Type, imports))
		}
		return fn.Params(fieldListCode(e.Results, imports)...)

	case *ast.InterfaceType:
		if e.Methods == nil || len(e.Methods.List) == 0 {
			return jen.Interface()
		}

	case *ast.IndexExpr:
		return exprCode(e.X, imports).Index(exprCode(e.Index, imports))

	case *ast.IndexListExpr:
		args := make([]jen.Code, len(e.Indices))
		for i, idx := range e.Indices {
			args[i] = exprCode(idx, imports)
		}
		return exprCode(e.X, imports).Index(args...)
	}

	return jen.Id(types.ExprString(expr))
}

func fieldListCode(fl *ast.FieldList, imports map[string]string) []jen.Code {
	if fl == nil {
		return nil
	}
	out := make([]jen.Code, 0, len(fl.List))
	for _, f := range fl.List {
		if len(f.Names) == 0 {
			out = append(out, exprCode(f.Type, imports))
			continue
		}
		for _, id := range f.Names {
			out = append(out, jen.Id(id.Name).Add(exprCode(f.Type, imports)))
		}
	}
	return out
}

// fieldIdent is the unexported builder field for a slot. Keywords get a
// trailing underscore: type -> type_.
func fieldIdent(name string) string {
	id := lowerFirst(name)
	if token.IsKeyword(id) {
		id += "_"
	}
	return id
}

func paramIdent(name string) string {
	id := fieldIdent(name)
	if id == receiver {
		return "value"
	}
	return id
}

func exportedIdent(name string) string {
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

func lowerFirst(name string) string {
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}
